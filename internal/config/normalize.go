// internal/config/normalize.go
package config

import "github.com/tamzrod/pi2jamma-input/internal/keymap"

const (
	DefaultSettleUs      = 2
	DefaultUinputDevice  = "/dev/uinput"
	DefaultModbusTimeout = 1000
	DefaultGpioChip      = "gpiochip0"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	p := &cfg.Panel

	if p.Name == "" {
		p.Name = "pi2jamma"
	}

	p.Chain.Width = effectiveWidth(p.Chain.Width)
	if p.Chain.SettleUs == 0 {
		p.Chain.SettleUs = DefaultSettleUs
	}

	if len(p.Keymap) == 0 {
		stock := keymap.Pi2Jamma()
		p.Keymap = make([]string, 0, len(stock))
		for _, k := range stock {
			p.Keymap = append(p.Keymap, k.String())
		}
	}

	if p.Lines.Backend == BackendGpiocdev && p.Lines.Chip == "" {
		p.Lines.Chip = DefaultGpioChip
	}

	if p.Poll.Strategy == "" {
		p.Poll.Strategy = StrategyScheduled
	}

	if u := cfg.Sinks.Uinput; u != nil {
		if u.Device == "" {
			u.Device = DefaultUinputDevice
		}
		if u.Name == "" {
			u.Name = p.Name
		}
	}

	if m := cfg.Sinks.Modbus; m != nil && m.TimeoutMs == 0 {
		m.TimeoutMs = DefaultModbusTimeout
	}

	if l := cfg.Sinks.Log; l != nil && l.Level == "" {
		l.Level = "info"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
