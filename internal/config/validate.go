// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

const maxChainWidth = 64

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	p := cfg.Panel

	// ------------------------------------------------------------
	// CHAIN GEOMETRY
	// ------------------------------------------------------------

	if p.Chain.Width < 0 || p.Chain.Width > maxChainWidth {
		return fmt.Errorf("panel.chain.width must be 0..%d, got %d", maxChainWidth, p.Chain.Width)
	}
	if p.Chain.SettleUs < 0 {
		return fmt.Errorf("panel.chain.settle_us must be >= 0, got %d", p.Chain.SettleUs)
	}

	// ------------------------------------------------------------
	// KEYMAP (empty => stock table, which only fits the stock width)
	// ------------------------------------------------------------

	width := effectiveWidth(p.Chain.Width)

	if len(p.Keymap) == 0 {
		if width != keymap.Pi2JammaWidth {
			return fmt.Errorf(
				"panel.keymap is required for a chain width of %d (stock map has %d keys)",
				width,
				keymap.Pi2JammaWidth,
			)
		}
	} else {
		keys, err := keymap.ParseKeys(p.Keymap)
		if err != nil {
			return fmt.Errorf("panel.keymap: %w", err)
		}
		if _, err := keymap.New(keys, width); err != nil {
			return fmt.Errorf("panel.keymap: %w", err)
		}
	}

	// ------------------------------------------------------------
	// LINES
	// ------------------------------------------------------------

	switch p.Lines.Backend {
	case BackendPeriph, BackendGpiocdev, BackendRpio, BackendSim:
	case "":
		return fmt.Errorf("panel.lines.backend is required")
	default:
		return fmt.Errorf("panel.lines.backend %q unknown", p.Lines.Backend)
	}

	ids := map[string]string{}
	for _, l := range []struct{ role, id string }{
		{"clock", p.Lines.Clock},
		{"latch", p.Lines.Latch},
		{"data", p.Lines.Data},
	} {
		if l.id == "" {
			return fmt.Errorf("panel.lines.%s is required", l.role)
		}
		if prev, dup := ids[l.id]; dup {
			return fmt.Errorf("panel.lines: %s and %s both use line %q", prev, l.role, l.id)
		}
		ids[l.id] = l.role
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	switch p.Poll.Strategy {
	case "", StrategyScheduled:
		if p.Poll.IntervalMs <= 0 {
			return fmt.Errorf("panel.poll.interval_ms must be > 0 for the scheduled strategy")
		}
	case StrategyBusy:
		if p.Poll.IntervalMs < 0 {
			return fmt.Errorf("panel.poll.interval_ms must be >= 0")
		}
	default:
		return fmt.Errorf("panel.poll.strategy %q unknown", p.Poll.Strategy)
	}

	// ------------------------------------------------------------
	// SINKS
	// ------------------------------------------------------------

	s := cfg.Sinks
	if s.Uinput == nil && s.Modbus == nil && s.Log == nil {
		return fmt.Errorf("sinks: at least one of uinput, modbus, log must be configured")
	}

	if s.Modbus != nil {
		if s.Modbus.Endpoint == "" {
			return fmt.Errorf("sinks.modbus.endpoint is required")
		}
		if s.Modbus.TimeoutMs < 0 {
			return fmt.Errorf("sinks.modbus.timeout_ms must be >= 0")
		}
		if int(s.Modbus.Address)+width > 0x10000 {
			return fmt.Errorf(
				"sinks.modbus: %d coils from address %d exceed the coil space",
				width,
				s.Modbus.Address,
			)
		}
	}

	if s.Uinput != nil && len(s.Uinput.Name) > 80 {
		return fmt.Errorf("sinks.uinput.name longer than 80 bytes")
	}

	if s.Log != nil && s.Log.Level != "" {
		if _, err := logrus.ParseLevel(s.Log.Level); err != nil {
			return fmt.Errorf("sinks.log.level: %w", err)
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	if cfg.Log.Level != "" {
		if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q unknown (text, json)", cfg.Log.Format)
	}

	return nil
}

func effectiveWidth(w int) int {
	if w == 0 {
		return keymap.Pi2JammaWidth
	}
	return w
}
