// internal/config/normalize_test.go
package config

import (
	"testing"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

func TestNormalize_Defaults(t *testing.T) {
	cfg := valid()
	cfg.Panel.Lines.Backend = BackendGpiocdev
	cfg.Sinks.Uinput = &UinputConfig{}
	cfg.Sinks.Modbus = &ModbusConfig{Endpoint: "plc:502"}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	p := cfg.Panel
	if p.Chain.Width != 24 || p.Chain.SettleUs != DefaultSettleUs {
		t.Fatalf("chain defaults not applied: %+v", p.Chain)
	}
	if p.Lines.Chip != DefaultGpioChip {
		t.Fatalf("chip default not applied: %q", p.Lines.Chip)
	}
	if p.Poll.Strategy != StrategyScheduled {
		t.Fatalf("strategy default not applied: %q", p.Poll.Strategy)
	}
	if len(p.Keymap) != 24 || p.Keymap[0] != "KEY_SPACE" || p.Keymap[23] != "KEY_6" {
		t.Fatalf("stock keymap not applied: %v", p.Keymap)
	}

	if cfg.Sinks.Uinput.Device != DefaultUinputDevice || cfg.Sinks.Uinput.Name != "pi2jamma" {
		t.Fatalf("uinput defaults not applied: %+v", cfg.Sinks.Uinput)
	}
	if cfg.Sinks.Modbus.TimeoutMs != DefaultModbusTimeout {
		t.Fatalf("modbus timeout default not applied: %d", cfg.Sinks.Modbus.TimeoutMs)
	}
	if cfg.Sinks.Log.Level != "info" || cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("log defaults not applied")
	}

	// Normalized stock keymap must round-trip through the parser.
	keys, err := keymap.ParseKeys(p.Keymap)
	if err != nil {
		t.Fatalf("ParseKeys err=%v", err)
	}
	if _, err := keymap.New(keys, p.Chain.Width); err != nil {
		t.Fatalf("keymap.New err=%v", err)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := valid()
	cfg.Panel.Chain.SettleUs = 5
	cfg.Panel.Poll.Strategy = StrategyBusy
	cfg.Sinks.Uinput = &UinputConfig{Device: "/dev/input/uinput", Name: "cab"}

	Normalize(cfg)

	if cfg.Panel.Chain.SettleUs != 5 || cfg.Panel.Poll.Strategy != StrategyBusy {
		t.Fatalf("explicit values overwritten: %+v", cfg.Panel)
	}
	if cfg.Sinks.Uinput.Device != "/dev/input/uinput" || cfg.Sinks.Uinput.Name != "cab" {
		t.Fatalf("explicit uinput values overwritten: %+v", cfg.Sinks.Uinput)
	}
}
