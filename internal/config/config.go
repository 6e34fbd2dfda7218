// internal/config/config.go
package config

type Config struct {
	Panel PanelConfig `yaml:"panel"`
	Sinks SinksConfig `yaml:"sinks"`
	Log   LogConfig   `yaml:"log"`
}

// ---- PANEL ----

type PanelConfig struct {
	Name   string      `yaml:"name"`
	Chain  ChainConfig `yaml:"chain"`
	Lines  LinesConfig `yaml:"lines"`
	Keymap []string    `yaml:"keymap"` // bit 0 first; empty => stock Pi2Jamma table
	Poll   PollConfig  `yaml:"poll"`
}

// ---- CHAIN GEOMETRY ----

type ChainConfig struct {
	Width    int `yaml:"width"`     // 0 => 24
	SettleUs int `yaml:"settle_us"` // 0 => 2
}

// ---- LINES ----

const (
	BackendPeriph   = "periph"
	BackendGpiocdev = "gpiocdev"
	BackendRpio     = "rpio"
	BackendSim      = "sim"
)

type LinesConfig struct {
	Backend string `yaml:"backend"`
	Chip    string `yaml:"chip"` // gpiocdev only
	Clock   string `yaml:"clock"`
	Latch   string `yaml:"latch"`
	Data    string `yaml:"data"`
}

// ---- POLL ----

const (
	StrategyScheduled = "scheduled"
	StrategyBusy      = "busy"
)

type PollConfig struct {
	Strategy   string `yaml:"strategy"` // "" => scheduled
	IntervalMs int    `yaml:"interval_ms"`
}

// ---- SINKS (each opt-in) ----

type SinksConfig struct {
	Uinput *UinputConfig  `yaml:"uinput"`
	Modbus *ModbusConfig  `yaml:"modbus"`
	Log    *LogSinkConfig `yaml:"log"`
}

type UinputConfig struct {
	Device string `yaml:"device"`
	Name   string `yaml:"name"`
}

type ModbusConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"` // first coil; one coil per key in map order
	TimeoutMs int    `yaml:"timeout_ms"`
}

type LogSinkConfig struct {
	Level string `yaml:"level"` // level transitions are logged at
}

// ---- LOGGING ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}
