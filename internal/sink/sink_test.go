// internal/sink/sink_test.go
package sink

import (
	"io"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/pi2jamma-input/internal/config"
)

// port 1 on loopback refuses connections on any sane test host
var modbusUnreachable = cfg.ModbusConfig{Endpoint: "127.0.0.1:1", TimeoutMs: 200}

func cfgWithLogSink() cfg.Config {
	c := cfg.Config{
		Panel: cfg.PanelConfig{
			Lines: cfg.LinesConfig{Backend: cfg.BackendSim, Clock: "a", Latch: "b", Data: "c"},
			Poll:  cfg.PollConfig{IntervalMs: 1},
		},
		Sinks: cfg.SinksConfig{Log: &cfg.LogSinkConfig{}},
	}
	cfg.Normalize(&c)
	return c
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
