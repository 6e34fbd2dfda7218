// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/pi2jamma-input/internal/config"
	"github.com/tamzrod/pi2jamma-input/internal/keymap"
	"github.com/tamzrod/pi2jamma-input/internal/line"
	"github.com/tamzrod/pi2jamma-input/internal/line/gpiocdev"
	"github.com/tamzrod/pi2jamma-input/internal/line/periph"
	"github.com/tamzrod/pi2jamma-input/internal/line/rpio"
	"github.com/tamzrod/pi2jamma-input/internal/line/sim"
	"github.com/tamzrod/pi2jamma-input/internal/shiftreg"
)

// Build acquires the panel's lines and wires reader, keymap and sink
// into a Poller. Config must be validated and normalized.
// Anything acquired before a failure is released before returning.
// The returned closer releases the lines exactly once.
func Build(c cfg.Config, sink Sink, log *logrus.Entry) (*Poller, func() error, error) {
	p := c.Panel

	op, delay, err := backend(p)
	if err != nil {
		return nil, nil, err
	}

	log = log.WithField("backend", p.Lines.Backend)

	lines, err := line.Acquire(op, line.Names{
		Clock: p.Lines.Clock,
		Latch: p.Lines.Latch,
		Data:  p.Lines.Data,
	})
	if err != nil {
		return nil, nil, err
	}

	reader, err := shiftreg.New(lines, shiftreg.Config{
		Width:  p.Chain.Width,
		Settle: time.Duration(p.Chain.SettleUs) * time.Microsecond,
	}, delay)
	if err != nil {
		_ = lines.Close()
		return nil, nil, err
	}

	keys, err := keymap.ParseKeys(p.Keymap)
	if err != nil {
		_ = reader.Close()
		return nil, nil, err
	}
	km, err := keymap.New(keys, p.Chain.Width)
	if err != nil {
		_ = reader.Close()
		return nil, nil, err
	}

	strategy, err := ParseStrategy(p.Poll.Strategy)
	if err != nil {
		_ = reader.Close()
		return nil, nil, err
	}

	poller, err := New(
		Config{
			Interval: time.Duration(p.Poll.IntervalMs) * time.Millisecond,
			Strategy: strategy,
		},
		reader,
		km,
		sink,
		log,
	)
	if err != nil {
		_ = reader.Close()
		return nil, nil, err
	}

	log.WithFields(logrus.Fields{
		"clock": p.Lines.Clock,
		"latch": p.Lines.Latch,
		"data":  p.Lines.Data,
		"width": p.Chain.Width,
	}).Info("chain lines acquired")

	return poller, poller.Close, nil
}

// backend picks the line opener and the delay used between edges.
func backend(p cfg.PanelConfig) (line.Opener, shiftreg.Delayer, error) {
	switch p.Lines.Backend {
	case cfg.BackendPeriph:
		return periph.New(), shiftreg.SpinDelay{}, nil
	case cfg.BackendGpiocdev:
		return gpiocdev.New(p.Lines.Chip, p.Name), shiftreg.SpinDelay{}, nil
	case cfg.BackendRpio:
		return rpio.New(), shiftreg.SpinDelay{}, nil
	case cfg.BackendSim:
		chain := dryRunChain(p)
		return chain.Opener(), chain.Clock(), nil
	default:
		return nil, nil, errors.Errorf("poller: unknown line backend %q", p.Lines.Backend)
	}
}

// dryRunChain is the simulated chain behind the sim backend. It runs for
// as long as the process does, so nothing is recorded.
func dryRunChain(p cfg.PanelConfig) *sim.Chain {
	return sim.NewChain(sim.Config{
		Width:  p.Chain.Width,
		Settle: time.Duration(p.Chain.SettleUs) * time.Microsecond,
		Names: line.Names{
			Clock: p.Lines.Clock,
			Latch: p.Lines.Latch,
			Data:  p.Lines.Data,
		},
	})
}
