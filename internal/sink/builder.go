// internal/sink/builder.go
package sink

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/pi2jamma-input/internal/config"
	"github.com/tamzrod/pi2jamma-input/internal/keymap"
	"github.com/tamzrod/pi2jamma-input/internal/sink/logsink"
	smodbus "github.com/tamzrod/pi2jamma-input/internal/sink/modbus"
	suinput "github.com/tamzrod/pi2jamma-input/internal/sink/uinput"
)

// factory creates one sink and the func that releases it.
type factory func() (Sink, func() error, error)

// Build creates every configured sink. Config must be validated and normalized.
// If one sink fails, the ones already created are closed.
func Build(c cfg.Config, log *logrus.Entry) (Sink, func() error, error) {
	keys, err := keymap.ParseKeys(c.Panel.Keymap)
	if err != nil {
		return nil, nil, err
	}

	var factories []factory

	if u := c.Sinks.Uinput; u != nil {
		factories = append(factories, func() (Sink, func() error, error) {
			s, err := suinput.New(u.Device, u.Name, log)
			if err != nil {
				return nil, nil, err
			}
			return s, s.Close, nil
		})
	}

	if m := c.Sinks.Modbus; m != nil {
		factories = append(factories, func() (Sink, func() error, error) {
			link, err := smodbus.Dial(smodbus.Config{
				Endpoint: m.Endpoint,
				UnitID:   m.UnitID,
				Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
			})
			if err != nil {
				return nil, nil, errors.Wrap(err, "sink modbus")
			}
			s := smodbus.New(link, m.Address, keys, log.WithField("unit", m.UnitID))
			return s, s.Close, nil
		})
	}

	if l := c.Sinks.Log; l != nil {
		factories = append(factories, func() (Sink, func() error, error) {
			level, err := logrus.ParseLevel(l.Level)
			if err != nil {
				return nil, nil, errors.Wrap(err, "sink log")
			}
			s := logsink.New(log, level)
			return s, s.Close, nil
		})
	}

	return assemble(factories)
}

// assemble runs factories in order. On the first failure every sink
// already created is closed, newest first.
func assemble(factories []factory) (Sink, func() error, error) {
	if len(factories) == 0 {
		return nil, nil, errors.New("sink: none configured")
	}

	var (
		sinks   []Sink
		closers []func() error
	)

	closeAll := func() error {
		var last error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				last = err
			}
		}
		return last
	}

	for _, f := range factories {
		s, closer, err := f()
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, s)
		closers = append(closers, closer)
	}

	if len(sinks) == 1 {
		return sinks[0], closeAll, nil
	}
	return Fanout(sinks), closeAll, nil
}
