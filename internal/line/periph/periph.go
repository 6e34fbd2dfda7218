// internal/line/periph/periph.go
package periph

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/tamzrod/pi2jamma-input/internal/line"
)

// Opener acquires pins by periph.io name ("GPIO23", "P1_16").
// Host drivers are initialised on first use.
type Opener struct {
	initOnce sync.Once
	initErr  error
}

func New() *Opener {
	return &Opener{}
}

func (o *Opener) Open(id string, dir line.Direction, initial bool) (line.Line, error) {
	o.initOnce.Do(func() {
		_, o.initErr = host.Init()
	})
	if o.initErr != nil {
		return nil, errors.Wrap(o.initErr, "periph: host init")
	}

	p := gpioreg.ByName(id)
	if p == nil {
		return nil, errors.Errorf("periph: no pin named %q", id)
	}

	switch dir {
	case line.Output:
		if err := p.Out(gpio.Level(initial)); err != nil {
			return nil, errors.Wrapf(err, "periph: %s as output", id)
		}
	case line.Input:
		// The 74x165 drives its serial output; leave pulls alone.
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return nil, errors.Wrapf(err, "periph: %s as input", id)
		}
	default:
		return nil, errors.Errorf("periph: unsupported direction %s", dir)
	}

	return &pin{p: p, dir: dir}, nil
}

type pin struct {
	p   gpio.PinIO
	dir line.Direction
}

func (l *pin) Set(high bool) error {
	if l.dir != line.Output {
		return errors.Errorf("periph: %s is not an output", l.p.Name())
	}
	return l.p.Out(gpio.Level(high))
}

func (l *pin) Get() (bool, error) {
	return l.p.Read() == gpio.High, nil
}

func (l *pin) Close() error {
	return l.p.Halt()
}
