// internal/line/rpio/rpio.go
package rpio

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/tamzrod/pi2jamma-input/internal/line"
)

// Opener drives BCM283x pins through /dev/gpiomem.
// Ids are BCM numbers, optionally prefixed with "GPIO".
// The memory mapping is opened with the first line and unmapped by Close.
type Opener struct {
	mu     sync.Mutex
	mapped bool
}

func New() *Opener {
	return &Opener{}
}

func (o *Opener) Open(id string, dir line.Direction, initial bool) (line.Line, error) {
	n, err := ParsePin(id)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	if !o.mapped {
		if err := rpio.Open(); err != nil {
			o.mu.Unlock()
			return nil, errors.Wrap(err, "rpio: open")
		}
		o.mapped = true
	}
	o.mu.Unlock()

	p := rpio.Pin(n)

	switch dir {
	case line.Output:
		p.Output()
		if initial {
			p.High()
		} else {
			p.Low()
		}
	case line.Input:
		p.Input()
	default:
		return nil, errors.Errorf("rpio: unsupported direction %s", dir)
	}

	return &pin{p: p, dir: dir}, nil
}

// Close unmaps GPIO memory.
func (o *Opener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.mapped {
		return nil
	}
	o.mapped = false
	return rpio.Close()
}

// ParsePin accepts "23" or "GPIO23".
func ParsePin(id string) (uint8, error) {
	s := strings.TrimPrefix(strings.ToUpper(id), "GPIO")
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, errors.Errorf("rpio: invalid pin %q", id)
	}
	if n > 53 {
		return 0, errors.Errorf("rpio: pin %d out of range", n)
	}
	return uint8(n), nil
}

type pin struct {
	p   rpio.Pin
	dir line.Direction
}

func (l *pin) Set(high bool) error {
	if l.dir != line.Output {
		return errors.Errorf("rpio: pin %d is not an output", uint8(l.p))
	}
	if high {
		l.p.High()
	} else {
		l.p.Low()
	}
	return nil
}

func (l *pin) Get() (bool, error) {
	return l.p.Read() == rpio.High, nil
}

// Close returns the pin to input so the chain is no longer driven.
func (l *pin) Close() error {
	l.p.Input()
	return nil
}
