// internal/line/gpiocdev/gpiocdev.go
package gpiocdev

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"

	"github.com/tamzrod/pi2jamma-input/internal/line"
)

// Opener requests lines from the Linux GPIO character device.
// A numeric id is an offset on Chip; anything else is looked up
// by line name across all chips.
type Opener struct {
	Chip     string
	Consumer string
}

func New(chip, consumer string) *Opener {
	return &Opener{Chip: chip, Consumer: consumer}
}

func (o *Opener) Open(id string, dir line.Direction, initial bool) (line.Line, error) {
	chip, offset, err := o.resolve(id)
	if err != nil {
		return nil, err
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.WithConsumer(o.Consumer)}

	switch dir {
	case line.Output:
		opts = append(opts, gpiocdev.AsOutput(level(initial)))
	case line.Input:
		opts = append(opts, gpiocdev.AsInput)
	default:
		return nil, errors.Errorf("gpiocdev: unsupported direction %s", dir)
	}

	l, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "gpiocdev: request %s:%d", chip, offset)
	}

	return &cdevLine{l: l, dir: dir}, nil
}

func (o *Opener) resolve(id string) (string, int, error) {
	if n, err := strconv.Atoi(id); err == nil {
		if n < 0 {
			return "", 0, errors.Errorf("gpiocdev: negative offset %d", n)
		}
		return o.Chip, n, nil
	}

	chip, offset, err := gpiocdev.FindLine(id)
	if err != nil {
		return "", 0, errors.Wrapf(err, "gpiocdev: find line %q", id)
	}
	return chip, offset, nil
}

type cdevLine struct {
	l   *gpiocdev.Line
	dir line.Direction
}

func (c *cdevLine) Set(high bool) error {
	if c.dir != line.Output {
		return errors.New("gpiocdev: line is not an output")
	}
	return c.l.SetValue(level(high))
}

func (c *cdevLine) Get() (bool, error) {
	v, err := c.l.Value()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (c *cdevLine) Close() error {
	return c.l.Close()
}

func level(high bool) int {
	if high {
		return 1
	}
	return 0
}
