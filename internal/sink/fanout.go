// internal/sink/fanout.go
package sink

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

// Fanout forwards every call to all sinks. A failing sink does not stop
// delivery to the others; errors are joined into one.
type Fanout []Sink

func (f Fanout) Report(k keymap.Key, pressed bool) error {
	var errs []string
	for i, s := range f {
		if err := s.Report(k, pressed); err != nil {
			errs = append(errs, fmt.Sprintf("sink %d: %v", i, err))
		}
	}
	return joined(errs)
}

func (f Fanout) Sync() error {
	var errs []string
	for i, s := range f {
		if err := s.Sync(); err != nil {
			errs = append(errs, fmt.Sprintf("sink %d: %v", i, err))
		}
	}
	return joined(errs)
}

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, " | "))
}
