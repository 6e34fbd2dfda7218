// internal/poller/types.go
package poller

import (
	"fmt"
	"time"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

// Sampler reads the whole chain once.
// Sample blocks for the full bit sequence and must not be called concurrently.
type Sampler interface {
	Sample() (uint64, error)
	Width() int
}

// Sink receives one full snapshot per tick: Report for every key
// in map order, then Sync once.
// Filtering unchanged state is the sink's job, not the poller's.
type Sink interface {
	Report(key keymap.Key, pressed bool) error
	Sync() error
}

// Strategy selects how RunForever paces ticks.
type Strategy int

const (
	// Scheduled ticks once per Interval. Ticks never overlap; late ones are dropped.
	Scheduled Strategy = iota
	// Busy ticks back to back with no sleep. Pins a CPU core.
	Busy
)

func (s Strategy) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Busy:
		return "busy"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "scheduled" (or empty) and "busy".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "scheduled":
		return Scheduled, nil
	case "busy":
		return Busy, nil
	default:
		return 0, fmt.Errorf("poller: unknown strategy %q", s)
	}
}

// PollResult is a snapshot produced by one sample.
type PollResult struct {
	At     time.Time
	Bits   uint64
	States []keymap.State
	Err    error // non-nil means the sample failed and States is empty
}
