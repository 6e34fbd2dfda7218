// internal/shiftreg/reader.go
package shiftreg

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/tamzrod/pi2jamma-input/internal/line"
)

// MaxWidth is the widest chain a single sample can hold.
const MaxWidth = 64

// DefaultSettle is the minimum time a 74x165 needs after any edge.
const DefaultSettle = 2 * time.Microsecond

// Config is fixed for the lifetime of a Reader.
type Config struct {
	Width  int
	Settle time.Duration
}

// Reader clocks a cascaded 74x165 chain out over three lines.
// It owns the line set and releases it on Close.
type Reader struct {
	cfg   Config
	lines *line.Set
	delay Delayer

	// One sequence at a time: the chain has no addressing and an
	// interleaved pulse corrupts every bit after it.
	mu sync.Mutex
}

// New takes ownership of lines. On error the caller still owns them.
func New(lines *line.Set, cfg Config, d Delayer) (*Reader, error) {
	if lines == nil || lines.Clock == nil || lines.Latch == nil || lines.Data == nil {
		return nil, errors.New("shiftreg: clock, latch and data lines required")
	}
	if cfg.Width <= 0 || cfg.Width > MaxWidth {
		return nil, errors.Errorf("shiftreg: width must be 1..%d, got %d", MaxWidth, cfg.Width)
	}
	if cfg.Settle <= 0 {
		return nil, errors.New("shiftreg: settle time must be > 0")
	}
	if d == nil {
		d = SpinDelay{}
	}

	return &Reader{cfg: cfg, lines: lines, delay: d}, nil
}

// Width is the number of bits returned by Sample.
func (r *Reader) Width() int { return r.cfg.Width }

// Sample latches the parallel inputs and shifts them out.
//
// The first bit read lands in bit Width-1 and the last in bit 0.
// Inputs are active low, so a set bit means the switch is pressed.
func (r *Reader) Sample() (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clk, pl, din := r.lines.Clock, r.lines.Latch, r.lines.Data
	settle := r.cfg.Settle

	// Covers the final clock edge of the previous sample.
	r.delay.Delay(settle)

	if err := clk.Set(true); err != nil {
		return 0, errors.Wrap(err, "shiftreg: clock idle")
	}
	r.delay.Delay(settle)

	// Parallel load on low, shifting resumes on the rising edge.
	if err := pl.Set(false); err != nil {
		return 0, errors.Wrap(err, "shiftreg: latch low")
	}
	r.delay.Delay(settle)
	if err := pl.Set(true); err != nil {
		return 0, errors.Wrap(err, "shiftreg: latch high")
	}

	var bits uint64
	for i := 0; i < r.cfg.Width; i++ {
		r.delay.Delay(settle)

		raw, err := din.Get()
		if err != nil {
			return 0, errors.Wrapf(err, "shiftreg: read bit %d", i)
		}

		bits <<= 1
		if !raw {
			bits |= 1
		}

		if err := clk.Set(false); err != nil {
			return 0, errors.Wrapf(err, "shiftreg: clock low at bit %d", i)
		}
		r.delay.Delay(settle)
		if err := clk.Set(true); err != nil {
			return 0, errors.Wrapf(err, "shiftreg: clock high at bit %d", i)
		}
	}

	return bits, nil
}

// Close releases the lines. Safe to call more than once.
func (r *Reader) Close() error {
	return r.lines.Close()
}
