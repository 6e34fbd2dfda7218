// internal/line/set.go
package line

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Names identifies the three lines of a chain in backend terms
// (pin names, chip offsets or BCM numbers).
type Names struct {
	Clock string
	Latch string
	Data  string
}

// Set owns the clock, latch and data lines of one chain.
// Nothing else may touch these lines while the Set is alive.
type Set struct {
	Clock Line
	Latch Line
	Data  Line

	opener    Opener
	closeOnce sync.Once
	closeErr  error
}

// Acquire opens clock, latch and data in that order.
// Outputs start low. On any failure, every line already acquired is
// released before the *AcquisitionError is returned.
func Acquire(op Opener, names Names) (*Set, error) {
	if op == nil {
		return nil, errors.New("line: opener required")
	}

	s := &Set{opener: op}

	var closers []func() error

	rollback := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		closeOpener(op)
	}

	roles := []struct {
		role Role
		id   string
		dst  *Line
	}{
		{RoleClock, names.Clock, &s.Clock},
		{RoleLatch, names.Latch, &s.Latch},
		{RoleData, names.Data, &s.Data},
	}

	for _, r := range roles {
		if r.id == "" {
			rollback()
			return nil, &AcquisitionError{Role: r.role, ID: r.id, Err: errors.New("empty line id")}
		}

		l, err := op.Open(r.id, r.role.Direction(), false)
		if err != nil {
			rollback()
			return nil, &AcquisitionError{Role: r.role, ID: r.id, Err: err}
		}

		*r.dst = l
		closers = append(closers, l.Close)
	}

	return s, nil
}

// Close releases the three lines, then the opener if it holds state.
// Only the first call does any work; later calls return the same result.
func (s *Set) Close() error {
	if s == nil {
		return nil
	}

	s.closeOnce.Do(func() {
		var last error
		for _, l := range []Line{s.Data, s.Latch, s.Clock} {
			if l == nil {
				continue
			}
			if err := l.Close(); err != nil {
				last = err
			}
		}
		if c, ok := s.opener.(io.Closer); ok {
			if err := c.Close(); err != nil {
				last = err
			}
		}
		if last != nil {
			s.closeErr = errors.Wrap(last, "line: release")
		}
	})

	return s.closeErr
}

func closeOpener(op Opener) {
	if c, ok := op.(io.Closer); ok {
		_ = c.Close()
	}
}
