// internal/poller/runner.go
package poller

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// RunForever ticks until ctx is done or shouldStop reports true.
// Both are checked between ticks only; a running tick always completes.
// The first tick error stops the loop and is returned.
// A nil shouldStop never stops.
func (p *Poller) RunForever(ctx context.Context, shouldStop func() bool) error {
	if shouldStop == nil {
		shouldStop = func() bool { return false }
	}

	log := p.log.WithField("strategy", p.cfg.Strategy)

	var wait func() bool

	switch p.cfg.Strategy {
	case Busy:
		log.Warn("busy polling: no sleep between ticks, one CPU core will be saturated")
		wait = func() bool {
			runtime.Gosched()
			return true
		}

	default:
		// One goroutine, one ticker. Ticks that fall due while a tick is
		// running are dropped by the ticker, never run concurrently.
		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()

		log = log.WithField("interval", p.cfg.Interval)
		wait = func() bool {
			select {
			case <-ctx.Done():
				return false
			case <-ticker.C:
				return true
			}
		}
	}

	log.Info("poll loop started")

	var ticks uint64
	for {
		if ctx.Err() != nil {
			log.WithField("ticks", ticks).Info("poll loop cancelled")
			return nil
		}
		if shouldStop() {
			log.WithField("ticks", ticks).Info("poll loop stopped")
			return nil
		}

		err := p.Tick()
		switch {
		case err == nil:
			ticks++
		case errors.Is(err, ErrTickInFlight):
			log.Debug("tick skipped, previous still running")
		default:
			log.WithError(err).WithField("ticks", ticks).Error("poll loop aborted")
			return err
		}

		if !wait() {
			log.WithField("ticks", ticks).Info("poll loop cancelled")
			return nil
		}
	}
}

// Run ticks until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	return p.RunForever(ctx, nil)
}
