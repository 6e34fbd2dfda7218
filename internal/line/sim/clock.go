// internal/line/sim/clock.go
package sim

import (
	"sync"
	"time"
)

// Clock is a logical clock. Time only moves when Delay is called,
// so protocol timing can be checked without real sleeps.
type Clock struct {
	mu  sync.Mutex
	now time.Duration
}

// Now returns the logical time since the clock was created.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Delay advances the clock by d.
func (c *Clock) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}
