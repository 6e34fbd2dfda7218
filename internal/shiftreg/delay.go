// internal/shiftreg/delay.go
package shiftreg

import (
	"runtime"
	"time"
)

// Delayer waits at least d before returning.
type Delayer interface {
	Delay(d time.Duration)
}

// SpinDelay busy-waits on the monotonic clock.
// Scheduler sleeps overshoot microsecond delays by orders of magnitude,
// so short waits spin. Waits of Yield or longer hand the CPU back.
type SpinDelay struct {
	Yield time.Duration
}

func (s SpinDelay) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	if s.Yield > 0 && d >= s.Yield {
		time.Sleep(d)
		return
	}

	start := time.Now()
	for time.Since(start) < d {
		runtime.Gosched()
	}
}
