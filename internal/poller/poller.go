// internal/poller/poller.go
package poller

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

// ErrTickInFlight is returned by Tick when another tick has not finished.
// The skipped tick has no effect.
var ErrTickInFlight = errors.New("poller: tick already in flight")

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Strategy Strategy
}

// Poller samples the chain and republishes every key on each tick.
// It keeps no button state between ticks.
type Poller struct {
	cfg     Config
	sampler Sampler
	keys    *keymap.Map
	sink    Sink
	log     *logrus.Entry

	inFlight sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// New creates a poller with immutable config.
// The poller takes ownership of sampler and closes it if it is an io.Closer.
func New(cfg Config, sampler Sampler, keys *keymap.Map, sink Sink, log *logrus.Entry) (*Poller, error) {
	if sampler == nil {
		return nil, errors.New("poller: sampler required")
	}
	if keys == nil {
		return nil, errors.New("poller: keymap required")
	}
	if sink == nil {
		return nil, errors.New("poller: sink required")
	}
	if sampler.Width() != keys.Len() {
		return nil, &keymap.ConfigurationError{
			Reason: fmt.Sprintf("%d keys for a %d-bit chain", keys.Len(), sampler.Width()),
		}
	}

	switch cfg.Strategy {
	case Scheduled:
		if cfg.Interval <= 0 {
			return nil, errors.New("poller: interval must be > 0")
		}
	case Busy:
	default:
		return nil, errors.Errorf("poller: unknown strategy %s", cfg.Strategy)
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Poller{
		cfg:     cfg,
		sampler: sampler,
		keys:    keys,
		sink:    sink,
		log:     log.WithField("component", "poller"),
	}, nil
}

// PollOnce samples the chain and translates it. Nothing is published.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: time.Now()}

	bits, err := p.sampler.Sample()
	if err != nil {
		res.Err = errors.Wrap(err, "poller: sample")
		return res
	}

	res.Bits = bits
	res.States = p.keys.Translate(bits)
	return res
}

// Tick performs exactly one sample, translate and publish cycle.
// Every key is reported, in map order, then the sink is synced once.
// A Tick that starts while another is running returns ErrTickInFlight.
func (p *Poller) Tick() error {
	if !p.inFlight.TryLock() {
		return ErrTickInFlight
	}
	defer p.inFlight.Unlock()

	res := p.PollOnce()
	if res.Err != nil {
		return res.Err
	}
	return p.publish(res)
}

func (p *Poller) publish(res PollResult) error {
	for _, s := range res.States {
		if err := p.sink.Report(s.Key, s.Pressed); err != nil {
			return errors.Wrapf(err, "poller: report %s", s.Key)
		}
	}
	if err := p.sink.Sync(); err != nil {
		return errors.Wrap(err, "poller: sync")
	}
	return nil
}

// Close releases the sampler's lines. Only the first call has effect.
func (p *Poller) Close() error {
	p.closeOnce.Do(func() {
		if c, ok := p.sampler.(io.Closer); ok {
			p.closeErr = c.Close()
		}
	})
	return p.closeErr
}
