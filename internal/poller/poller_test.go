// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

// ---- fakes ----

type fakeSampler struct {
	mu      sync.Mutex
	width   int
	bits    uint64
	err     error
	samples int
	closed  int

	// when set, Sample signals entered and blocks until release is closed
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSampler) Sample() (uint64, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples++
	return f.bits, f.err
}

func (f *fakeSampler) Width() int { return f.width }

func (f *fakeSampler) Close() error {
	f.closed++
	return nil
}

var _ io.Closer = (*fakeSampler)(nil)

type call struct {
	sync    bool
	key     keymap.Key
	pressed bool
}

type recordingSink struct {
	mu       sync.Mutex
	calls    []call
	syncs    int
	failSync int // fail the n-th sync (1-based), 0 = never
	failKey  keymap.Key
}

func (r *recordingSink) Report(k keymap.Key, pressed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failKey != 0 && k == r.failKey {
		return errors.New("report rejected")
	}
	r.calls = append(r.calls, call{key: k, pressed: pressed})
	return nil
}

func (r *recordingSink) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncs++
	if r.failSync != 0 && r.syncs == r.failSync {
		return errors.New("sync rejected")
	}
	r.calls = append(r.calls, call{sync: true})
	return nil
}

func (r *recordingSink) Syncs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.syncs
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestPoller(t *testing.T, s *fakeSampler, sink Sink, cfg Config) *Poller {
	t.Helper()
	p, err := New(cfg, s, keymap.DefaultPi2Jamma(), sink, quietLog())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	return p
}

var scheduled = Config{Interval: time.Millisecond, Strategy: Scheduled}

// ---- construction ----

func TestNew_WidthMismatch(t *testing.T) {
	_, err := New(scheduled, &fakeSampler{width: 16}, keymap.DefaultPi2Jamma(), &recordingSink{}, quietLog())

	var ce *keymap.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *keymap.ConfigurationError, got %v", err)
	}
}

func TestNew_Interval(t *testing.T) {
	s := &fakeSampler{width: 24}

	if _, err := New(Config{Strategy: Scheduled}, s, keymap.DefaultPi2Jamma(), &recordingSink{}, nil); err == nil {
		t.Fatalf("scheduled strategy with zero interval must fail")
	}
	if _, err := New(Config{Strategy: Busy}, s, keymap.DefaultPi2Jamma(), &recordingSink{}, nil); err != nil {
		t.Fatalf("busy strategy without interval: %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"": Scheduled, "scheduled": Scheduled, "busy": Busy} {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q) got=%s err=%v want=%s", in, got, err, want)
		}
	}
	if _, err := ParseStrategy("lazy"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

// ---- tick ----

func TestTick_ReportsEveryKeyThenSyncsOnce(t *testing.T) {
	sink := &recordingSink{}
	p := newTestPoller(t, &fakeSampler{width: 24}, sink, scheduled)

	for tick := 1; tick <= 3; tick++ {
		if err := p.Tick(); err != nil {
			t.Fatalf("Tick err=%v", err)
		}

		calls := sink.calls[(tick-1)*25:]
		if len(calls) != 25 {
			t.Fatalf("tick %d: expected 25 calls, got %d", tick, len(calls))
		}
		for i := 0; i < 24; i++ {
			if calls[i].sync {
				t.Fatalf("tick %d: sync before report %d", tick, i)
			}
			if calls[i].key != keymap.Pi2Jamma()[i] {
				t.Fatalf("tick %d: report %d key=%s want=%s", tick, i, calls[i].key, keymap.Pi2Jamma()[i])
			}
		}
		if !calls[24].sync {
			t.Fatalf("tick %d: last call must be sync", tick)
		}
	}

	if sink.syncs != 3 {
		t.Fatalf("expected 3 syncs, got %d", sink.syncs)
	}
}

func TestTick_TranslatesBits(t *testing.T) {
	sink := &recordingSink{}
	bits := uint64(1)<<0 | uint64(1)<<17 | uint64(1)<<23
	p := newTestPoller(t, &fakeSampler{width: 24, bits: bits}, sink, scheduled)

	if err := p.Tick(); err != nil {
		t.Fatalf("Tick err=%v", err)
	}

	pressed := map[keymap.Key]bool{}
	for _, c := range sink.calls[:24] {
		if c.pressed {
			pressed[c.key] = true
		}
	}

	want := []keymap.Key{keymap.KeySpace, keymap.Key1, keymap.Key6}
	if len(pressed) != len(want) {
		t.Fatalf("pressed=%v want=%v", pressed, want)
	}
	for _, k := range want {
		if !pressed[k] {
			t.Fatalf("%s should be pressed", k)
		}
	}
}

func TestTick_SampleErrorPublishesNothing(t *testing.T) {
	sink := &recordingSink{}
	sampleErr := errors.New("line gone")
	p := newTestPoller(t, &fakeSampler{width: 24, err: sampleErr}, sink, scheduled)

	if err := p.Tick(); !errors.Is(err, sampleErr) {
		t.Fatalf("expected sample error, got %v", err)
	}
	if len(sink.calls) != 0 || sink.syncs != 0 {
		t.Fatalf("nothing should reach the sink on sample failure")
	}
}

func TestTick_ReportErrorSkipsSync(t *testing.T) {
	sink := &recordingSink{failKey: keymap.KeyX}
	p := newTestPoller(t, &fakeSampler{width: 24}, sink, scheduled)

	if err := p.Tick(); err == nil {
		t.Fatalf("expected report error, got nil")
	}
	if sink.syncs != 0 {
		t.Fatalf("sync must not follow a failed report")
	}
}

func TestTick_NeverConcurrent(t *testing.T) {
	s := &fakeSampler{
		width:   24,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := newTestPoller(t, s, &recordingSink{}, scheduled)

	done := make(chan error)
	go func() { done <- p.Tick() }()

	<-s.entered

	if err := p.Tick(); !errors.Is(err, ErrTickInFlight) {
		t.Fatalf("expected ErrTickInFlight, got %v", err)
	}

	close(s.release)
	if err := <-done; err != nil {
		t.Fatalf("first Tick err=%v", err)
	}
	if s.samples != 1 {
		t.Fatalf("expected 1 sample, got %d", s.samples)
	}
}

// ---- run loop ----

func TestRunForever_StopsAfterFirstTick(t *testing.T) {
	for _, cfg := range []Config{scheduled, {Strategy: Busy}} {
		sink := &recordingSink{}
		s := &fakeSampler{width: 24}
		p := newTestPoller(t, s, sink, cfg)

		err := p.RunForever(context.Background(), func() bool { return sink.Syncs() >= 1 })
		if err != nil {
			t.Fatalf("%s: RunForever err=%v", cfg.Strategy, err)
		}
		if s.samples != 1 || sink.syncs != 1 {
			t.Fatalf("%s: expected exactly one tick, got samples=%d syncs=%d", cfg.Strategy, s.samples, sink.syncs)
		}
	}
}

func TestRunForever_StopBeforeFirstTick(t *testing.T) {
	s := &fakeSampler{width: 24}
	p := newTestPoller(t, s, &recordingSink{}, scheduled)

	if err := p.RunForever(context.Background(), func() bool { return true }); err != nil {
		t.Fatalf("RunForever err=%v", err)
	}
	if s.samples != 0 {
		t.Fatalf("expected no ticks, got %d", s.samples)
	}
}

func TestRunForever_BusyRunsBackToBack(t *testing.T) {
	sink := &recordingSink{}
	s := &fakeSampler{width: 24}
	p := newTestPoller(t, s, sink, Config{Strategy: Busy})

	start := time.Now()
	if err := p.RunForever(context.Background(), func() bool { return sink.Syncs() >= 200 }); err != nil {
		t.Fatalf("RunForever err=%v", err)
	}
	if s.samples != 200 {
		t.Fatalf("expected 200 ticks, got %d", s.samples)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("busy strategy should not sleep between ticks")
	}
}

func TestRunForever_ScheduledPacesTicks(t *testing.T) {
	sink := &recordingSink{}
	s := &fakeSampler{width: 24}
	p := newTestPoller(t, s, sink, Config{Interval: 10 * time.Millisecond, Strategy: Scheduled})

	start := time.Now()
	if err := p.RunForever(context.Background(), func() bool { return sink.Syncs() >= 3 }); err != nil {
		t.Fatalf("RunForever err=%v", err)
	}
	// first tick is immediate, two intervals between three ticks
	if el := time.Since(start); el < 20*time.Millisecond {
		t.Fatalf("3 scheduled ticks took %v, want >= 20ms", el)
	}
}

func TestRunForever_ErrorTerminates(t *testing.T) {
	sink := &recordingSink{failSync: 3}
	s := &fakeSampler{width: 24}
	p := newTestPoller(t, s, sink, Config{Strategy: Busy})

	err := p.RunForever(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected sync error, got nil")
	}
	if s.samples != 3 {
		t.Fatalf("expected loop to stop at tick 3, got %d samples", s.samples)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	s := &fakeSampler{width: 24}
	p := newTestPoller(t, s, &recordingSink{}, Config{Interval: time.Hour, Strategy: Scheduled})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- p.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run err=%v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestClose_Once(t *testing.T) {
	s := &fakeSampler{width: 24}
	p := newTestPoller(t, s, &recordingSink{}, scheduled)

	_ = p.Close()
	_ = p.Close()

	if s.closed != 1 {
		t.Fatalf("sampler closed %d times, want 1", s.closed)
	}
}
