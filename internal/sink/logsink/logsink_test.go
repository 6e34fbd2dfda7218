// internal/sink/logsink/logsink_test.go
package logsink

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

func TestSink_LogsTransitions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(logrus.NewEntry(logger), logrus.InfoLevel)

	steps := [][2]bool{
		{false, false}, // idle
		{true, false},  // space down
		{true, false},  // unchanged
		{false, true},  // space up, x down
	}
	for _, st := range steps {
		_ = s.Report(keymap.KeySpace, st[0])
		_ = s.Report(keymap.KeyX, st[1])
		if err := s.Sync(); err != nil {
			t.Fatalf("Sync err=%v", err)
		}
	}

	entries := hook.AllEntries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}

	want := []struct{ msg, key string }{
		{"key pressed", "KEY_SPACE"},
		{"key released", "KEY_SPACE"},
		{"key pressed", "KEY_X"},
	}
	for i, w := range want {
		e := entries[i]
		if e.Message != w.msg || e.Data["key"] != w.key || e.Level != logrus.InfoLevel {
			t.Fatalf("entry %d got=%q %v (%s) want=%q %s", i, e.Message, e.Data["key"], e.Level, w.msg, w.key)
		}
		if e.Data["sink"] != "log" {
			t.Fatalf("entry %d missing sink field", i)
		}
	}
}

func TestSink_RespectsLevel(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	s := New(logrus.NewEntry(logger), logrus.DebugLevel)

	_ = s.Report(keymap.KeyUp, true)
	_ = s.Sync()

	if len(hook.AllEntries()) != 0 {
		t.Fatalf("debug transitions must be filtered at info level")
	}
}
