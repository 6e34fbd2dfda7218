// internal/sink/logsink/logsink.go
package logsink

import (
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

// Sink logs key transitions. Useful with the sim backend or while
// wiring a panel.
type Sink struct {
	log   *logrus.Entry
	level logrus.Level

	batch []keymap.State
	last  map[keymap.Key]bool
}

func New(log *logrus.Entry, level logrus.Level) *Sink {
	return &Sink{
		log:   log.WithField("sink", "log"),
		level: level,
		last:  make(map[keymap.Key]bool),
	}
}

func (s *Sink) Report(k keymap.Key, pressed bool) error {
	s.batch = append(s.batch, keymap.State{Key: k, Pressed: pressed})
	return nil
}

func (s *Sink) Sync() error {
	for _, st := range s.batch {
		if s.last[st.Key] == st.Pressed {
			continue
		}
		s.last[st.Key] = st.Pressed

		msg := "key released"
		if st.Pressed {
			msg = "key pressed"
		}
		s.log.WithField("key", st.Key.String()).Log(s.level, msg)
	}
	s.batch = s.batch[:0]
	return nil
}

func (s *Sink) Close() error { return nil }
