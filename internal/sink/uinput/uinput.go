// internal/sink/uinput/uinput.go
package uinput

import (
	"github.com/bendahl/uinput"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

// keyboard is the part of uinput.Keyboard the sink drives.
type keyboard interface {
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

// Sink is a virtual keyboard. Full snapshots go in, only transitions
// come out as key events.
type Sink struct {
	kb  keyboard
	log *logrus.Entry

	batch []keymap.State
	last  map[keymap.Key]bool
}

// New registers a virtual keyboard on the uinput device node.
func New(device, name string, log *logrus.Entry) (*Sink, error) {
	kb, err := uinput.CreateKeyboard(device, []byte(name))
	if err != nil {
		return nil, errors.Wrapf(err, "uinput: create keyboard on %s", device)
	}
	log.WithField("device", device).WithField("name", name).Info("virtual keyboard registered")
	return newSink(kb, log), nil
}

func newSink(kb keyboard, log *logrus.Entry) *Sink {
	return &Sink{
		kb:   kb,
		log:  log.WithField("sink", "uinput"),
		last: make(map[keymap.Key]bool),
	}
}

// Report queues the state of one key until Sync.
func (s *Sink) Report(k keymap.Key, pressed bool) error {
	s.batch = append(s.batch, keymap.State{Key: k, Pressed: pressed})
	return nil
}

// Sync emits events for keys whose state differs from the last sync.
// A key that has never been seen is assumed released.
// On error the remaining keys keep their previous state and are retried
// on the next Sync.
func (s *Sink) Sync() error {
	batch := s.batch
	s.batch = s.batch[:0]

	for _, st := range batch {
		if s.last[st.Key] == st.Pressed {
			continue
		}

		var err error
		if st.Pressed {
			err = s.kb.KeyDown(int(st.Key))
		} else {
			err = s.kb.KeyUp(int(st.Key))
		}
		if err != nil {
			return errors.Wrapf(err, "uinput: %s", st.Key)
		}

		s.last[st.Key] = st.Pressed
		s.log.WithField("key", st.Key).WithField("pressed", st.Pressed).Debug("key event")
	}
	return nil
}

// Close releases any held keys and unregisters the keyboard.
func (s *Sink) Close() error {
	for k, down := range s.last {
		if down {
			_ = s.kb.KeyUp(int(k))
			s.last[k] = false
		}
	}
	return s.kb.Close()
}
