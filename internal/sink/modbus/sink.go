// internal/sink/modbus/sink.go
package modbus

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pi2jamma-input/internal/keymap"
)

// coilWriter is the exact contract the sink uses.
type coilWriter interface {
	WriteCoils(addr uint16, bits []bool) error
	Close() error
}

// Sink mirrors the panel onto a contiguous coil range, one coil per key
// in map order starting at Address.
// A block is written only when the snapshot changed since the last
// successful write.
type Sink struct {
	cli     coilWriter
	address uint16
	log     *logrus.Entry

	index   map[keymap.Key]int
	current []bool
	last    []bool

	needFull bool // full write on first sync and after any failure
}

func New(cli coilWriter, address uint16, keys []keymap.Key, log *logrus.Entry) *Sink {
	index := make(map[keymap.Key]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return &Sink{
		cli:      cli,
		address:  address,
		log:      log.WithField("sink", "modbus"),
		index:    index,
		current:  make([]bool, len(keys)),
		last:     make([]bool, len(keys)),
		needFull: true,
	}
}

func (s *Sink) Report(k keymap.Key, pressed bool) error {
	i, ok := s.index[k]
	if !ok {
		return fmt.Errorf("sink modbus: key %s has no coil", k)
	}
	s.current[i] = pressed
	return nil
}

func (s *Sink) Sync() error {
	if !s.needFull && equal(s.current, s.last) {
		return nil
	}

	if err := s.cli.WriteCoils(s.address, s.current); err != nil {
		s.needFull = true
		return fmt.Errorf("sink modbus: addr=%d: %w", s.address, err)
	}

	copy(s.last, s.current)
	s.needFull = false
	s.log.WithField("coils", len(s.current)).Debug("snapshot written")
	return nil
}

func (s *Sink) Close() error {
	return s.cli.Close()
}

func equal(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
