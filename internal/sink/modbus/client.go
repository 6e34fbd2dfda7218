// internal/sink/modbus/client.go
package modbus

import (
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
)

// maxCoils is the FC15 per-request limit.
const maxCoils = 1968

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// transport is the connection half of a goburrow client handler.
type transport interface {
	Connect() error
	Close() error
}

// coilRequester is the request half the link needs.
type coilRequester interface {
	WriteMultipleCoils(address, quantity uint16, value []byte) ([]byte, error)
}

// Link writes coil blocks to one unit on one Modbus TCP endpoint.
//
// A failed request drops the connection; the next write dials again
// instead of reusing a socket that may be half closed.
type Link struct {
	mu       sync.Mutex
	endpoint string
	conn     transport
	coils    coilRequester
	online   bool
}

// Dial connects to cfg.Endpoint. The unit id is fixed for the link.
func Dial(cfg Config) (*Link, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	l := newLink(cfg.Endpoint, h, modbus.NewClient(h))
	if err := l.connect(); err != nil {
		return nil, err
	}
	return l, nil
}

func newLink(endpoint string, conn transport, coils coilRequester) *Link {
	return &Link{endpoint: endpoint, conn: conn, coils: coils}
}

// WriteCoils sends bits as one FC15 request starting at addr.
func (l *Link) WriteCoils(addr uint16, bits []bool) error {
	if len(bits) == 0 || len(bits) > maxCoils {
		return errors.Errorf("coil count %d out of range 1..%d", len(bits), maxCoils)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.online {
		if err := l.connect(); err != nil {
			return err
		}
	}

	if _, err := l.coils.WriteMultipleCoils(addr, uint16(len(bits)), packCoils(bits)); err != nil {
		_ = l.conn.Close()
		l.online = false
		return errors.Wrapf(err, "write %d coils at %d", len(bits), addr)
	}
	return nil
}

func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.online {
		return nil
	}
	l.online = false
	return l.conn.Close()
}

func (l *Link) connect() error {
	if err := l.conn.Connect(); err != nil {
		return errors.Wrapf(err, "connect %s", l.endpoint)
	}
	l.online = true
	return nil
}

// packCoils packs coils LSB first within each byte.
func packCoils(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
