// internal/sink/types.go
package sink

import "github.com/tamzrod/pi2jamma-input/internal/keymap"

// Sink is the delivery-only contract for panel snapshots.
// Implementations filter unchanged state themselves.
type Sink interface {
	Report(key keymap.Key, pressed bool) error
	Sync() error
}
