// internal/keymap/keymap.go
package keymap

import "fmt"

// ConfigurationError rejects a key map that cannot describe the chain.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "keymap: " + e.Reason
}

// State is one button in a translated snapshot.
type State struct {
	Key     Key
	Pressed bool
}

// Map assigns a key to every bit of a sampled chain.
// Entry i belongs to bit i of the sample, bit 0 being the last bit
// clocked out of the chain. Immutable after New.
type Map struct {
	keys []Key
}

// New validates keys against the chain width.
func New(keys []Key, width int) (*Map, error) {
	if width <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("chain width must be > 0, got %d", width)}
	}
	if len(keys) != width {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("%d keys for a chain of %d bits", len(keys), width),
		}
	}

	seen := make(map[Key]int, len(keys))
	for i, k := range keys {
		if prev, dup := seen[k]; dup {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("key %s mapped at both %d and %d", k, prev, i),
			}
		}
		seen[k] = i
	}

	return &Map{keys: append([]Key(nil), keys...)}, nil
}

// Len is the chain width the map was built for.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns a copy of the table in bit order.
func (m *Map) Keys() []Key { return append([]Key(nil), m.keys...) }

// Translate expands a sample into one state per key, in map order.
func (m *Map) Translate(bits uint64) []State {
	out := make([]State, len(m.keys))
	for i, k := range m.keys {
		out[i] = State{Key: k, Pressed: bits&1 != 0}
		bits >>= 1
	}
	return out
}
