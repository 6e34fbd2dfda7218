// internal/line/line.go
package line

import "fmt"

// Line is one GPIO-class line with a fixed direction.
// Output lines accept Set, the input line answers Get.
type Line interface {
	Set(high bool) error
	Get() (bool, error)
	Close() error
}

// Direction is fixed when a line is opened.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Opener acquires lines from one backend.
// initial is the level driven on an output line right after acquisition
// and is ignored for inputs.
//
// An Opener may also implement io.Closer when the backend holds
// process-wide state; Set closes it after the lines.
type Opener interface {
	Open(id string, dir Direction, initial bool) (Line, error)
}

// Role is the fixed job of a line in the chain protocol.
type Role int

const (
	RoleClock Role = iota
	RoleLatch
	RoleData
)

func (r Role) String() string {
	switch r {
	case RoleClock:
		return "clock"
	case RoleLatch:
		return "latch"
	case RoleData:
		return "data"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Direction returns the direction a role is opened with.
func (r Role) Direction() Direction {
	if r == RoleData {
		return Input
	}
	return Output
}
