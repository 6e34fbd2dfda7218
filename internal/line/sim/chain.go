// internal/line/sim/chain.go
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/tamzrod/pi2jamma-input/internal/line"
)

// Access is one recorded operation on a simulated line.
type Access struct {
	Line  line.Role
	At    time.Duration
	Write bool
	Level bool
}

// Violation is an access that came sooner than the settle time
// after the previous access on the same line.
type Violation struct {
	Access Access
	Since  time.Duration
}

func (v Violation) String() string {
	return fmt.Sprintf("%s access at %v only %v after previous", v.Access.Line, v.Access.At, v.Since)
}

// Config describes a simulated chain.
//
// Record keeps every line access and settle violation for inspection.
// Leave it off for long dry runs: the log is never trimmed.
type Config struct {
	Width  int
	Settle time.Duration
	Names  line.Names
	Clock  *Clock
	Record bool
}

// Chain simulates cascaded 74x165 registers wired to three lines.
//
// Raw input levels are indexed in read order: position 0 is the stage
// nearest the data line and is presented right after the latch pulse.
// Inputs idle high (released); a pressed switch pulls its input low.
// The serial input of the last stage is tied high.
type Chain struct {
	mu sync.Mutex

	cfg   Config
	clock *Clock

	inputs []bool
	stages []bool

	clk   bool
	latch bool

	open   map[line.Role]int
	closed map[line.Role]int
	fail   map[line.Role]error

	accesses   []Access
	lastAccess map[line.Role]time.Duration
	violations []Violation
}

// NewChain builds a chain with every switch released.
func NewChain(cfg Config) *Chain {
	if cfg.Clock == nil {
		cfg.Clock = &Clock{}
	}

	c := &Chain{
		cfg:        cfg,
		clock:      cfg.Clock,
		inputs:     make([]bool, cfg.Width),
		stages:     make([]bool, cfg.Width),
		open:       make(map[line.Role]int),
		closed:     make(map[line.Role]int),
		fail:       make(map[line.Role]error),
		lastAccess: make(map[line.Role]time.Duration),
	}
	for i := range c.inputs {
		c.inputs[i] = true
		c.stages[i] = true
	}
	return c
}

// Clock returns the logical clock the chain timestamps against.
func (c *Chain) Clock() *Clock { return c.clock }

// SetRaw sets raw input levels in read order. Missing positions stay as they were.
func (c *Chain) SetRaw(levels []bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.inputs, levels)
}

// Press sets the switch at read position pos to pressed or released.
func (c *Chain) Press(pos int, pressed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs[pos] = !pressed
}

// ReleaseAll returns every input to its idle level.
func (c *Chain) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.inputs {
		c.inputs[i] = true
	}
}

// FailOpen makes the next Open of role fail with err.
func (c *Chain) FailOpen(role line.Role, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail[role] = err
}

// Recording reports whether accesses and violations are kept.
func (c *Chain) Recording() bool { return c.cfg.Record }

// Accesses returns a copy of every recorded access.
func (c *Chain) Accesses() []Access {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Access(nil), c.accesses...)
}

// Violations returns settle-time violations seen so far.
func (c *Chain) Violations() []Violation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Violation(nil), c.violations...)
}

// ResetLog forgets recorded accesses and violations.
func (c *Chain) ResetLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accesses = nil
	c.violations = nil
}

// Opened reports how many times role was acquired.
func (c *Chain) Opened(role line.Role) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open[role]
}

// Closed reports how many times role was released.
func (c *Chain) Closed(role line.Role) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed[role]
}

// Opener hands out the chain's lines by configured name.
func (c *Chain) Opener() line.Opener {
	return opener{c: c}
}

type opener struct {
	c *Chain
}

func (o opener) Open(id string, dir line.Direction, initial bool) (line.Line, error) {
	c := o.c

	var role line.Role
	switch id {
	case c.cfg.Names.Clock:
		role = line.RoleClock
	case c.cfg.Names.Latch:
		role = line.RoleLatch
	case c.cfg.Names.Data:
		role = line.RoleData
	default:
		return nil, errors.Errorf("sim: unknown line %q", id)
	}

	if dir != role.Direction() {
		return nil, errors.Errorf("sim: %s line cannot be %s", role, dir)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err, ok := c.fail[role]; ok {
		delete(c.fail, role)
		return nil, err
	}

	c.open[role]++

	switch role {
	case line.RoleClock:
		c.clk = initial
	case line.RoleLatch:
		c.setLatch(initial)
	}

	return &simLine{c: c, role: role}, nil
}

type simLine struct {
	c    *Chain
	role line.Role
}

func (l *simLine) Set(high bool) error {
	c := l.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if l.role == line.RoleData {
		return errors.New("sim: data line is an input")
	}

	c.record(Access{Line: l.role, Write: true, Level: high})

	switch l.role {
	case line.RoleClock:
		rising := !c.clk && high
		c.clk = high
		if rising && c.latch {
			c.shift()
		}
	case line.RoleLatch:
		c.setLatch(high)
	}
	return nil
}

func (l *simLine) Get() (bool, error) {
	c := l.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if l.role != line.RoleData {
		return false, errors.Errorf("sim: %s line is an output", l.role)
	}

	v := true
	if len(c.stages) > 0 {
		v = c.stages[0]
	}
	c.record(Access{Line: l.role, Level: v})
	return v, nil
}

func (l *simLine) Close() error {
	c := l.c
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed[l.role]++
	return nil
}

// setLatch models the active-low parallel load: while low the stages
// follow the inputs.
func (c *Chain) setLatch(high bool) {
	c.latch = high
	if !high {
		copy(c.stages, c.inputs)
	}
}

func (c *Chain) shift() {
	if len(c.stages) == 0 {
		return
	}
	copy(c.stages, c.stages[1:])
	c.stages[len(c.stages)-1] = true
}

func (c *Chain) record(a Access) {
	if !c.cfg.Record {
		return
	}
	a.At = c.clock.Now()

	if prev, ok := c.lastAccess[a.Line]; ok {
		if since := a.At - prev; since < c.cfg.Settle {
			c.violations = append(c.violations, Violation{Access: a, Since: since})
		}
	}
	c.lastAccess[a.Line] = a.At
	c.accesses = append(c.accesses, a)
}
