package reactivity

import (
	"sync"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// ReactiveSystem owns one subscription registry and one active-computation
// slot. Systems are independent of each other.
//
// A system belongs to a single goroutine: the active slot is not guarded.
// The registry is, because entries of collected sources are dropped from
// the runtime's cleanup goroutine.
type ReactiveSystem struct {
	mu      sync.Mutex
	targets map[uint64]map[Key]mapset.Set[*Computation]

	ids            atomic.Uint64
	activeSub      *Computation
	pauseStack     []*Computation
	nestedTracking bool
	observer       Observer
}

type Option func(*ReactiveSystem)

// WithNestedTracking restores the enclosing computation when a nested one
// finishes. Without it the slot is cleared, and reads the outer body makes
// after the nested call are not tracked.
func WithNestedTracking() Option {
	return func(rs *ReactiveSystem) {
		rs.nestedTracking = true
	}
}

func WithObserver(o Observer) Option {
	return func(rs *ReactiveSystem) {
		rs.observer = o
	}
}

func CreateReactiveSystem(opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{
		targets: map[uint64]map[Key]mapset.Set[*Computation]{},
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Active returns the computation currently executing, or nil.
func (rs *ReactiveSystem) Active() *Computation {
	return rs.activeSub
}

func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.activeSub)
	rs.activeSub = nil
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	rs.activeSub = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

// Untracked runs fn with tracking paused.
func (rs *ReactiveSystem) Untracked(fn func()) {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	fn()
}

// Run executes c synchronously with the active slot set to c. The slot is
// released before Run returns, also when the body fails or panics.
func (rs *ReactiveSystem) Run(c *Computation) error {
	start := time.Now()
	err := rs.runTracked(c)
	if rs.observer != nil {
		rs.observer.Ran(c, time.Since(start), err)
	}
	return err
}

func (rs *ReactiveSystem) runTracked(c *Computation) error {
	prevSub := rs.activeSub
	rs.activeSub = c
	defer func() {
		if rs.nestedTracking {
			rs.activeSub = prevSub
		} else {
			rs.activeSub = nil
		}
	}()
	return c.fn()
}

func (rs *ReactiveSystem) nextID() uint64 {
	return rs.ids.Add(1)
}
