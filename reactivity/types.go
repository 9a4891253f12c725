package reactivity

// ErrFn is the body of a computation. It communicates only through the
// reactive state it reads and writes; a non-nil error aborts the trigger
// wave that ran it.
type ErrFn func() error

// Computation is a unit of work whose reads are tracked while it runs.
// Registry sets hold the pointer, so re-running the same computation never
// produces a duplicate subscription.
type Computation struct {
	id uint64
	fn ErrFn
}

func (c *Computation) ID() uint64 {
	return c.id
}
