package reactivity

// Effect registers fn as a computation and runs it once, immediately. Every
// reactive read fn makes subscribes it; a write to any of those slots runs
// it again synchronously. The returned error is the one from this first run.
func Effect(rs *ReactiveSystem, fn ErrFn) (*Computation, error) {
	c := &Computation{
		id: rs.nextID(),
		fn: fn,
	}
	return c, rs.Run(c)
}
