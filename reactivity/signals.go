package reactivity

// Ref is a single-value reactive cell tracked under ValueKey.
type Ref[T comparable] struct {
	src   *Source
	value T
	isSet bool
}

func NewRef[T comparable](rs *ReactiveSystem, initial T) *Ref[T] {
	r := &Ref[T]{
		value: initial,
		isSet: true,
	}
	r.src = NewSource(rs, r)
	return r
}

// EmptyRef creates a cell holding no value. The first SetValue always
// triggers, even when it stores the zero value.
func EmptyRef[T comparable](rs *ReactiveSystem) *Ref[T] {
	r := &Ref[T]{}
	r.src = NewSource(rs, r)
	return r
}

// Value tracks the cell and returns its payload, the zero value when empty.
func (r *Ref[T]) Value() T {
	r.src.Track(ValueKey)
	return r.value
}

// Lookup tracks the cell and reports whether it holds a value.
func (r *Ref[T]) Lookup() (T, bool) {
	r.src.Track(ValueKey)
	return r.value, r.isSet
}

// Peek returns the payload without subscribing.
func (r *Ref[T]) Peek() T {
	return r.value
}

// SetValue stores v and triggers subscribers unless v == the current value.
// Payloads that cannot be compared, such as a slice held by a Ref[any],
// always count as changed. The value is committed before any subscriber
// runs; a subscriber failure is returned but does not roll it back.
func (r *Ref[T]) SetValue(v T) error {
	if r.isSet && Same(r.value, v) {
		return nil
	}
	r.value = v
	r.isSet = true
	return r.src.Trigger(ValueKey)
}

func (r *Ref[T]) Update(fn func(T) T) error {
	return r.SetValue(fn(r.value))
}

func (r *Ref[T]) Source() *Source {
	return r.src
}
