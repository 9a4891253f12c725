package reactivity

import "fmt"

// Computed runs getter inside an effect that writes its result into a fresh
// cell. The getter re-runs on every upstream trigger; the cell's own
// subscribers only run when the result changes.
//
// The returned Ref is writable. Writing it is the caller's business, the
// next upstream trigger overwrites it.
func Computed[T comparable](rs *ReactiveSystem, getter func() (T, error)) (*Ref[T], error) {
	result := EmptyRef[T](rs)

	_, err := Effect(rs, func() error {
		v, err := getter()
		if err != nil {
			return err
		}
		return result.SetValue(v)
	})
	if err != nil {
		return nil, fmt.Errorf("error while setting up the computed: %w", err)
	}

	return result, nil
}
