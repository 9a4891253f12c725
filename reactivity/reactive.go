package reactivity

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Reactive is a struct or string-keyed map whose slots are tracked on read
// and triggered on changing writes. The slot set is fixed when the value is
// wrapped: one slot per exported struct field, or per map key present at
// wrap time.
//
// A Reactive holds its own copy of the wrapped value. Each Wrap call is a
// separate source, so two wrappers over the same value track independently.
type Reactive[T any] struct {
	src   *Source
	raw   reflect.Value
	isMap bool
	slots map[string]slot
	keys  []string
}

type slot struct {
	key    Key
	typ    reflect.Type
	field  int
	mapKey reflect.Value
}

// Wrap makes target reactive. Struct slots, embedded structs included, are
// named by SlotName.
func Wrap[T any](rs *ReactiveSystem, target T) (*Reactive[T], error) {
	r := &Reactive[T]{
		slots: map[string]slot{},
	}

	v := reflect.ValueOf(&target).Elem()
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := SlotName(f)
			if name == "-" {
				continue
			}
			r.slots[name] = slot{key: Prop(name), typ: f.Type, field: i}
			r.keys = append(r.keys, name)
		}
		r.raw = v

	case reflect.Map:
		t := v.Type()
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, t)
		}
		clone := reflect.MakeMapWithSize(t, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), iter.Value())
			name := iter.Key().String()
			r.slots[name] = slot{key: Prop(name), typ: t.Elem(), mapKey: iter.Key()}
			r.keys = append(r.keys, name)
		}
		sort.Strings(r.keys)
		r.raw = clone
		r.isMap = true

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, v.Type())
	}

	r.src = NewSource(rs, r)
	return r, nil
}

// SlotName is the key Wrap gives a struct field: the `reactive` tag, then
// the `json` tag name, then the field name. "-" means the field is skipped.
func SlotName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("reactive"); ok && tag != "" {
		return tag
	}
	if tag, ok := f.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Get tracks key and returns its value. Unknown keys are tracked too and
// read as nil.
func (r *Reactive[T]) Get(key string) any {
	s, ok := r.slots[key]
	if !ok {
		r.src.Track(Prop(key))
		return nil
	}
	r.src.Track(s.key)
	return r.load(s).Interface()
}

// Set writes key and triggers its subscribers if the value changed. Writes
// to unknown keys are ignored. A value that cannot be stored in the slot
// returns ErrNotWritable and triggers nothing.
func (r *Reactive[T]) Set(key string, value any) error {
	s, ok := r.slots[key]
	if !ok {
		return nil
	}

	next, ok := coerce(value, s.typ)
	if !ok {
		return fmt.Errorf("%w: %T into %q (%s)", ErrNotWritable, value, key, s.typ)
	}

	old := r.load(s).Interface()
	if r.isMap {
		r.raw.SetMapIndex(s.mapKey, next)
	} else {
		r.raw.Field(s.field).Set(next)
	}

	if Same(old, next.Interface()) {
		return nil
	}
	return r.src.Trigger(s.key)
}

// Has reports whether key is one of the wrapped slots. It does not track.
func (r *Reactive[T]) Has(key string) bool {
	_, ok := r.slots[key]
	return ok
}

func (r *Reactive[T]) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Raw returns an untracked copy of the wrapped value.
func (r *Reactive[T]) Raw() T {
	if !r.isMap {
		return r.raw.Interface().(T)
	}
	clone := reflect.MakeMapWithSize(r.raw.Type(), r.raw.Len())
	iter := r.raw.MapRange()
	for iter.Next() {
		clone.SetMapIndex(iter.Key(), iter.Value())
	}
	return clone.Interface().(T)
}

func (r *Reactive[T]) Source() *Source {
	return r.src
}

func (r *Reactive[T]) load(s slot) reflect.Value {
	if r.isMap {
		return r.raw.MapIndex(s.mapKey)
	}
	return r.raw.Field(s.field)
}

// Get is the typed form of Reactive.Get. A missing key or a value of
// another type yields the zero V.
func Get[V any, T any](r *Reactive[T], key string) V {
	v, _ := r.Get(key).(V)
	return v
}

// coerce adapts value to typ. Numbers convert between kinds when no
// precision is lost.
func coerce(value any, typ reflect.Type) (reflect.Value, bool) {
	if value == nil {
		switch typ.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(typ), true
		}
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(typ) {
		if v.Type() != typ {
			converted := reflect.New(typ).Elem()
			converted.Set(v)
			return converted, true
		}
		return v, true
	}

	if isNumber(v.Kind()) && isNumber(typ.Kind()) {
		converted := v.Convert(typ)
		if converted.Convert(v.Type()).Interface() == value {
			return converted, true
		}
	}
	return reflect.Value{}, false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Same is Go's == on the dynamic values. Values that cannot be compared
// are never the same.
func Same(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
