package reactivity

import (
	"strconv"
	"sync/atomic"
)

// Key names a tracked slot on a source. Property keys compare by name,
// symbol keys by identity.
type Key struct {
	name string
	sym  uint64
}

var symbolCounter uint64

// ValueKey is the single slot a Ref is tracked under.
var ValueKey = Prop("value")

func Prop(name string) Key {
	return Key{name: name}
}

// Index returns the key for a numeric property. There are no array
// semantics, Index(2) and Prop("2") are the same key.
func Index(i int) Key {
	return Key{name: strconv.Itoa(i)}
}

// Symbol returns a key that is equal only to itself, even when another
// symbol or property shares its description.
func Symbol(description string) Key {
	return Key{
		name: description,
		sym:  atomic.AddUint64(&symbolCounter, 1),
	}
}

func (k Key) Name() string {
	return k.name
}

func (k Key) IsSymbol() bool {
	return k.sym != 0
}

func (k Key) String() string {
	if k.sym != 0 {
		return "Symbol(" + k.name + ")"
	}
	return k.name
}

func (k Key) less(other Key) bool {
	if k.name != other.name {
		return k.name < other.name
	}
	return k.sym < other.sym
}
