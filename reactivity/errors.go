package reactivity

import "errors"

// ErrUnsupportedTarget is returned by Wrap when the target is neither a
// struct nor a map with string keys.
var ErrUnsupportedTarget = errors.New("reactivity: unsupported wrap target")

// ErrNotWritable is returned by Reactive.Set when the value cannot be stored
// in the slot. Nothing is triggered.
var ErrNotWritable = errors.New("reactivity: value not writable")
