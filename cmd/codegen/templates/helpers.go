package templates

import (
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/delaneyj/trackparty/reactivity"
)

// WrapperFile is the input of the Wrapper template.
type WrapperFile struct {
	Source  string
	Package string
	Runtime string
	Type    string
	Fields  []Field
}

type Field struct {
	Name   string
	Type   string
	Key    string
	KeyVar string

	// Comparable fields guard their setter with ==, the others with
	// reactivity.Same.
	Comparable bool
}

// NewField names the slot with reactivity.SlotName, so generated and
// reflective wrappers of the same struct use the same keys.
func NewField(typeName, name, goType string, tag reflect.StructTag, comparable bool) Field {
	return Field{
		Name:       name,
		Type:       goType,
		Key:        reactivity.SlotName(reflect.StructField{Name: name, Tag: tag}),
		KeyVar:     lowerFirst(typeName) + name + "Key",
		Comparable: comparable,
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
