package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/delaneyj/trackparty/reactivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartSource = `package cart

type Item struct {
	Price    float64 ` + "`json:\"price\"`" + `
	Quantity int     ` + "`reactive:\"qty\" json:\"quantity\"`" + `
	Name, SKU string
	Notes    string ` + "`json:\"-\"`" + `
	internal int
}

type Other struct{}
`

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.go")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadStruct(t *testing.T) {
	w, err := loadStruct(writeSource(t, cartSource), "Item")
	require.NoError(t, err)

	assert.Equal(t, "cart", w.Package)
	assert.Equal(t, "cart.go", w.Source)
	require.Len(t, w.Fields, 4)

	assert.Equal(t, "Price", w.Fields[0].Name)
	assert.Equal(t, "price", w.Fields[0].Key)
	assert.Equal(t, "float64", w.Fields[0].Type)
	assert.Equal(t, "itemPriceKey", w.Fields[0].KeyVar)

	assert.Equal(t, "qty", w.Fields[1].Key)
	assert.Equal(t, "int", w.Fields[1].Type)

	assert.Equal(t, "Name", w.Fields[2].Key)
	assert.Equal(t, "SKU", w.Fields[3].Name)
}

func TestLoadStructMissing(t *testing.T) {
	path := writeSource(t, cartSource)

	_, err := loadStruct(path, "Nope")
	assert.ErrorContains(t, err, "struct Nope not found")

	_, err = loadStruct(filepath.Join(t.TempDir(), "absent.go"), "Item")
	assert.Error(t, err)
}

func TestLoadStructClash(t *testing.T) {
	path := writeSource(t, "package cart\n\ntype Bad struct {\n\tRaw int\n}\n")
	_, err := loadStruct(path, "Bad")
	assert.ErrorContains(t, err, "clashes")

	path = writeSource(t, "package cart\n\ntype Bad struct {\n\tA int\n\tSetA int\n}\n")
	_, err = loadStruct(path, "Bad")
	assert.ErrorContains(t, err, "clashes")
}

func TestRender(t *testing.T) {
	w, err := loadStruct(writeSource(t, cartSource), "Item")
	require.NoError(t, err)
	w.Runtime = defaultRuntime

	out, err := render(w)
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "// Code generated by codegen from cart.go. DO NOT EDIT.")
	assert.Contains(t, src, "package cart")
	assert.Contains(t, src, `import reactivity "github.com/delaneyj/trackparty/reactivity"`)
	assert.Contains(t, src, `itemQuantityKey = reactivity.Prop("qty")`)
	assert.Contains(t, src, "func NewReactiveItem(rs *reactivity.ReactiveSystem, raw Item) *ReactiveItem {")
	assert.Contains(t, src, "func (r *ReactiveItem) Price() float64 {")
	assert.Contains(t, src, "func (r *ReactiveItem) SetSKU(v string) error {")
	assert.NotContains(t, src, "Notes")
	assert.NotContains(t, src, "internal")
}

const richSource = `package shapes

import "time"

type Base struct{ ID int }

type Point struct{ X, Y int }

type Tags []string

type Rich struct {
	Base
	*Point ` + "`json:\"at\"`" + `
	List   []string ` + "`json:\"list\"`" + `
	Labels Tags
	Meta   map[string]int
	Extra  any
	Grid   [2]int
	Pair   [2]Point
	Corner Point
	Other  Point
	Fn     func()
	Wait   time.Duration
}
`

type Base struct{ ID int }

type Point struct{ X, Y int }

type Tags []string

// rich mirrors Rich in richSource.
type rich struct {
	Base
	*Point `json:"at"`
	List   []string `json:"list"`
	Labels Tags
	Meta   map[string]int
	Extra  any
	Grid   [2]int
	Pair   [2]Point
	Corner Point
	Other  Point
	Fn     func()
	Wait   time.Duration
}

func TestLoadStructComparable(t *testing.T) {
	w, err := loadStruct(writeSource(t, richSource), "Rich")
	require.NoError(t, err)

	flags := map[string]bool{}
	for _, f := range w.Fields {
		flags[f.Name] = f.Comparable
	}
	assert.Equal(t, map[string]bool{
		"Base":   true,
		"Point":  true,
		"List":   false,
		"Labels": false,
		"Meta":   false,
		"Extra":  false,
		"Grid":   true,
		"Pair":   true,
		"Corner": true,
		"Other":  true,
		"Fn":     false,
		"Wait":   false,
	}, flags)
}

// should name slots, embedded fields included, the way Wrap does
func TestLoadStructKeysMatchWrap(t *testing.T) {
	w, err := loadStruct(writeSource(t, richSource), "Rich")
	require.NoError(t, err)

	keys := make([]string, 0, len(w.Fields))
	for _, f := range w.Fields {
		keys = append(keys, f.Key)
	}

	r, err := reactivity.Wrap(reactivity.CreateReactiveSystem(), rich{})
	require.NoError(t, err)
	assert.Equal(t, r.Keys(), keys)
}

func TestRenderUncomparableFields(t *testing.T) {
	w, err := loadStruct(writeSource(t, richSource), "Rich")
	require.NoError(t, err)
	w.Runtime = defaultRuntime

	out, err := render(w)
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "func (r *ReactiveRich) Base() Base {")
	assert.Contains(t, src, "func (r *ReactiveRich) SetPoint(v *Point) error {")
	assert.Contains(t, src, "if r.raw.Point == v {")
	assert.Contains(t, src, "if r.raw.Other == v {")
	assert.Contains(t, src, "if reactivity.Same(r.raw.List, v) {")
	assert.Contains(t, src, "if reactivity.Same(r.raw.Labels, v) {")
	assert.Contains(t, src, "if reactivity.Same(r.raw.Fn, v) {")
	assert.Contains(t, src, "if reactivity.Same(r.raw.Wait, v) {")
	assert.NotContains(t, src, "r.raw.List == v")
}

func TestRenderRuntimeAlias(t *testing.T) {
	w, err := loadStruct(writeSource(t, cartSource), "Item")
	require.NoError(t, err)
	w.Runtime = "example.com/forked/engine"

	out, err := render(w)
	require.NoError(t, err)
	assert.Contains(t, string(out), `import reactivity "example.com/forked/engine"`)
}
