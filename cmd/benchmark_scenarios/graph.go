package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/delaneyj/trackparty/reactivity"
)

type scenario struct {
	Name           string  `yaml:"name"`
	Width          int     `yaml:"width"`          // nodes per layer
	Layers         int     `yaml:"layers"`         // including the source layer
	Sources        int     `yaml:"sources"`        // inputs per node
	StaticFraction float64 `yaml:"staticFraction"` // fraction of nodes always reading every input
	ReadFraction   float64 `yaml:"readFraction"`   // fraction of leaves read per iteration
	Iterations     int     `yaml:"iterations"`
}

func (s scenario) validate() error {
	switch {
	case s.Name == "":
		return errors.New("scenario without a name")
	case s.Width < 1, s.Layers < 2, s.Sources < 1, s.Iterations < 1:
		return fmt.Errorf("scenario %s: width, sources and iterations must be positive, layers at least 2", s.Name)
	case s.Sources > s.Width:
		return fmt.Errorf("scenario %s: more sources per node than nodes per layer", s.Name)
	case s.StaticFraction < 0, s.StaticFraction > 1, s.ReadFraction < 0, s.ReadFraction > 1:
		return fmt.Errorf("scenario %s: fractions must be within [0, 1]", s.Name)
	}
	return nil
}

type graph struct {
	rs      *reactivity.ReactiveSystem
	sources []*reactivity.Ref[int]
	layers  [][]*reactivity.Ref[int]
	runs    *int64
}

type result struct {
	sum      int
	runs     int64
	duration time.Duration
}

func (s scenario) build() (*graph, error) {
	g := &graph{
		rs:      reactivity.CreateReactiveSystem(),
		sources: make([]*reactivity.Ref[int], s.Width),
		runs:    new(int64),
	}
	for i := range g.sources {
		g.sources[i] = reactivity.NewRef(g.rs, i)
	}

	random := rand.New(rand.NewSource(0))
	prev := g.sources
	for l := 1; l < s.Layers; l++ {
		row, err := g.makeRow(prev, s.Sources, s.StaticFraction, random)
		if err != nil {
			return nil, err
		}
		g.layers = append(g.layers, row)
		prev = row
	}
	return g, nil
}

func (g *graph) makeRow(prev []*reactivity.Ref[int], nSources int, staticFraction float64, random *rand.Rand) ([]*reactivity.Ref[int], error) {
	row := make([]*reactivity.Ref[int], len(prev))
	for myDex := range prev {
		inputs := make([]*reactivity.Ref[int], 0, nSources)
		for sourceDex := 0; sourceDex < nSources; sourceDex++ {
			inputs = append(inputs, prev[(myDex+sourceDex)%len(prev)])
		}

		var getter func() (int, error)
		if random.Float64() < staticFraction {
			getter = func() (int, error) {
				*g.runs++
				sum := 0
				for _, in := range inputs {
					sum += in.Value()
				}
				return sum, nil
			}
		} else {
			first, tail := inputs[0], inputs[1:]
			getter = func() (int, error) {
				*g.runs++
				sum := first.Value()
				if len(tail) == 0 {
					return sum, nil
				}
				shouldDrop := sum&0x1 > 0
				dropDex := sum % len(tail)
				for i, in := range tail {
					if shouldDrop && i == dropDex {
						continue
					}
					sum += in.Value()
				}
				return sum, nil
			}
		}

		node, err := reactivity.Computed(g.rs, getter)
		if err != nil {
			return nil, err
		}
		row[myDex] = node
	}
	return row, nil
}

// run writes one source per iteration and reads a fixed subset of leaves.
// It returns the sum of those leaves after the last write.
func (s scenario) run(g *graph) (*result, error) {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - s.ReadFraction)))
	readLeaves := removeElems(leaves, skipCount, random)

	*g.runs = 0
	start := time.Now()
	for i := 0; i < s.Iterations; i++ {
		sourceDex := i % len(g.sources)
		if err := g.sources[sourceDex].SetValue(i + sourceDex); err != nil {
			return nil, err
		}
		for _, leaf := range readLeaves {
			leaf.Peek()
		}
	}
	res := &result{
		duration: time.Since(start),
		runs:     *g.runs,
	}
	for _, leaf := range readLeaves {
		res.sum += leaf.Peek()
	}
	return res, nil
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := random.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}
