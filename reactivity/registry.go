package reactivity

import (
	"fmt"
	"runtime"
	"slices"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Source is the registry identity of a reactive object or cell. Two sources
// never share subscriptions, whatever the values behind them.
type Source struct {
	rs *ReactiveSystem
	id uint64
}

// NewSource issues a source identity for owner. Once owner is unreachable
// its registry entry is dropped. Go has no ephemerons, so an owner that is
// captured by one of its own subscribers stays reachable through the
// registry and its entry lives as long as the system does.
func NewSource[T any](rs *ReactiveSystem, owner *T) *Source {
	s := &Source{rs: rs, id: rs.nextID()}
	runtime.AddCleanup(owner, rs.forget, s.id)
	return s
}

func (s *Source) ID() uint64 {
	return s.id
}

func (s *Source) System() *ReactiveSystem {
	return s.rs
}

// Track subscribes the active computation to key. Without an active
// computation it does nothing.
func (s *Source) Track(key Key) {
	s.rs.track(s.id, key)
}

// Trigger re-runs every computation subscribed to key. The first failure
// stops the wave and is returned.
func (s *Source) Trigger(key Key) error {
	return s.rs.trigger(s.id, key)
}

func (rs *ReactiveSystem) track(id uint64, key Key) {
	active := rs.activeSub
	if active == nil {
		return
	}

	rs.mu.Lock()
	depsMap, ok := rs.targets[id]
	if !ok {
		depsMap = map[Key]mapset.Set[*Computation]{}
		rs.targets[id] = depsMap
	}
	dep, ok := depsMap[key]
	if !ok {
		dep = mapset.NewThreadUnsafeSet[*Computation]()
		depsMap[key] = dep
	}
	dep.Add(active)
	rs.mu.Unlock()

	if rs.observer != nil {
		rs.observer.Tracked(id, key, active)
	}
}

func (rs *ReactiveSystem) trigger(id uint64, key Key) error {
	subs := rs.subscribers(id, key)
	if rs.observer != nil {
		rs.observer.Triggered(id, key, len(subs))
	}

	for _, c := range subs {
		if err := rs.Run(c); err != nil {
			return fmt.Errorf("trigger %s on source %d: %w", key, id, err)
		}
	}
	return nil
}

// subscribers snapshots the set so computations that subscribe while the
// wave runs do not disturb it. Order follows computation creation.
func (rs *ReactiveSystem) subscribers(id uint64, key Key) []*Computation {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	dep, ok := rs.targets[id][key]
	if !ok {
		return nil
	}
	subs := dep.ToSlice()
	slices.SortFunc(subs, func(a, b *Computation) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return subs
}

func (rs *ReactiveSystem) forget(id uint64) {
	rs.mu.Lock()
	_, ok := rs.targets[id]
	delete(rs.targets, id)
	rs.mu.Unlock()

	if ok && rs.observer != nil {
		rs.observer.Forgot(id)
	}
}

// SubscriberCount reports how many computations are subscribed to key on src.
func (rs *ReactiveSystem) SubscriberCount(src *Source, key Key) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	dep, ok := rs.targets[src.id][key]
	if !ok {
		return 0
	}
	return dep.Cardinality()
}

// Sources reports how many sources have ever been tracked and are still
// held by the registry.
func (rs *ReactiveSystem) Sources() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.targets)
}

type Subscription struct {
	Source       uint64
	Key          Key
	Computations []uint64
}

// Snapshot lists every (source, key) entry, ordered by source then key.
func (rs *ReactiveSystem) Snapshot() []Subscription {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	out := make([]Subscription, 0, len(rs.targets))
	for id, depsMap := range rs.targets {
		for key, dep := range depsMap {
			sub := Subscription{Source: id, Key: key}
			dep.Each(func(c *Computation) bool {
				sub.Computations = append(sub.Computations, c.id)
				return false
			})
			slices.Sort(sub.Computations)
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Key.less(out[j].Key)
	})
	return out
}
