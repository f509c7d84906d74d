package scope

import (
	"sort"

	"ultrascript/pkg/types"
)

// Dependency is one logical fact: this scope (or a descendant) reads
// the named variable declared at the given ancestor depth. Two
// dependencies with equal (name, depth) are the same fact and are
// merged by summing access counts, never duplicated.
type Dependency struct {
	Name        string
	Depth       int // Depth of the declaring scope
	Type        types.Type
	AccessCount int
}

type depKey struct {
	name  string
	depth int
}

// DepSet is a counted set of dependencies keyed by (name, depth).
// Insertion order is preserved so iteration is deterministic.
type DepSet struct {
	order []depKey
	deps  map[depKey]*Dependency
}

// NewDepSet creates an empty dependency set.
func NewDepSet() *DepSet {
	return &DepSet{deps: make(map[depKey]*Dependency)}
}

// Add merges a dependency into the set, summing access counts.
// On a type conflict the first recorded type wins; the returned
// dependency lets the caller detect and report the mismatch.
func (ds *DepSet) Add(name string, depth int, typ types.Type, count int) *Dependency {
	key := depKey{name, depth}
	if dep, ok := ds.deps[key]; ok {
		dep.AccessCount += count
		return dep
	}
	dep := &Dependency{Name: name, Depth: depth, Type: typ, AccessCount: count}
	ds.deps[key] = dep
	ds.order = append(ds.order, key)
	return dep
}

// Merge folds every dependency of other into this set.
func (ds *DepSet) Merge(other *DepSet) {
	for _, key := range other.order {
		dep := other.deps[key]
		ds.Add(dep.Name, dep.Depth, dep.Type, dep.AccessCount)
	}
}

// Has reports whether the (name, depth) fact is present.
func (ds *DepSet) Has(name string, depth int) bool {
	_, ok := ds.deps[depKey{name, depth}]
	return ok
}

// HasDepth reports whether any dependency targets the given depth.
func (ds *DepSet) HasDepth(depth int) bool {
	for _, key := range ds.order {
		if key.depth == depth {
			return true
		}
	}
	return false
}

// Len returns the number of distinct (name, depth) facts.
func (ds *DepSet) Len() int { return len(ds.order) }

// Deps returns the dependencies in insertion order.
func (ds *DepSet) Deps() []*Dependency {
	out := make([]*Dependency, len(ds.order))
	for i, key := range ds.order {
		out[i] = ds.deps[key]
	}
	return out
}

// Depths returns the distinct declaring depths, ascending.
func (ds *DepSet) Depths() []int {
	seen := make(map[int]bool)
	var out []int
	for _, key := range ds.order {
		if !seen[key.depth] {
			seen[key.depth] = true
			out = append(out, key.depth)
		}
	}
	sort.Ints(out)
	return out
}

// CountByDepth returns the summed access counts per declaring depth.
func (ds *DepSet) CountByDepth() map[int]int {
	out := make(map[int]int)
	for _, key := range ds.order {
		out[key.depth] += ds.deps[key].AccessCount
	}
	return out
}
