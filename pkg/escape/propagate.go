package escape

import (
	"fmt"
	"sort"

	"ultrascript/pkg/scope"
)

const debugPropagate = false

// Propagate folds every scope's dependencies upward through the arena
// and computes each scope's priority-ordered ancestor depths.
//
// The fold runs in strictly decreasing depth order, so each scope is
// processed only after every scope nested inside it has already merged
// its needs upward. This gives the ordering invariant directly instead
// of relying on call-stack unwind order.
func Propagate(arena *scope.Arena) {
	for _, h := range arena.DeepestFirst() {
		s := arena.Get(h)
		if s.State() != scope.StateClosed {
			panic(fmt.Sprintf("Analyzer Error: propagating scope %q in state %s", s.Name, s.State()))
		}
		if p := s.Parent(); p != scope.InvalidHandle {
			parent := arena.Get(p)
			mergeUpward(parent, s.SelfDeps)
			mergeUpward(parent, s.DescDeps)
		}
		s.PriorityDepths = priorityOrder(s)
		if debugPropagate {
			fmt.Printf("[PROPAGATE] %s self=%d desc=%d priority=%v\n",
				s.Name, s.SelfDeps.Len(), s.DescDeps.Len(), s.PriorityDepths)
		}
	}
}

// mergeUpward merges deps into parent's descendant-dependencies.
// A dependency on the parent's own frame (depth == parent.Depth) is
// satisfied by the parent directly and does not propagate; anything
// shallower is still an ancestor need from the parent's point of view.
func mergeUpward(parent *scope.Scope, deps *scope.DepSet) {
	for _, dep := range deps.Deps() {
		if dep.Depth < parent.Depth {
			parent.DescDeps.Add(dep.Name, dep.Depth, dep.Type, dep.AccessCount)
		}
	}
}

// priorityOrder computes the register-allocation consumption order for
// a scope: every ancestor depth its own code reads, hottest first
// (summed access count descending, ties broken by depth ascending),
// followed by every depth only its descendants need, depth ascending.
func priorityOrder(s *scope.Scope) []int {
	selfCounts := s.SelfDeps.CountByDepth()
	selfDepths := s.SelfDeps.Depths()
	sort.SliceStable(selfDepths, func(i, j int) bool {
		ci, cj := selfCounts[selfDepths[i]], selfCounts[selfDepths[j]]
		if ci != cj {
			return ci > cj
		}
		return selfDepths[i] < selfDepths[j]
	})

	order := make([]int, 0, len(selfDepths))
	seen := make(map[int]bool, len(selfDepths))
	for _, d := range selfDepths {
		order = append(order, d)
		seen[d] = true
	}
	for _, d := range s.DescDeps.Depths() {
		if !seen[d] {
			order = append(order, d)
		}
	}
	return order
}
