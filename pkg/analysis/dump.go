package analysis

import (
	"fmt"
	"sort"
	"strings"

	"ultrascript/pkg/scope"
)

// DebugDump renders a human-readable layout report for one scope.
// Diagnostic only; nothing in the compiled artifact depends on it.
func (a *Analysis) DebugDump(s *scope.Scope) string {
	a.mustBeComplete()
	var b strings.Builder

	where := "stack"
	if s.HeapAllocated {
		where = "heap"
	}
	fmt.Fprintf(&b, "scope %s (depth %d, %s)\n", s.Name, s.Depth, s.State())
	fmt.Fprintf(&b, "  frame: %d bytes on %s\n", s.FrameSize, where)

	vars := s.Variables()
	if len(vars) > 0 {
		fmt.Fprintf(&b, "  variables:\n")
		byOffset := make([]*scope.VariableInfo, len(vars))
		copy(byOffset, vars)
		sort.SliceStable(byOffset, func(i, j int) bool {
			return byOffset[i].Offset < byOffset[j].Offset
		})
		for _, vi := range byOffset {
			flags := ""
			if vi.Escapes {
				flags += " escapes"
			}
			if vi.IsParam {
				flags += " param"
			}
			if vi.Type.IsReference() {
				flags += " ref"
			}
			fmt.Fprintf(&b, "    +%-4d %-12s %-8s %d bytes, align %d, %d reads%s ; %s\n",
				vi.Offset, vi.Name, vi.Type, vi.Size, vi.Alignment, vi.AccessCount, flags,
				fmt.Sprintf("[%s+%d]", scope.CurrentScopeRegister, vi.Offset))
		}
	}

	if s.SelfDeps.Len() > 0 {
		fmt.Fprintf(&b, "  self dependencies:\n")
		for _, dep := range s.SelfDeps.Deps() {
			fmt.Fprintf(&b, "    %s@%d (%s, %d accesses)\n", dep.Name, dep.Depth, dep.Type, dep.AccessCount)
		}
	}
	if s.DescDeps.Len() > 0 {
		fmt.Fprintf(&b, "  descendant dependencies:\n")
		for _, dep := range s.DescDeps.Deps() {
			fmt.Fprintf(&b, "    %s@%d (%s, %d accesses)\n", dep.Name, dep.Depth, dep.Type, dep.AccessCount)
		}
	}

	if len(s.PriorityDepths) > 0 {
		fmt.Fprintf(&b, "  ancestor scope addresses (%s = current):\n", scope.CurrentScopeRegister)
		for _, load := range a.ProloguePlan(s) {
			fmt.Fprintf(&b, "    depth %d -> %s\n", load.Depth, load.Location)
		}
	}

	return b.String()
}

// DumpAll renders DebugDump for every scope in pre-order.
func (a *Analysis) DumpAll() string {
	a.mustBeComplete()
	var b strings.Builder
	for _, s := range a.Scopes() {
		b.WriteString(a.DebugDump(s))
	}
	return b.String()
}
