package layout

import (
	"fmt"

	"ultrascript/pkg/scope"
)

// SelectAllocation decides stack vs. heap placement for one scope's
// frame. A frame is heap-allocated when any of its variables is
// captured by a nested scope (the frame may outlive the enclosing
// call) or when it exceeds the size threshold. The decision is made
// independently per scope, never globally per function.
func SelectAllocation(s *scope.Scope, cfg Config) {
	s.HeapAllocated = s.AnyEscapes() || s.FrameSize > cfg.HeapThreshold
	if debugLayout {
		where := "stack"
		if s.HeapAllocated {
			where = "heap"
		}
		fmt.Printf("[LAYOUT] %s: %d-byte frame on %s\n", s.Name, s.FrameSize, where)
	}
}
