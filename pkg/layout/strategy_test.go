package layout

import (
	"fmt"
	"testing"

	"ultrascript/pkg/ast"
	"ultrascript/pkg/scope"
	"ultrascript/pkg/types"
)

func TestSelectAllocationStackByDefault(t *testing.T) {
	s := closedScope(t, [2]string{"x", "int64"})
	if err := Pack(s, DefaultConfig()); err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	SelectAllocation(s, DefaultConfig())
	if s.HeapAllocated {
		t.Errorf("small frame with no captures must stay on the stack")
	}
}

func TestSelectAllocationEscapeForcesHeap(t *testing.T) {
	s := closedScope(t, [2]string{"x", "int64"})
	vi, _ := s.Variable("x")
	vi.Escapes = true

	if err := Pack(s, DefaultConfig()); err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	SelectAllocation(s, DefaultConfig())
	if !s.HeapAllocated {
		t.Errorf("captured variable must force the frame to the heap")
	}
}

func TestSelectAllocationSizeForcesHeap(t *testing.T) {
	// ~250 float64 locals, none captured: 2000 bytes exceeds the 1024
	// threshold, so the frame goes to the heap on size alone.
	arena := scope.NewArena()
	s := arena.Get(arena.NewScope("big", scope.InvalidHandle))
	for i := 0; i < 250; i++ {
		s.Declare(fmt.Sprintf("v%d", i), types.Float64, ast.DeclLet)
	}
	s.BeginAnalysis()
	s.Close()

	if err := Pack(s, DefaultConfig()); err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	if s.FrameSize != 2000 {
		t.Fatalf("expected 2000-byte frame, got %d", s.FrameSize)
	}
	if s.AnyEscapes() {
		t.Fatalf("scenario requires no captures")
	}
	SelectAllocation(s, DefaultConfig())
	if !s.HeapAllocated {
		t.Errorf("oversized frame must go to the heap even with no captures")
	}
}

func TestSelectAllocationThresholdIsExclusive(t *testing.T) {
	s := closedScope(t, [2]string{"x", "int64"})
	if err := Pack(s, DefaultConfig()); err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.HeapThreshold = s.FrameSize // exactly at the limit stays on stack
	SelectAllocation(s, cfg)
	if s.HeapAllocated {
		t.Errorf("frame exactly at the threshold must stay on the stack")
	}
}
