package scope

import (
	"testing"

	"ultrascript/pkg/types"
)

func TestDepSetMergesByNameAndDepth(t *testing.T) {
	ds := NewDepSet()
	ds.Add("x", 0, types.Int64, 1)
	ds.Add("x", 0, types.Int64, 2)
	ds.Add("x", 1, types.Int64, 1) // Same name, different depth: distinct fact

	if ds.Len() != 2 {
		t.Fatalf("expected 2 distinct facts, got %d", ds.Len())
	}
	deps := ds.Deps()
	if deps[0].AccessCount != 3 {
		t.Errorf("expected summed access count 3, got %d", deps[0].AccessCount)
	}
	if deps[1].Depth != 1 || deps[1].AccessCount != 1 {
		t.Errorf("unexpected second fact: %+v", deps[1])
	}
}

func TestDepSetFirstTypeWins(t *testing.T) {
	ds := NewDepSet()
	first := ds.Add("x", 0, types.Int64, 1)
	second := ds.Add("x", 0, types.Float64, 1)
	if first != second {
		t.Fatalf("expected the same dependency to be returned on merge")
	}
	if second.Type != types.Int64 {
		t.Errorf("expected first recorded type to win, got %s", second.Type)
	}
	if second.AccessCount != 2 {
		t.Errorf("expected access count 2, got %d", second.AccessCount)
	}
}

func TestDepSetDepthsAscending(t *testing.T) {
	ds := NewDepSet()
	ds.Add("c", 3, types.Any, 1)
	ds.Add("a", 0, types.Any, 1)
	ds.Add("b", 2, types.Any, 1)
	ds.Add("d", 0, types.Any, 1) // Depth 0 again

	depths := ds.Depths()
	if len(depths) != 3 {
		t.Fatalf("expected 3 distinct depths, got %v", depths)
	}
	for i, want := range []int{0, 2, 3} {
		if depths[i] != want {
			t.Errorf("depths[%d]: expected %d, got %d", i, want, depths[i])
		}
	}
}

func TestDepSetCountByDepth(t *testing.T) {
	ds := NewDepSet()
	ds.Add("a", 0, types.Any, 2)
	ds.Add("b", 0, types.Any, 3)
	ds.Add("c", 1, types.Any, 1)

	counts := ds.CountByDepth()
	if counts[0] != 5 {
		t.Errorf("expected 5 accesses at depth 0, got %d", counts[0])
	}
	if counts[1] != 1 {
		t.Errorf("expected 1 access at depth 1, got %d", counts[1])
	}
}

func TestDepSetMerge(t *testing.T) {
	a := NewDepSet()
	a.Add("x", 0, types.Int64, 1)
	b := NewDepSet()
	b.Add("x", 0, types.Int64, 2)
	b.Add("y", 1, types.String, 1)

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("expected 2 facts after merge, got %d", a.Len())
	}
	if !a.Has("x", 0) || !a.Has("y", 1) {
		t.Errorf("merge lost a fact")
	}
	if a.Deps()[0].AccessCount != 3 {
		t.Errorf("expected summed count 3, got %d", a.Deps()[0].AccessCount)
	}
}
