package layout

import (
	"fmt"
	"sort"

	"ultrascript/pkg/errors"
	"ultrascript/pkg/scope"
)

const debugLayout = false

// Pack orders a scope's declared variables and assigns byte offsets.
//
// Ordering: frequently-accessed ("hot") variables first, then within a
// frequency tier alignment descending, size descending, declaration
// order. Each variable gets the smallest offset at or past the running
// cursor that satisfies its alignment; the frame size is the final
// cursor rounded up to the frame alignment.
//
// Packing is idempotent: re-running on an unchanged variable set
// yields identical offsets.
func Pack(s *scope.Scope, cfg Config) error {
	if cfg.FrameAlign <= 0 {
		return &errors.InternalError{
			Function: s.Name,
			Depth:    s.Depth,
			Msg:      fmt.Sprintf("invalid frame alignment %d", cfg.FrameAlign),
		}
	}

	vars := s.Variables()
	for _, vi := range vars {
		if vi.Alignment <= 0 {
			return &errors.InternalError{
				Position: errors.Position{Line: vi.Line},
				Function: s.Name,
				Variable: vi.Name,
				Depth:    s.Depth,
				Msg:      fmt.Sprintf("zero or negative alignment %d", vi.Alignment),
			}
		}
		if vi.Size <= 0 {
			return &errors.InternalError{
				Position: errors.Position{Line: vi.Line},
				Function: s.Name,
				Variable: vi.Name,
				Depth:    s.Depth,
				Msg:      fmt.Sprintf("zero or negative size %d", vi.Size),
			}
		}
	}

	ordered := packOrder(vars, cfg)

	cursor := 0
	for _, vi := range ordered {
		offset := alignUp(cursor, vi.Alignment)
		if offset < 0 {
			return &errors.InternalError{
				Position: errors.Position{Line: vi.Line},
				Function: s.Name,
				Variable: vi.Name,
				Depth:    s.Depth,
				Msg:      fmt.Sprintf("computed negative offset %d", offset),
			}
		}
		vi.Offset = offset
		cursor = offset + vi.Size
		if debugLayout {
			fmt.Printf("[LAYOUT] %s: %s %s at +%d (%d bytes, align %d)\n",
				s.Name, vi.Name, vi.Type, vi.Offset, vi.Size, vi.Alignment)
		}
	}

	s.FrameSize = alignUp(cursor, cfg.FrameAlign)
	s.MarkPacked()
	return nil
}

// packOrder returns the packing order without mutating the scope's
// declaration order.
func packOrder(vars []*scope.VariableInfo, cfg Config) []*scope.VariableInfo {
	maxCount := 0
	for _, vi := range vars {
		if vi.AccessCount > maxCount {
			maxCount = vi.AccessCount
		}
	}
	hot := func(vi *scope.VariableInfo) bool {
		return vi.AccessCount > 1 && float64(vi.AccessCount) >= cfg.HotFraction*float64(maxCount)
	}

	type entry struct {
		vi   *scope.VariableInfo
		decl int // Declaration position, the final tie-break
	}
	entries := make([]entry, len(vars))
	for i, vi := range vars {
		entries[i] = entry{vi, i}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		ha, hb := hot(a.vi), hot(b.vi)
		if ha != hb {
			return ha
		}
		if a.vi.Alignment != b.vi.Alignment {
			return a.vi.Alignment > b.vi.Alignment
		}
		if a.vi.Size != b.vi.Size {
			return a.vi.Size > b.vi.Size
		}
		return a.decl < b.decl
	})

	out := make([]*scope.VariableInfo, len(entries))
	for i, e := range entries {
		out[i] = e.vi
	}
	return out
}

func alignUp(n, align int) int {
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + align - rem
}
