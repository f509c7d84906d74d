package escape

import (
	"testing"

	"ultrascript/pkg/ast"
	"ultrascript/pkg/scope"
)

func analyzeAndPropagate(t *testing.T, prog *ast.Program) *scope.Arena {
	t.Helper()
	arena, _, _ := analyze(t, prog)
	Propagate(arena)
	return arena
}

func TestPassThroughScopeReceivesDescendantNeeds(t *testing.T) {
	// Three-level nesting: middle never touches an ancestor variable,
	// but the innermost reads the outermost's. The middle scope must
	// still carry the dependency, purely to pass the address down.
	prog := &ast.Program{Stmts: []ast.Stmt{exprOf(fnLit("outer", nil,
		letDecl("x", "int64", nil),
		exprOf(fnLit("middle", nil,
			exprOf(fnLit("inner", nil, exprOf(ident("x")))),
		)),
	))}}
	arena := analyzeAndPropagate(t, prog)

	outer := mustScope(t, arena, "outer")
	middle := mustScope(t, arena, "middle")
	inner := mustScope(t, arena, "inner")

	if middle.SelfDeps.Len() != 0 {
		t.Fatalf("middle should have no self dependencies, got %d", middle.SelfDeps.Len())
	}
	if !middle.DescDeps.Has("x", outer.Depth) {
		t.Errorf("expected middle's descendant deps to contain (x, %d)", outer.Depth)
	}
	if len(middle.PriorityDepths) != 1 || middle.PriorityDepths[0] != outer.Depth {
		t.Errorf("expected middle priority depths [%d], got %v", outer.Depth, middle.PriorityDepths)
	}
	if len(inner.PriorityDepths) != 1 || inner.PriorityDepths[0] != outer.Depth {
		t.Errorf("expected inner priority depths [%d], got %v", outer.Depth, inner.PriorityDepths)
	}
}

func TestDependencyOnParentFrameDoesNotPropagate(t *testing.T) {
	// inner reads middle's variable: middle satisfies that with its
	// own frame, so nothing propagates past middle.
	prog := &ast.Program{Stmts: []ast.Stmt{exprOf(fnLit("outer", nil,
		exprOf(fnLit("middle", nil,
			letDecl("y", "int64", nil),
			exprOf(fnLit("inner", nil, exprOf(ident("y")))),
		)),
	))}}
	arena := analyzeAndPropagate(t, prog)

	middle := mustScope(t, arena, "middle")
	outer := mustScope(t, arena, "outer")
	if middle.DescDeps.Len() != 0 {
		t.Errorf("expected no descendant deps on middle, got %d", middle.DescDeps.Len())
	}
	if outer.DescDeps.Len() != 0 {
		t.Errorf("expected nothing to reach outer, got %d", outer.DescDeps.Len())
	}
	if len(middle.PriorityDepths) != 0 {
		t.Errorf("middle needs no ancestor addresses, got %v", middle.PriorityDepths)
	}
}

func TestPriorityOrderHotSelfFirst(t *testing.T) {
	// f reads g2's variable once and g1's variable three times; the
	// hotter depth comes first. leaf's need for c@g2 folds into a
	// depth f already reaches and adds no new entry.
	prog := &ast.Program{Stmts: []ast.Stmt{exprOf(fnLit("g1", nil,
		letDecl("a", "int64", nil),
		exprOf(fnLit("g2", nil,
			letDecl("b", "int64", nil),
			letDecl("c", "int64", nil),
			exprOf(fnLit("f", nil,
				exprOf(ident("b")),
				exprOf(ident("a")),
				exprOf(ident("a")),
				exprOf(ident("a")),
				exprOf(fnLit("leaf", nil, exprOf(ident("c")))),
			)),
		)),
	))}}
	arena := analyzeAndPropagate(t, prog)

	g1 := mustScope(t, arena, "g1")
	g2 := mustScope(t, arena, "g2")
	f := mustScope(t, arena, "f")

	// Self depths by access count: a@1 three reads beats b@2 one read.
	// c@2 is descendant-only and cannot displace either.
	want := []int{g1.Depth, g2.Depth}
	if len(f.PriorityDepths) != 2 {
		t.Fatalf("expected 2 priority depths, got %v", f.PriorityDepths)
	}
	for i := range want {
		if f.PriorityDepths[i] != want[i] {
			t.Errorf("priority[%d]: expected depth %d, got %d", i, want[i], f.PriorityDepths[i])
		}
	}
}

func TestPriorityOrderTieBreaksDepthAscending(t *testing.T) {
	// Equal access counts: shallower depth wins the tie.
	prog := &ast.Program{Stmts: []ast.Stmt{exprOf(fnLit("g1", nil,
		letDecl("a", "int64", nil),
		exprOf(fnLit("g2", nil,
			letDecl("b", "int64", nil),
			exprOf(fnLit("f", nil,
				exprOf(ident("b")),
				exprOf(ident("a")),
			)),
		)),
	))}}
	arena := analyzeAndPropagate(t, prog)

	g1 := mustScope(t, arena, "g1")
	g2 := mustScope(t, arena, "g2")
	f := mustScope(t, arena, "f")
	if len(f.PriorityDepths) != 2 || f.PriorityDepths[0] != g1.Depth || f.PriorityDepths[1] != g2.Depth {
		t.Errorf("expected [%d %d], got %v", g1.Depth, g2.Depth, f.PriorityDepths)
	}
}

func TestEscapePropagationCompleteness(t *testing.T) {
	// A variable read four levels below its declaration must appear in
	// every intermediate scope's needs.
	prog := &ast.Program{Stmts: []ast.Stmt{exprOf(fnLit("l1", nil,
		letDecl("v", "int64", nil),
		exprOf(fnLit("l2", nil,
			exprOf(fnLit("l3", nil,
				exprOf(fnLit("l4", nil, exprOf(ident("v")))),
			)),
		)),
	))}}
	arena := analyzeAndPropagate(t, prog)

	l1 := mustScope(t, arena, "l1")
	for _, name := range []string{"l2", "l3", "l4"} {
		s := mustScope(t, arena, name)
		found := s.SelfDeps.Has("v", l1.Depth) || s.DescDeps.Has("v", l1.Depth)
		if !found {
			t.Errorf("expected %s to carry the (v, %d) dependency", name, l1.Depth)
		}
	}
}
