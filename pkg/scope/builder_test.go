package scope

import (
	"testing"

	"ultrascript/pkg/ast"
	"ultrascript/pkg/types"
)

func letDecl(name, tag string, value ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{Kind: ast.DeclLet, Name: name, TypeTag: tag, Value: value}
}

func fnLit(name string, params []ast.Param, stmts ...ast.Stmt) *ast.FunctionLit {
	return &ast.FunctionLit{Name: name, Params: params, Body: &ast.BlockStmt{Stmts: stmts}}
}

func exprOf(e ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{Value: e} }

func TestBuildScopeTree(t *testing.T) {
	// function outer(n: int64) { let x: int64; function inner() { } }
	inner := fnLit("inner", nil)
	outer := fnLit("outer", []ast.Param{{Name: "n", TypeTag: "int64"}},
		letDecl("x", "int64", nil),
		exprOf(inner),
	)
	prog := &ast.Program{Stmts: []ast.Stmt{exprOf(outer)}}

	arena := NewArena()
	res := NewBuilder(arena).Build(prog)

	if arena.Get(res.Root).Depth != 0 {
		t.Fatalf("expected root at depth 0")
	}
	oh, ok := arena.Lookup("outer")
	if !ok {
		t.Fatalf("outer scope not registered")
	}
	ih, ok := arena.Lookup("inner")
	if !ok {
		t.Fatalf("inner scope not registered")
	}
	os, is := arena.Get(oh), arena.Get(ih)
	if os.Depth != 1 || is.Depth != 2 {
		t.Errorf("expected depths 1 and 2, got %d and %d", os.Depth, is.Depth)
	}
	if is.Parent() != oh {
		t.Errorf("expected inner's parent to be outer")
	}

	// Parameters are declared into the new scope before the body.
	names := os.VariableNames()
	if len(names) != 2 || names[0] != "n" || names[1] != "x" {
		t.Errorf("expected [n x] in declaration order, got %v", names)
	}
	n, _ := os.Variable("n")
	if !n.IsParam || n.Type != types.Int64 {
		t.Errorf("unexpected parameter info: %+v", n)
	}

	if res.FuncScopes[inner] != ih || res.FuncScopes[outer] != oh {
		t.Errorf("function node to scope mapping is wrong")
	}
}

func TestBuildAnonymousAndGoroutineNames(t *testing.T) {
	// let cb = function() {};
	// go function() {};
	anon := fnLit("", nil)
	spawned := fnLit("", nil)
	prog := &ast.Program{Stmts: []ast.Stmt{
		letDecl("cb", "function", anon),
		&ast.GoStmt{Fn: spawned},
	}}

	arena := NewArena()
	res := NewBuilder(arena).Build(prog)

	as := arena.Get(res.FuncScopes[anon])
	gs := arena.Get(res.FuncScopes[spawned])
	if as.Name != "<program>.func1" {
		t.Errorf("unexpected anonymous scope name %q", as.Name)
	}
	if gs.Name != "<program>.go1" {
		t.Errorf("unexpected goroutine scope name %q", gs.Name)
	}
	if as.Depth != 1 || gs.Depth != 1 {
		t.Errorf("expected both at depth 1, got %d and %d", as.Depth, gs.Depth)
	}
}

func TestBuildGoCallSpawn(t *testing.T) {
	// go (function worker() {})();
	worker := fnLit("worker", nil)
	prog := &ast.Program{Stmts: []ast.Stmt{
		&ast.GoStmt{Fn: &ast.CallExpr{Callee: worker}},
	}}

	arena := NewArena()
	res := NewBuilder(arena).Build(prog)
	if _, ok := res.FuncScopes[worker]; !ok {
		t.Fatalf("expected a scope for the spawned callee")
	}
	ws := arena.Get(res.FuncScopes[worker])
	if ws.Name != "worker" || ws.Depth != 1 {
		t.Errorf("unexpected spawned scope: %q depth %d", ws.Name, ws.Depth)
	}
}

func TestBuildSameNamedSiblingsGetDistinctScopes(t *testing.T) {
	// Two distinct functions that merely share a name must not collide
	// in the arena; only re-registering the same function replaces.
	helperA := fnLit("helper", nil)
	helperB := fnLit("helper", nil)
	prog := &ast.Program{Stmts: []ast.Stmt{
		exprOf(fnLit("makeA", nil, exprOf(helperA))),
		exprOf(fnLit("makeB", nil, exprOf(helperB))),
	}}

	arena := NewArena()
	res := NewBuilder(arena).Build(prog)

	ha, hb := res.FuncScopes[helperA], res.FuncScopes[helperB]
	if ha == hb {
		t.Fatalf("distinct same-named functions share handle %d", ha)
	}
	sa, sb := arena.Get(ha), arena.Get(hb)
	if sa.Name == sb.Name {
		t.Errorf("expected distinct arena names, both are %q", sa.Name)
	}
	aParent, _ := arena.Lookup("makeA")
	bParent, _ := arena.Lookup("makeB")
	if sa.Parent() != aParent || sb.Parent() != bParent {
		t.Errorf("parent links are wrong: %q under %d, %q under %d", sa.Name, sa.Parent(), sb.Name, sb.Parent())
	}
}

func TestBuildReregistrationReplacesInPlace(t *testing.T) {
	// The same function built twice into one arena reuses its handle
	// with a fresh scope, even when a same-named cousin exists.
	helperA := fnLit("helper", nil)
	helperB := fnLit("helper", nil)
	prog := &ast.Program{Stmts: []ast.Stmt{
		exprOf(fnLit("makeA", nil, exprOf(helperA))),
		exprOf(fnLit("makeB", nil, exprOf(helperB))),
	}}

	arena := NewArena()
	first := NewBuilder(arena).Build(prog)
	second := NewBuilder(arena).Build(prog)

	if first.FuncScopes[helperA] != second.FuncScopes[helperA] {
		t.Errorf("re-registration of the first helper changed its handle")
	}
	if first.FuncScopes[helperB] != second.FuncScopes[helperB] {
		t.Errorf("re-registration of the second helper changed its handle")
	}
	if arena.Len() != 5 {
		t.Errorf("expected 5 scopes after rebuild, got %d", arena.Len())
	}
}

func TestBuildDeclarationsInsideControlFlow(t *testing.T) {
	// function f() { if (true) { let a: int32; } for (;;) { let b; } }
	f := fnLit("f", nil,
		&ast.IfStmt{
			Cond: &ast.BooleanLit{Value: true},
			Then: &ast.BlockStmt{Stmts: []ast.Stmt{letDecl("a", "int32", nil)}},
		},
		&ast.ForStmt{Body: &ast.BlockStmt{Stmts: []ast.Stmt{letDecl("b", "", nil)}}},
	)
	prog := &ast.Program{Stmts: []ast.Stmt{exprOf(f)}}

	arena := NewArena()
	NewBuilder(arena).Build(prog)

	fh, _ := arena.Lookup("f")
	fs := arena.Get(fh)
	if _, ok := fs.Variable("a"); !ok {
		t.Errorf("expected a declared in f")
	}
	b, ok := fs.Variable("b")
	if !ok {
		t.Fatalf("expected b declared in f")
	}
	if b.Type != types.Any {
		t.Errorf("expected untyped declaration to default to any, got %s", b.Type)
	}
}
