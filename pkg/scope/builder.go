package scope

import (
	"fmt"

	"ultrascript/pkg/ast"
	"ultrascript/pkg/types"
)

const debugBuilder = false

// Builder walks a syntax tree once and creates one scope per
// function-like node (function literal, goroutine body), each linked
// to the scope active when it was encountered. Traversal is pre-order
// depth-first; parameters are declared into the new scope before its
// body is visited. No escape analysis happens here.
type Builder struct {
	arena *Arena

	// Per-parent ordinals for synthesized names of anonymous
	// functions and goroutine bodies.
	anonCount map[Handle]int
	goCount   map[Handle]int
}

// BuildResult maps the tree onto the arena: the root scope plus the
// handle for every function-like node, so later passes can re-enter
// the right scope when they reach the same node.
type BuildResult struct {
	Root       Handle
	FuncScopes map[*ast.FunctionLit]Handle
}

// NewBuilder creates a builder that allocates scopes in arena.
func NewBuilder(arena *Arena) *Builder {
	return &Builder{
		arena:     arena,
		anonCount: make(map[Handle]int),
		goCount:   make(map[Handle]int),
	}
}

// RootScopeName is the identity of the program root scope.
const RootScopeName = "<program>"

// Build constructs the scope tree for prog.
func (b *Builder) Build(prog *ast.Program) *BuildResult {
	res := &BuildResult{
		Root:       b.arena.NewScope(RootScopeName, InvalidHandle),
		FuncScopes: make(map[*ast.FunctionLit]Handle),
	}
	for _, s := range prog.Stmts {
		b.buildStmt(s, res.Root, res)
	}
	return res
}

func (b *Builder) buildStmt(stmt ast.Stmt, cur Handle, res *BuildResult) {
	switch n := stmt.(type) {
	case *ast.VarDecl:
		// Declare before visiting the initializer so a function
		// expression bound to the name can reference itself.
		vi := b.arena.Get(cur).Declare(n.Name, types.ParseTag(n.TypeTag), n.Kind)
		vi.Line = n.Line
		if debugBuilder {
			fmt.Printf("[SCOPETREE] declare %s %s: %s in %s\n", n.Kind, n.Name, vi.Type, b.arena.Get(cur).Name)
		}
		if n.Value != nil {
			b.buildExpr(n.Value, cur, res, false)
		}
	case *ast.ReturnStmt:
		if n.Value != nil {
			b.buildExpr(n.Value, cur, res, false)
		}
	case *ast.ExprStmt:
		if n.Value != nil {
			b.buildExpr(n.Value, cur, res, false)
		}
	case *ast.BlockStmt:
		for _, s := range n.Stmts {
			b.buildStmt(s, cur, res)
		}
	case *ast.IfStmt:
		b.buildExpr(n.Cond, cur, res, false)
		b.buildStmt(n.Then, cur, res)
		if n.Else != nil {
			b.buildStmt(n.Else, cur, res)
		}
	case *ast.ForStmt:
		if n.Init != nil {
			b.buildStmt(n.Init, cur, res)
		}
		if n.Cond != nil {
			b.buildExpr(n.Cond, cur, res, false)
		}
		if n.Post != nil {
			b.buildStmt(n.Post, cur, res)
		}
		b.buildStmt(n.Body, cur, res)
	case *ast.GoStmt:
		b.buildExpr(n.Fn, cur, res, true)
	}
}

func (b *Builder) buildExpr(expr ast.Expr, cur Handle, res *BuildResult, spawned bool) {
	switch n := expr.(type) {
	case *ast.FunctionLit:
		b.buildFunction(n, cur, res, spawned)
	case *ast.AssignExpr:
		b.buildExpr(n.Value, cur, res, false)
	case *ast.BinaryExpr:
		b.buildExpr(n.Left, cur, res, false)
		b.buildExpr(n.Right, cur, res, false)
	case *ast.UnaryExpr:
		b.buildExpr(n.Operand, cur, res, false)
	case *ast.CallExpr:
		// `go f(...)` spawns the called function literal; the spawn
		// context carries through the callee position only.
		b.buildExpr(n.Callee, cur, res, spawned)
		for _, arg := range n.Args {
			b.buildExpr(arg, cur, res, false)
		}
	case *ast.MemberExpr:
		b.buildExpr(n.Object, cur, res, false)
	}
	// Identifiers and literals create no scopes.
}

func (b *Builder) buildFunction(fl *ast.FunctionLit, parent Handle, res *BuildResult, spawned bool) {
	name := fl.Name
	if name == "" {
		parentName := b.arena.Get(parent).Name
		if spawned {
			b.goCount[parent]++
			name = fmt.Sprintf("%s.go%d", parentName, b.goCount[parent])
		} else {
			b.anonCount[parent]++
			name = fmt.Sprintf("%s.func%d", parentName, b.anonCount[parent])
		}
	} else if h, ok := b.arena.Lookup(name); ok && b.arena.Get(h).Parent() != parent {
		// A distinct function under a different parent merely shares the
		// name; qualify it so the arena's replace-in-place only fires for
		// genuine re-registration of the same function. Parent names are
		// unique in the arena, so the qualified name collides only with a
		// same-named sibling in the same scope, which is a redeclaration.
		name = b.arena.Get(parent).Name + "." + name
	}
	h := b.arena.NewScope(name, parent)
	s := b.arena.Get(h)
	s.Line = fl.Line
	res.FuncScopes[fl] = h
	if debugBuilder {
		fmt.Printf("[SCOPETREE] scope %s depth=%d parent=%s\n", name, s.Depth, b.arena.Get(parent).Name)
	}
	for _, p := range fl.Params {
		vi := s.Declare(p.Name, types.ParseTag(p.TypeTag), ast.DeclVar)
		vi.IsParam = true
		vi.Line = fl.Line
	}
	for _, stmt := range fl.Body.Stmts {
		b.buildStmt(stmt, h, res)
	}
}
