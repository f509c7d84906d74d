package escape

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"ultrascript/pkg/ast"
	"ultrascript/pkg/errors"
	"ultrascript/pkg/scope"
	"ultrascript/pkg/types"
)

const debugEscape = false

// Consumer is notified of escape events during analysis. Multiple
// consumers may be registered (e.g. a debug logger and a statistics
// collector); they are notified in registration order.
type Consumer interface {
	// AnalysisStart is called when analysis of a scope's body begins.
	AnalysisStart(s *scope.Scope)
	// VariableEscaped is called when s's code references a variable
	// declared in an ancestor scope.
	VariableEscaped(name string, capturing *scope.Scope, typ types.Type)
	// AnalysisComplete is called when a scope's body is fully analyzed.
	AnalysisComplete(s *scope.Scope)
}

// Analyzer walks every function body and resolves each variable
// reference against the chain of currently-open scopes, innermost
// first. References that resolve in an ancestor scope are escapes:
// the variable is marked, its access count bumped, the capturing
// scope's self-dependencies updated, and consumers notified.
// Unresolved references are never fatal; they are logged and treated
// as current-scope accesses of type any.
type Analyzer struct {
	arena     *scope.Arena
	consumers []Consumer
	log       *logrus.Logger
	diags     []errors.AnalyzerError
}

// NewAnalyzer creates an analyzer over the given arena. log may be nil.
func NewAnalyzer(arena *scope.Arena, log *logrus.Logger) *Analyzer {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	return &Analyzer{arena: arena, log: log}
}

// RegisterConsumer adds a consumer. Consumers registered earlier are
// notified earlier.
func (a *Analyzer) RegisterConsumer(c Consumer) {
	a.consumers = append(a.consumers, c)
}

// Diagnostics returns the non-fatal problems recorded so far.
func (a *Analyzer) Diagnostics() []errors.AnalyzerError {
	return a.diags
}

// Analyze runs escape analysis over the whole program. Scopes are
// opened and closed in lexical (LIFO) order, so every nested scope is
// closed before its parent.
func (a *Analyzer) Analyze(prog *ast.Program, res *scope.BuildResult) {
	chain := []scope.Handle{res.Root}
	root := a.arena.Get(res.Root)
	root.BeginAnalysis()
	a.notifyStart(root)
	for _, s := range prog.Stmts {
		a.walkStmt(s, chain, res)
	}
	a.notifyComplete(root)
	root.Close()
}

func (a *Analyzer) walkStmt(stmt ast.Stmt, chain []scope.Handle, res *scope.BuildResult) {
	switch n := stmt.(type) {
	case *ast.VarDecl:
		if n.Value != nil {
			a.walkExpr(n.Value, chain, res)
		}
	case *ast.ReturnStmt:
		if n.Value != nil {
			a.walkExpr(n.Value, chain, res)
		}
	case *ast.ExprStmt:
		if n.Value != nil {
			a.walkExpr(n.Value, chain, res)
		}
	case *ast.BlockStmt:
		for _, s := range n.Stmts {
			a.walkStmt(s, chain, res)
		}
	case *ast.IfStmt:
		a.walkExpr(n.Cond, chain, res)
		a.walkStmt(n.Then, chain, res)
		if n.Else != nil {
			a.walkStmt(n.Else, chain, res)
		}
	case *ast.ForStmt:
		if n.Init != nil {
			a.walkStmt(n.Init, chain, res)
		}
		if n.Cond != nil {
			a.walkExpr(n.Cond, chain, res)
		}
		if n.Post != nil {
			a.walkStmt(n.Post, chain, res)
		}
		a.walkStmt(n.Body, chain, res)
	case *ast.GoStmt:
		a.walkExpr(n.Fn, chain, res)
	}
}

func (a *Analyzer) walkExpr(expr ast.Expr, chain []scope.Handle, res *scope.BuildResult) {
	switch n := expr.(type) {
	case *ast.Identifier:
		a.reference(n.Name, n.Line, chain)
	case *ast.AssignExpr:
		// Writing to an ancestor variable is an escape exactly like
		// reading it.
		a.reference(n.Target, n.Line, chain)
		a.walkExpr(n.Value, chain, res)
	case *ast.BinaryExpr:
		a.walkExpr(n.Left, chain, res)
		a.walkExpr(n.Right, chain, res)
	case *ast.UnaryExpr:
		a.walkExpr(n.Operand, chain, res)
	case *ast.CallExpr:
		a.walkExpr(n.Callee, chain, res)
		for _, arg := range n.Args {
			a.walkExpr(arg, chain, res)
		}
	case *ast.MemberExpr:
		a.walkExpr(n.Object, chain, res)
	case *ast.FunctionLit:
		a.walkFunction(n, chain, res)
	}
	// Literals reference nothing.
}

func (a *Analyzer) walkFunction(fl *ast.FunctionLit, chain []scope.Handle, res *scope.BuildResult) {
	h, ok := res.FuncScopes[fl]
	if !ok {
		// The builder saw every function-like node; a miss means the
		// tree was mutated between phases.
		panic(fmt.Sprintf("Analyzer Error: no scope registered for function %q", fl.Name))
	}
	s := a.arena.Get(h)
	s.BeginAnalysis()
	a.notifyStart(s)
	inner := append(chain, h)
	for _, stmt := range fl.Body.Stmts {
		a.walkStmt(stmt, inner, res)
	}
	a.notifyComplete(s)
	s.Close()
}

// reference resolves a single variable reference against the open
// scope chain, innermost first.
func (a *Analyzer) reference(name string, refLine int, chain []scope.Handle) {
	cur := a.arena.Get(chain[len(chain)-1])
	for i := len(chain) - 1; i >= 0; i-- {
		s := a.arena.Get(chain[i])
		vi, ok := s.Variable(name)
		if !ok {
			continue
		}
		if i == len(chain)-1 {
			// Resolved in the current scope: a plain local use.
			return
		}
		a.escaped(name, vi, s, cur)
		return
	}

	// Unresolved: default to a current-scope access of type any and
	// keep going. Code generation falls back to the slow path for it.
	a.diags = append(a.diags, &errors.ScopeError{
		Position: errors.Position{Line: refLine},
		Function: cur.Name,
		Variable: name,
		Depth:    cur.Depth,
		Msg:      fmt.Sprintf("unresolved variable %q, treating as local access of type any", name),
	})
	a.log.WithFields(logrus.Fields{
		"function": cur.Name,
		"variable": name,
		"depth":    cur.Depth,
	}).Warn("unresolved variable reference")
}

func (a *Analyzer) escaped(name string, vi *scope.VariableInfo, declaring, capturing *scope.Scope) {
	if capturing.State() != scope.StateAnalyzing {
		panic(fmt.Sprintf("Analyzer Error: escape event for scope %q in state %s", capturing.Name, capturing.State()))
	}
	vi.Escapes = true
	vi.AccessCount++

	dep := capturing.SelfDeps.Add(name, declaring.Depth, vi.Type, 1)
	if dep.Type != vi.Type {
		// Same (variable, depth) fact reported with a different type:
		// the first recorded type wins. Recorded ambiguity, not an abort.
		a.log.WithFields(logrus.Fields{
			"function": capturing.Name,
			"variable": name,
			"depth":    declaring.Depth,
			"recorded": dep.Type.String(),
			"reported": vi.Type.String(),
		}).Warn("dependency type conflict, keeping first recorded type")
	}

	if debugEscape {
		fmt.Printf("[ESCAPE] %s captures %s (declared at depth %d, type %s)\n",
			capturing.Name, name, declaring.Depth, vi.Type)
	}
	a.log.WithFields(logrus.Fields{
		"function": capturing.Name,
		"variable": name,
		"declared": declaring.Name,
		"depth":    declaring.Depth,
		"type":     vi.Type.String(),
	}).Debug("variable escapes")

	for _, c := range a.consumers {
		c.VariableEscaped(name, capturing, vi.Type)
	}
}

func (a *Analyzer) notifyStart(s *scope.Scope) {
	for _, c := range a.consumers {
		c.AnalysisStart(s)
	}
}

func (a *Analyzer) notifyComplete(s *scope.Scope) {
	for _, c := range a.consumers {
		c.AnalysisComplete(s)
	}
}
