package analysis

import (
	"github.com/sirupsen/logrus"

	"ultrascript/pkg/ast"
	"ultrascript/pkg/errors"
	"ultrascript/pkg/escape"
	"ultrascript/pkg/layout"
	"ultrascript/pkg/scope"
)

// Analysis is the facade over the whole scope pipeline for one
// compilation unit. It owns every scope for the lifetime of the unit
// and exposes the finished layout/allocation/register tables to the
// code generator. All phases run once, in order, over the whole
// program before any machine code is emitted; the finished tables are
// immutable until Reset.
type Analysis struct {
	cfg   layout.Config
	log   *logrus.Logger
	arena *scope.Arena

	consumers []escape.Consumer
	diags     []errors.AnalyzerError
	root      scope.Handle
	complete  bool
}

// New creates an analysis session with the reference configuration.
func New() *Analysis {
	return NewWithConfig(layout.DefaultConfig(), nil)
}

// NewWithConfig creates an analysis session with explicit tunables.
// log may be nil, in which case diagnostics only surface through
// Diagnostics().
func NewWithConfig(cfg layout.Config, log *logrus.Logger) *Analysis {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Analysis{
		cfg:   cfg,
		log:   log,
		arena: scope.NewArena(),
		root:  scope.InvalidHandle,
	}
}

// RegisterConsumer adds an escape-event consumer for subsequent runs.
// Consumers are notified in registration order.
func (a *Analysis) RegisterConsumer(c escape.Consumer) {
	a.consumers = append(a.consumers, c)
}

// Run executes the full pipeline over prog: scope tree construction,
// escape analysis, dependency propagation, layout packing, allocation
// strategy selection, and register assignment.
//
// Analysis is best-effort per function (unresolved names are recorded
// as diagnostics and skipped) but strict per invariant: an internal
// invariant violation aborts and discards the whole unit.
func (a *Analysis) Run(prog *ast.Program) error {
	a.Reset()

	builder := scope.NewBuilder(a.arena)
	res := builder.Build(prog)

	analyzer := escape.NewAnalyzer(a.arena, a.log)
	for _, c := range a.consumers {
		analyzer.RegisterConsumer(c)
	}
	analyzer.RegisterConsumer(&logConsumer{log: a.log})
	analyzer.Analyze(prog, res)
	a.diags = append(a.diags, analyzer.Diagnostics()...)

	escape.Propagate(a.arena)

	for _, h := range a.arena.Handles() {
		s := a.arena.Get(h)
		if err := layout.Pack(s, a.cfg); err != nil {
			// Invariant violation: no partial tables survive.
			a.Reset()
			return err
		}
		layout.SelectAllocation(s, a.cfg)
		layout.AllocateRegisters(s, a.cfg)
	}

	a.root = res.Root
	a.complete = true
	return nil
}

// Complete reports whether the session holds finished tables.
func (a *Analysis) Complete() bool { return a.complete }

// Diagnostics returns the non-fatal problems recorded during Run.
func (a *Analysis) Diagnostics() []errors.AnalyzerError { return a.diags }

// Config returns the tunables this session runs with.
func (a *Analysis) Config() layout.Config { return a.cfg }

// Reset discards all scopes and derived tables atomically, preparing
// the session for a new compilation unit.
func (a *Analysis) Reset() {
	a.arena.Reset()
	a.diags = nil
	a.root = scope.InvalidHandle
	a.complete = false
}

// --- Query surface for the code generator ---

// Root returns the program root scope.
func (a *Analysis) Root() *scope.Scope {
	a.mustBeComplete()
	return a.arena.Get(a.root)
}

// Scopes returns every scope in creation (pre-order) order.
func (a *Analysis) Scopes() []*scope.Scope {
	a.mustBeComplete()
	out := make([]*scope.Scope, 0, a.arena.Len())
	for _, h := range a.arena.Handles() {
		out = append(out, a.arena.Get(h))
	}
	return out
}

// Scope looks a scope up by function identity.
func (a *Analysis) Scope(name string) (*scope.Scope, bool) {
	a.mustBeComplete()
	h, ok := a.arena.Lookup(name)
	if !ok {
		return nil, false
	}
	return a.arena.Get(h), true
}

// ScopeAt returns the first scope (in pre-order) at the given depth.
func (a *Analysis) ScopeAt(depth int) (*scope.Scope, bool) {
	a.mustBeComplete()
	for _, h := range a.arena.Handles() {
		if s := a.arena.Get(h); s.Depth == depth {
			return s, true
		}
	}
	return nil, false
}

// DeclaringScope returns the first scope (in pre-order) declaring the
// named variable.
func (a *Analysis) DeclaringScope(varName string) (*scope.Scope, bool) {
	a.mustBeComplete()
	for _, h := range a.arena.Handles() {
		s := a.arena.Get(h)
		if _, ok := s.Variable(varName); ok {
			return s, true
		}
	}
	return nil, false
}

// StackVariables returns the variables living in a stack-resident
// frame, in declaration order. The allocation decision is per scope:
// a heap-allocated frame has no stack variables.
func (a *Analysis) StackVariables(s *scope.Scope) []*scope.VariableInfo {
	a.mustBeComplete()
	if s.HeapAllocated {
		return nil
	}
	return s.Variables()
}

// HeapScopeVariables returns the variables living in a heap-backed
// scope object, in declaration order.
func (a *Analysis) HeapScopeVariables(s *scope.Scope) []*scope.VariableInfo {
	a.mustBeComplete()
	if !s.HeapAllocated {
		return nil
	}
	return s.Variables()
}

func (a *Analysis) mustBeComplete() {
	if !a.complete {
		panic("Analyzer Error: query before analysis completed")
	}
}

// scopeChain returns the handles from the root down to s inclusive.
func (a *Analysis) scopeChain(s *scope.Scope) []*scope.Scope {
	var rev []*scope.Scope
	cur := s
	for {
		rev = append(rev, cur)
		p := cur.Parent()
		if p == scope.InvalidHandle {
			break
		}
		cur = a.arena.Get(p)
	}
	out := make([]*scope.Scope, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
