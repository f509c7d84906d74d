package scope

import (
	"fmt"

	"ultrascript/pkg/ast"
	"ultrascript/pkg/types"
)

// State tracks a scope's progress through the analysis pipeline.
// Transitions are strictly forward; a scope never re-enters Analyzing
// after it has been Closed.
type State uint8

const (
	StateCreated State = iota
	StateAnalyzing
	StateClosed
	StatePacked
	StateAllocated
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAnalyzing:
		return "analyzing"
	case StateClosed:
		return "closed"
	case StatePacked:
		return "packed"
	case StateAllocated:
		return "allocated"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// VariableInfo describes one variable declared in exactly one scope.
// The tree builder creates it; the escape analyzer mutates Escapes and
// AccessCount; the layout packer assigns Offset. It is released with
// its owning scope, never individually.
type VariableInfo struct {
	Name      string
	Type      types.Type
	Kind      ast.DeclKind
	IsParam   bool
	Line      int
	Size      int
	Alignment int
	Offset    int // Byte offset in the owning frame; -1 until packed
	Escapes   bool
	// AccessCount accumulates recorded (escaping) reads and writes.
	// It is the packing "hot" signal and the register priority weight.
	AccessCount int
}

// Scope is the analysis unit for one function/closure/goroutine body.
type Scope struct {
	Name  string // Function identity ("<program>" for the root)
	Depth int    // 0 = program root
	Line  int

	parent Handle // Non-owning handle into the arena; InvalidHandle for root
	state  State

	names []string // Declaration order, for deterministic packing tie-breaks
	vars  map[string]*VariableInfo

	// SelfDeps holds ancestor variables this scope's own code reads.
	// DescDeps holds ancestor variables read by scopes nested inside
	// this one; it is only valid once every nested scope has closed.
	SelfDeps *DepSet
	DescDeps *DepSet

	// PriorityDepths is the final consumption order for register
	// assignment: self-accessed ancestor depths first (hottest first),
	// then descendant-only depths.
	PriorityDepths []int

	// Registers maps each needed ancestor depth to its fast register
	// or stack slot. Depth == this scope's own depth is implicitly the
	// current-scope register (r15) and never appears here.
	Registers map[int]Location

	FrameSize     int
	HeapAllocated bool
}

func newScope(name string, depth int, parent Handle) *Scope {
	return &Scope{
		Name:     name,
		Depth:    depth,
		parent:   parent,
		state:    StateCreated,
		vars:     make(map[string]*VariableInfo),
		SelfDeps: NewDepSet(),
		DescDeps: NewDepSet(),
	}
}

// Parent returns the handle of the lexically enclosing scope, or
// InvalidHandle for the program root.
func (s *Scope) Parent() Handle { return s.parent }

// State returns the scope's current pipeline state.
func (s *Scope) State() State { return s.state }

// Declare records a variable in this scope. Redeclaring an existing
// name returns the original entry unchanged (first declaration wins).
func (s *Scope) Declare(name string, t types.Type, kind ast.DeclKind) *VariableInfo {
	if vi, ok := s.vars[name]; ok {
		return vi
	}
	vi := &VariableInfo{
		Name:      name,
		Type:      t,
		Kind:      kind,
		Size:      t.Size(),
		Alignment: t.Alignment(),
		Offset:    -1,
	}
	s.vars[name] = vi
	s.names = append(s.names, name)
	return vi
}

// Variable looks up a variable declared in this scope (not ancestors).
func (s *Scope) Variable(name string) (*VariableInfo, bool) {
	vi, ok := s.vars[name]
	return vi, ok
}

// Variables returns this scope's variables in declaration order.
func (s *Scope) Variables() []*VariableInfo {
	out := make([]*VariableInfo, len(s.names))
	for i, name := range s.names {
		out[i] = s.vars[name]
	}
	return out
}

// VariableNames returns the declared names in declaration order.
func (s *Scope) VariableNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// AnyEscapes reports whether any variable declared here is captured by
// a nested scope.
func (s *Scope) AnyEscapes() bool {
	for _, name := range s.names {
		if s.vars[name].Escapes {
			return true
		}
	}
	return false
}

// --- State transitions ---

// BeginAnalysis moves the scope into the Analyzing state. Escape
// events are only accepted while analyzing.
func (s *Scope) BeginAnalysis() {
	if s.state != StateCreated {
		panic(fmt.Sprintf("Analyzer Error: scope %q cannot begin analysis from state %s", s.Name, s.state))
	}
	s.state = StateAnalyzing
}

// Close finalizes the scope's own dependency recording. All nested
// scopes are guaranteed to have closed already (LIFO close order).
func (s *Scope) Close() {
	if s.state != StateAnalyzing {
		panic(fmt.Sprintf("Analyzer Error: scope %q cannot close from state %s", s.Name, s.state))
	}
	s.state = StateClosed
}

// MarkPacked records that variable offsets and the frame size are set.
func (s *Scope) MarkPacked() {
	if s.state != StateClosed {
		panic(fmt.Sprintf("Analyzer Error: scope %q cannot be packed from state %s", s.Name, s.state))
	}
	s.state = StatePacked
}

// MarkAllocated records that the allocation strategy and register
// assignment are final.
func (s *Scope) MarkAllocated() {
	if s.state != StatePacked {
		panic(fmt.Sprintf("Analyzer Error: scope %q cannot be allocated from state %s", s.Name, s.state))
	}
	s.state = StateAllocated
}
