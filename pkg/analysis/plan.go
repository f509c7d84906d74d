package analysis

import (
	"fmt"

	"ultrascript/pkg/errors"
	"ultrascript/pkg/scope"
)

// AccessPlan is the concrete recipe for reaching one variable from one
// scope: which register (or stack slot) holds the base address of the
// frame the variable lives in, and the byte offset inside that frame.
// The code generator turns a plan into a single indexed load.
type AccessPlan struct {
	Variable       string
	DeclaringScope *scope.Scope

	// CurrentScope is true when the variable lives in the accessing
	// scope's own frame, whose base address is always in r15.
	CurrentScope bool

	// Location holds the ancestor frame's base address when
	// CurrentScope is false.
	Location scope.Location

	ByteOffset int
}

// Address renders the x86-style addressing expression for the plan,
// e.g. "[r12+24]". Stack-slot locations require an extra load first
// and render as "[[rbp-slot]+offset]" to make that visible in dumps.
func (p AccessPlan) Address() string {
	if p.CurrentScope {
		return fmt.Sprintf("[%s+%d]", scope.CurrentScopeRegister, p.ByteOffset)
	}
	if p.Location.OnStack {
		return fmt.Sprintf("[[rbp-%d]+%d]", p.Location.Slot+8, p.ByteOffset)
	}
	return fmt.Sprintf("[%s+%d]", p.Location.Register.Name(), p.ByteOffset)
}

// AccessPlanFor resolves a captured (or local) variable by name from
// the given accessing scope and returns the register/slot plus byte
// offset to emit. It fails if the name never resolves or if the
// accessing scope has no recorded need for the declaring depth (which
// would mean escape analysis never saw this access).
func (a *Analysis) AccessPlanFor(varName string, accessing *scope.Scope) (AccessPlan, error) {
	a.mustBeComplete()

	chain := a.scopeChain(accessing)
	for i := len(chain) - 1; i >= 0; i-- {
		s := chain[i]
		vi, ok := s.Variable(varName)
		if !ok {
			continue
		}
		if vi.Offset < 0 {
			return AccessPlan{}, &errors.InternalError{
				Function: s.Name,
				Variable: varName,
				Depth:    s.Depth,
				Msg:      "variable has no packed offset",
			}
		}
		if s == accessing {
			return AccessPlan{
				Variable:       varName,
				DeclaringScope: s,
				CurrentScope:   true,
				ByteOffset:     vi.Offset,
			}, nil
		}
		loc, ok := accessing.Registers[s.Depth]
		if !ok {
			return AccessPlan{}, &errors.LayoutError{
				Function: accessing.Name,
				Variable: varName,
				Depth:    accessing.Depth,
				Msg:      fmt.Sprintf("no recorded dependency on ancestor depth %d", s.Depth),
			}
		}
		return AccessPlan{
			Variable:       varName,
			DeclaringScope: s,
			Location:       loc,
			ByteOffset:     vi.Offset,
		}, nil
	}

	return AccessPlan{}, &errors.ScopeError{
		Function: accessing.Name,
		Variable: varName,
		Depth:    accessing.Depth,
		Msg:      fmt.Sprintf("variable %q not found on the scope chain", varName),
	}
}

// PrologueLoad is one base-address load the function prologue must
// perform before the body runs.
type PrologueLoad struct {
	Depth    int
	Location scope.Location
}

// ProloguePlan returns the ancestor base addresses a scope's prologue
// must materialize, in priority order. The current scope's own base
// address (r15) is established by the calling convention and is not
// part of the plan.
func (a *Analysis) ProloguePlan(s *scope.Scope) []PrologueLoad {
	a.mustBeComplete()
	out := make([]PrologueLoad, 0, len(s.PriorityDepths))
	for _, depth := range s.PriorityDepths {
		out = append(out, PrologueLoad{Depth: depth, Location: s.Registers[depth]})
	}
	return out
}
