package layout

import (
	"fmt"

	"ultrascript/pkg/scope"
)

const debugRegAlloc = false

// AllocateRegisters assigns each needed ancestor depth a fast register
// or a stack slot, consuming the scope's priority order greedily: the
// first FastRegisters entries get the fast registers, the rest get
// increasing stack-slot offsets in the caller's frame.
//
// Because the priority order puts self-accessed depths before
// descendant-only ones, a self dependency can never lose its register
// to a descendant-only need. Pool exhaustion is not an error; the
// stack fallback is the expected handling.
func AllocateRegisters(s *scope.Scope, cfg Config) {
	s.Registers = make(map[int]scope.Location, len(s.PriorityDepths))
	for i, depth := range s.PriorityDepths {
		var loc scope.Location
		if i < cfg.FastRegisters {
			loc = scope.RegisterLocation(scope.FastRegister(i))
		} else {
			loc = scope.StackLocation((i - cfg.FastRegisters) * cfg.StackSlotSize)
		}
		s.Registers[depth] = loc
		if debugRegAlloc {
			fmt.Printf("[REGALLOC] %s: ancestor depth %d -> %s\n", s.Name, depth, loc)
		}
	}
	s.MarkAllocated()
}
