package scope

import "fmt"

// FastRegister identifies one of the small pool of CPU registers
// pre-loaded with an ancestor scope's base address. Id 0..2 map to
// x86-64 r12/r13/r14; r15 always holds the current scope's base
// address and is not part of the pool.
type FastRegister uint8

// CurrentScopeRegister is the register that always holds the current
// scope's frame base address.
const CurrentScopeRegister = "r15"

var fastRegisterNames = [...]string{"r12", "r13", "r14"}

// Name returns the x86-64 register name for this fast register id.
func (r FastRegister) Name() string {
	if int(r) < len(fastRegisterNames) {
		return fastRegisterNames[r]
	}
	return fmt.Sprintf("scope-reg%d", uint8(r))
}

func (r FastRegister) String() string { return r.Name() }

// Location is where an ancestor scope's base address lives for the
// duration of a function's execution: either a fast register or an
// 8-byte stack-passed slot in the caller's frame.
type Location struct {
	OnStack  bool
	Register FastRegister // Valid when !OnStack
	Slot     int          // Byte offset of the stack slot; valid when OnStack
}

// RegisterLocation returns a fast-register location.
func RegisterLocation(r FastRegister) Location {
	return Location{Register: r}
}

// StackLocation returns a stack-slot location at the given byte offset.
func StackLocation(slot int) Location {
	return Location{OnStack: true, Slot: slot}
}

func (l Location) String() string {
	if l.OnStack {
		return fmt.Sprintf("stack+%d", l.Slot)
	}
	return l.Register.Name()
}
