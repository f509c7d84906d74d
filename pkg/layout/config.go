package layout

// Config carries the layout engine's tunables. The reference behavior
// uses the defaults below; they are configuration, not semantics, and
// tests exercise non-default values.
type Config struct {
	// FastRegisters is the size of the fast-register pool available
	// for ancestor scope base addresses (r12/r13/r14). The current
	// scope's own base address always lives in r15 and is not counted.
	FastRegisters int

	// HeapThreshold is the frame size in bytes above which a scope is
	// heap-allocated even if nothing in it escapes.
	HeapThreshold int

	// FrameAlign is the alignment every frame size is rounded up to.
	FrameAlign int

	// HotFraction is the relative access-count cutoff for the packing
	// heuristic: a variable is "hot" when its access count is at least
	// HotFraction of the scope's maximum and greater than one.
	HotFraction float64

	// StackSlotSize is the size of one spilled scope-address slot in
	// the caller's frame.
	StackSlotSize int
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		FastRegisters: 3,
		HeapThreshold: 1024,
		FrameAlign:    8,
		HotFraction:   0.5,
		StackSlotSize: 8,
	}
}
