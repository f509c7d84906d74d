package errors

// Position represents a specific location in the analyzed program.
// Line and column are 1-based for human-readability; a zero Position
// means the diagnostic has no useful source location (e.g. it refers
// to a synthesized scope rather than a token).
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// IsZero reports whether the position carries no location information.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}
