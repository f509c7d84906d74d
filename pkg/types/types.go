package types

// Type is the closed set of variable type tags the scope analysis
// understands. Types are taken as given facts from the front end; the
// analysis only cares about their size and alignment.
type Type uint8

const (
	Any Type = iota // Unknown or dynamic; stored as a boxed pointer
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Boolean
	String   // Pointer to string object
	Array    // Pointer to array object
	Object   // Pointer to object
	Function // Pointer to closure object
)

var typeNames = [...]string{
	Any:      "any",
	Int8:     "int8",
	Int16:    "int16",
	Int32:    "int32",
	Int64:    "int64",
	Uint8:    "uint8",
	Uint16:   "uint16",
	Uint32:   "uint32",
	Uint64:   "uint64",
	Float32:  "float32",
	Float64:  "float64",
	Boolean:  "boolean",
	String:   "string",
	Array:    "array",
	Object:   "object",
	Function: "function",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "any"
}

// Size returns the number of bytes a variable of this type occupies in
// a scope frame. Reference types and Any are stored as 8-byte pointers.
func (t Type) Size() int {
	switch t {
	case Int8, Uint8, Boolean:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	default:
		return 8
	}
}

// Alignment returns the required alignment for this type. For the
// primitive set this coincides with Size.
func (t Type) Alignment() int {
	return t.Size()
}

// IsReference reports whether the type is stored as a pointer to a
// heap object (relevant for debug output, not for layout: pointers
// pack like any other 8-byte value).
func (t Type) IsReference() bool {
	switch t {
	case String, Array, Object, Function, Any:
		return true
	}
	return false
}

var tagToType = map[string]Type{
	"any":      Any,
	"auto":     Any,
	"int8":     Int8,
	"int16":    Int16,
	"int32":    Int32,
	"int64":    Int64,
	"uint8":    Uint8,
	"uint16":   Uint16,
	"uint32":   Uint32,
	"uint64":   Uint64,
	"float32":  Float32,
	"float64":  Float64,
	"boolean":  Boolean,
	"bool":     Boolean,
	"string":   String,
	"array":    Array,
	"object":   Object,
	"function": Function,
}

// ParseTag maps a textual type tag to a Type. Unknown tags resolve to
// Any: the analysis is fail-open on type information.
func ParseTag(tag string) Type {
	if t, ok := tagToType[tag]; ok {
		return t
	}
	return Any
}
