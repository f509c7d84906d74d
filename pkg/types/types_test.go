package types

import "testing"

func TestSizeAndAlignment(t *testing.T) {
	cases := []struct {
		typ   Type
		size  int
		align int
	}{
		{Int8, 1, 1},
		{Uint8, 1, 1},
		{Boolean, 1, 1},
		{Int16, 2, 2},
		{Uint16, 2, 2},
		{Int32, 4, 4},
		{Uint32, 4, 4},
		{Float32, 4, 4},
		{Int64, 8, 8},
		{Uint64, 8, 8},
		{Float64, 8, 8},
		{String, 8, 8},
		{Array, 8, 8},
		{Object, 8, 8},
		{Function, 8, 8},
		{Any, 8, 8},
	}
	for _, c := range cases {
		if got := c.typ.Size(); got != c.size {
			t.Errorf("%s: expected size %d, got %d", c.typ, c.size, got)
		}
		if got := c.typ.Alignment(); got != c.align {
			t.Errorf("%s: expected alignment %d, got %d", c.typ, c.align, got)
		}
	}
}

func TestParseTag(t *testing.T) {
	if got := ParseTag("int64"); got != Int64 {
		t.Errorf("expected Int64, got %s", got)
	}
	if got := ParseTag("bool"); got != Boolean {
		t.Errorf("expected Boolean for alias \"bool\", got %s", got)
	}
	if got := ParseTag("auto"); got != Any {
		t.Errorf("expected Any for \"auto\", got %s", got)
	}
	// Unknown tags must fail open to Any, never error.
	if got := ParseTag("quaternion"); got != Any {
		t.Errorf("expected Any for unknown tag, got %s", got)
	}
	if got := ParseTag(""); got != Any {
		t.Errorf("expected Any for empty tag, got %s", got)
	}
}

func TestIsReference(t *testing.T) {
	for _, typ := range []Type{String, Array, Object, Function, Any} {
		if !typ.IsReference() {
			t.Errorf("expected %s to be a reference type", typ)
		}
	}
	for _, typ := range []Type{Int64, Float64, Boolean} {
		if typ.IsReference() {
			t.Errorf("expected %s not to be a reference type", typ)
		}
	}
}
