package scope

import "sort"

// Handle is a non-owning reference to a scope in an Arena. Scopes
// reference their parents by handle rather than by pointer so the
// arena remains the sole owner of every scope and can be torn down
// atomically at the end of a compilation unit.
type Handle int

// InvalidHandle marks the absence of a scope (the root's parent).
const InvalidHandle Handle = -1

// Arena owns every scope of one compilation unit.
type Arena struct {
	scopes []*Scope
	byName map[string]Handle
}

// NewArena creates an empty scope arena.
func NewArena() *Arena {
	return &Arena{byName: make(map[string]Handle)}
}

// NewScope creates a scope named name under parent and returns its
// handle. Depth is parent.Depth+1, or 0 when parent is InvalidHandle.
//
// Registering a name that already exists replaces the old scope in
// place: the same function analyzed twice must never merge stale
// dependency data with fresh data.
func (a *Arena) NewScope(name string, parent Handle) Handle {
	depth := 0
	if parent != InvalidHandle {
		depth = a.Get(parent).Depth + 1
	}
	s := newScope(name, depth, parent)
	if h, ok := a.byName[name]; ok {
		a.scopes[h] = s
		return h
	}
	h := Handle(len(a.scopes))
	a.scopes = append(a.scopes, s)
	a.byName[name] = h
	return h
}

// Get returns the scope for a handle. Panics on an invalid handle;
// handles only come from this arena, so that is an internal bug.
func (a *Arena) Get(h Handle) *Scope {
	return a.scopes[h]
}

// Lookup finds a scope handle by function identity.
func (a *Arena) Lookup(name string) (Handle, bool) {
	h, ok := a.byName[name]
	return h, ok
}

// Len returns the number of scopes in the arena.
func (a *Arena) Len() int { return len(a.scopes) }

// Handles returns every handle in creation (pre-order) order.
func (a *Arena) Handles() []Handle {
	out := make([]Handle, len(a.scopes))
	for i := range a.scopes {
		out[i] = Handle(i)
	}
	return out
}

// DeepestFirst returns every handle ordered by decreasing depth,
// creation order within a depth. This is the fold order for dependency
// propagation: every scope is processed before its parent.
func (a *Arena) DeepestFirst() []Handle {
	out := a.Handles()
	sort.SliceStable(out, func(i, j int) bool {
		return a.scopes[out[i]].Depth > a.scopes[out[j]].Depth
	})
	return out
}

// Reset discards every scope at once. Handles from before the reset
// are invalid afterwards.
func (a *Arena) Reset() {
	a.scopes = a.scopes[:0]
	a.byName = make(map[string]Handle)
}
