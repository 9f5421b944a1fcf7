// Package ids implements dense integer identifiers shared across every
// definition kind (types, objects, relations, relation lists, actions,
// quests): non-negative IDs for real, named entities assigned in
// definition order, and negative IDs reserved for the formal parameters
// of actions and relation lists.
package ids

// ID is the identifier type used throughout the engine. It must support
// negative values: the i-th (1-based) formal parameter of an action or
// relation list is given ID -i, so ParamIndex(ParamID(i)) == i-1 recovers
// the zero-based argument-vector slot a parameter substitutes into.
type ID = int

// ParamID returns the ID of the i-th (1-based) formal parameter.
func ParamID(i int) ID { return -i }

// IsParam reports whether id denotes a formal parameter rather than a
// real, interned entity.
func IsParam(id ID) bool { return id < 0 }

// ParamIndex returns the zero-based argument-vector index a parameter ID
// substitutes into.
func ParamIndex(id ID) int { return -1 - id }

// Interner assigns dense, non-negative IDs to names in first-seen order
// and supports O(1) lookups in both directions. Names are only ever
// appended. internal/world does not use it; it keeps its own
// name-to-ID maps.
type Interner struct {
	names []string
	index map[string]ID
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{index: make(map[string]ID)}
}

// Lookup returns the ID for name, if already interned.
func (in *Interner) Lookup(name string) (ID, bool) {
	id, ok := in.index[name]
	return id, ok
}

// Has reports whether name has already been interned.
func (in *Interner) Has(name string) bool {
	_, ok := in.index[name]
	return ok
}

// Add interns a new name and returns its freshly assigned ID. Callers
// must check Has first; Add does not itself reject duplicates, since
// every definition-layer caller already needs a distinct "already
// exists" error message of its own.
func (in *Interner) Add(name string) ID {
	id := ID(len(in.names))
	in.names = append(in.names, name)
	in.index[name] = id
	return id
}

// Name returns the name originally interned for id. Panics if id is out
// of range or negative; callers must only pass IDs known to be real.
func (in *Interner) Name(id ID) string {
	return in.names[id]
}

// Len returns the number of interned names.
func (in *Interner) Len() int { return len(in.names) }

// Names returns the names in definition order. The returned slice must
// not be mutated by the caller.
func (in *Interner) Names() []string { return in.names }
