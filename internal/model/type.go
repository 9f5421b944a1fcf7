// Package model implements the shared, immutable definitional graph of
// the quest engine: types, objects, relations, relation lists, and the
// statements built from them. Every value here is write-once: once
// constructed, a Type/Object/Relation/RelationList/Statement never
// changes, so they are safely shared by reference across every State
// snapshot and every quest's planner view.
package model

import "mozok/internal/ids"

// Type is a named node in the subtype lattice. Supertypes holds the
// transitive closure of declared parents, including the type itself -
// this lets set-inclusion answer subtype-compatibility questions in
// O(len) without walking the lattice at query time.
type Type struct {
	ID         ids.ID
	Name       string
	Supertypes TypeSet
}

// TypeSet is the transitively-closed set of types an object or type
// belongs to. Keyed by *Type pointer identity, matching the reference
// engine's use of shared-pointer identity for set membership.
type TypeSet map[*Type]struct{}

// NewTypeSet builds a TypeSet containing exactly the given types (plus,
// by construction, their own transitive supertypes must already have
// been folded in by the caller - see World.AddType).
func NewTypeSet(types ...*Type) TypeSet {
	ts := make(TypeSet, len(types))
	for _, t := range types {
		ts[t] = struct{}{}
	}
	return ts
}

// Union returns a new TypeSet containing every type in s and other.
func (s TypeSet) Union(other TypeSet) TypeSet {
	out := make(TypeSet, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

// Contains reports whether t is a member of the set.
func (s TypeSet) Contains(t *Type) bool {
	_, ok := s[t]
	return ok
}

// Names returns the set's type names, for error messages and save-file
// text. Order is unspecified.
func (s TypeSet) Names() []string {
	names := make([]string, 0, len(s))
	for t := range s {
		names = append(names, t.Name)
	}
	return names
}

// AreTypesetsCompatible reports whether bigger is a superset of smaller.
// Object O fits a parameter slot declaring type set "smaller" iff O's own
// type set is "bigger" in this sense.
func AreTypesetsCompatible(bigger, smaller TypeSet) bool {
	if len(smaller) > len(bigger) {
		return false
	}
	for t := range smaller {
		if !bigger.Contains(t) {
			return false
		}
	}
	return true
}
