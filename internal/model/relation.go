package model

import (
	"mozok/internal/ids"
	"mozok/internal/result"
)

// Relation is a named, typed n-ary predicate schema. Arity may be zero,
// in which case any statement built from it is global (see Statement).
type Relation struct {
	ID       ids.ID
	Name     string
	ArgTypes []*Type
}

// CheckArgumentsCompatibility validates arguments against the relation's
// declared argument types. Unlike RelationList's check, a Relation slot
// requires the argument's type set to directly contain the single
// declared type at that position - not the fuller subset compatibility
// relation lists and actions use.
func (r *Relation) CheckArgumentsCompatibility(arguments ObjectVec) result.Result {
	if len(arguments) != len(r.ArgTypes) {
		return result.RelArgErrorInvalidArity(r.Name, len(r.ArgTypes), len(arguments))
	}
	for i, arg := range arguments {
		if !arg.TypeSet.Contains(r.ArgTypes[i]) {
			return result.RelArgErrorInvalidType(r.Name, i, arg.Name, arg.TypeSet.Names(), r.ArgTypes[i].Name)
		}
	}
	return result.OK()
}
