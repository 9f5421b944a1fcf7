package model

import (
	"mozok/internal/ids"
	"mozok/internal/result"
)

// RelationList is a named, parameterised macro expanding to a statement
// vector: a tool for keeping .quest source compact, and the shared
// machinery behind an action's pre/rem/add lists (see internal/action).
type RelationList struct {
	ID         ids.ID
	Name       string
	Parameters ObjectVec // n-th (1-based) parameter has ID -n.
	Statements []*Statement
}

// CheckArgumentsCompatibility validates arguments against the relation
// list's declared parameter types, using the fuller subset-compatibility
// check (argument type set must be a superset of the slot's declared
// type set) rather than Relation's single-type membership test.
func (rl *RelationList) CheckArgumentsCompatibility(arguments ObjectVec) result.Result {
	if len(arguments) != len(rl.Parameters) {
		return result.RListArgErrorInvalidArity(rl.Name, len(rl.Parameters), len(arguments))
	}
	for i, arg := range arguments {
		slotTypes := rl.Parameters[i].TypeSet
		if !AreTypesetsCompatible(arg.TypeSet, slotTypes) {
			return result.RListArgErrorInvalidType(rl.Name, i, arg.Name, arg.TypeSet.Names(), slotTypes.Names())
		}
	}
	return result.OK()
}

// Substitute builds a freshly allocated statement vector with every
// parameter position filled in. Constant statements (no parameters) are
// shared unchanged. This is the "slow path"; planner hot loops should
// precompute a buffer once and use SubstituteFast instead.
func (rl *RelationList) Substitute(arguments ObjectVec) []*Statement {
	res := make([]*Statement, len(rl.Statements))
	for i, stmt := range rl.Statements {
		if stmt.IsConstant() {
			res[i] = stmt
		} else {
			res[i] = stmt.Substitute(arguments)
		}
	}
	return res
}

// SubstituteFast mutates a preallocated buffer (produced by an earlier
// call to Substitute against the same relation list) in place: only
// non-constant statements are touched, and only their parameter
// argument slots are overwritten, then each touched statement's hash is
// recomputed. out must be structurally identical to rl.Statements (same
// relations, same order, same constant arguments) - the planner
// maintains this invariant by building out once per action via
// Substitute and reusing it for every subsequent substitution.
func (rl *RelationList) SubstituteFast(out []*Statement, arguments ObjectVec) {
	for i, stmt := range rl.Statements {
		if stmt.IsConstant() {
			continue
		}
		stArgs := stmt.Arguments()
		outArgs := out[i].Arguments()
		for idx, arg := range stArgs {
			if arg.IsParam() {
				outArgs[idx] = arguments[ids.ParamIndex(arg.ID)]
			}
		}
		out[i].RecalculateHash()
	}
}
