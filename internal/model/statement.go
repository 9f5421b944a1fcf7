package model

import (
	"mozok/internal/ids"
	"mozok/internal/result"
)

// Statement is a relation applied to an ordered argument vector, plus
// its derived flags and an order-sensitive hash chosen so the XOR
// combination of many statements' hashes remains a reasonably good hash
// by itself (see State).
type Statement struct {
	Relation   *Relation
	arguments  ObjectVec
	isConstant bool
	isGlobal   bool
	hash       uint64
}

// NewStatement builds a statement over relation and arguments, computing
// its derived flags and hash once at construction.
func NewStatement(relation *Relation, arguments ObjectVec) *Statement {
	s := &Statement{Relation: relation, arguments: arguments}
	s.isConstant = computeIsConstant(arguments)
	s.isGlobal = computeIsGlobal(arguments)
	s.hash = s.computeHash()
	return s
}

func computeIsConstant(arguments ObjectVec) bool {
	for _, arg := range arguments {
		if arg.IsParam() {
			return false
		}
	}
	return true
}

func computeIsGlobal(arguments ObjectVec) bool {
	// Zero-arity relation is always global.
	if len(arguments) == 0 {
		return true
	}
	for _, arg := range arguments {
		if !arg.IsParam() {
			return true
		}
	}
	return false
}

// IsConstant reports whether the statement contains no parameter
// placeholders - i.e. it needs no substitution to be ground truth.
func (s *Statement) IsConstant() bool { return s.isConstant }

// IsGlobal reports whether the statement refers to at least one
// non-parameter (real, world-level) object, or is built from a
// zero-arity relation.
func (s *Statement) IsGlobal() bool { return s.isGlobal }

// Arguments returns the statement's argument vector. The returned slice
// must not be mutated except via the constrained in-place path used by
// SubstituteFast (see RelationList), which always calls RecalculateHash
// afterward.
func (s *Statement) Arguments() ObjectVec { return s.arguments }

// Hash returns the statement's cached hash value.
func (s *Statement) Hash() uint64 { return s.hash }

// RecalculateHash recomputes the cached hash after an in-place argument
// mutation performed by RelationList.SubstituteFast.
func (s *Statement) RecalculateHash() { s.hash = s.computeHash() }

// computeHash implements the reference formula exactly:
// hash(relationId) + sum_i hash(relationId + i*10007 + argId_i*100003),
// using 10007 and 100003 (both prime) to spread position and argument
// identity across the accumulated sum.
func (s *Statement) computeHash() uint64 {
	result := hashID(ids.ID(s.Relation.ID))
	for i, arg := range s.arguments {
		result += hashID(s.Relation.ID + i*10007 + arg.ID*100003)
	}
	return result
}

// hashID maps a signed ID into the unsigned hash domain. Go has no
// built-in std::hash<int>; a direct bit-reinterpretation of the signed
// value preserves uniqueness and is all the reference engine relies on.
func hashID(id ids.ID) uint64 {
	return uint64(uint32(id))
}

// CheckArgumentsCompatibility delegates to the statement's relation.
func (s *Statement) CheckArgumentsCompatibility(arguments ObjectVec) result.Result {
	return s.Relation.CheckArgumentsCompatibility(arguments)
}

// Substitute returns a new statement with every parameter argument
// replaced by arguments[ids.ParamIndex(id)]. Arguments must already be
// known compatible with the statement's relation.
func (s *Statement) Substitute(arguments ObjectVec) *Statement {
	resArgs := make(ObjectVec, len(s.arguments))
	for i, arg := range s.arguments {
		if !arg.IsParam() {
			resArgs[i] = arg
		} else {
			resArgs[i] = arguments[ids.ParamIndex(arg.ID)]
		}
	}
	return NewStatement(s.Relation, resArgs)
}

// Equal reports whether two statements are interchangeable for state
// membership: same relation, same arguments, same position. Hash is
// checked first purely as a fast-reject; it is not itself sufficient.
func (s *Statement) Equal(other *Statement) bool {
	if s == other {
		return true
	}
	if s.hash != other.hash || s.Relation != other.Relation {
		return false
	}
	if len(s.arguments) != len(other.arguments) {
		return false
	}
	for i := range s.arguments {
		if s.arguments[i] != other.arguments[i] {
			return false
		}
	}
	return true
}
