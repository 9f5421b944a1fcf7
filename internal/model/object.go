package model

import "mozok/internal/ids"

// Object is a named, typed entity referenced by statements: the "nouns"
// of the quest world. Real objects have ID >= 0; action and relation-list
// formal parameters are represented as ephemeral objects with ID < 0
// (see ids.ParamID), letting a single ObjectVec mix concrete objects and
// placeholders without a separate variable type.
type Object struct {
	ID      ids.ID
	Name    string
	TypeSet TypeSet
}

// IsParam reports whether this object is a formal parameter placeholder
// rather than a real, world-level object.
func (o *Object) IsParam() bool { return ids.IsParam(o.ID) }

// ObjectVec is an ordered list of objects, e.g. an action's argument
// vector or a statement's argument vector.
type ObjectVec = []*Object

// NewParam constructs the ephemeral object representing the i-th
// (1-based) formal parameter of an action or relation list.
func NewParam(i int, name string, types TypeSet) *Object {
	return &Object{ID: ids.ParamID(i), Name: name, TypeSet: types}
}
