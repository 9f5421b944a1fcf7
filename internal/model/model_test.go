package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mozok/internal/ids"
	"mozok/internal/model"
)

func mkType(id ids.ID, name string, supers ...*model.Type) *model.Type {
	t := &model.Type{ID: id, Name: name}
	ts := model.NewTypeSet(t)
	for _, s := range supers {
		ts = ts.Union(model.NewTypeSet(s))
	}
	t.Supertypes = ts
	return t
}

func TestTypeSet_ContainsAndUnion(t *testing.T) {
	base := &model.Type{ID: 0, Name: "Base"}
	derived := mkType(1, "Derived", base)

	assert.True(t, derived.Supertypes.Contains(base))
	assert.True(t, derived.Supertypes.Contains(derived))
	assert.False(t, model.NewTypeSet(base).Contains(derived))
}

func TestAreTypesetsCompatible(t *testing.T) {
	base := &model.Type{ID: 0, Name: "Base"}
	derived := mkType(1, "Derived", base)

	objSet := derived.Supertypes // {Derived, Base}
	slotSet := model.NewTypeSet(base)

	assert.True(t, model.AreTypesetsCompatible(objSet, slotSet))
	assert.False(t, model.AreTypesetsCompatible(slotSet, objSet))
}

func TestObject_IsParam(t *testing.T) {
	real := &model.Object{ID: 0, Name: "door"}
	param := model.NewParam(1, "x", nil)
	assert.False(t, real.IsParam())
	assert.True(t, param.IsParam())
	assert.Equal(t, ids.ParamID(1), param.ID)
}

func TestRelation_CheckArgumentsCompatibility(t *testing.T) {
	ty := &model.Type{ID: 0, Name: "Room"}
	rel := &model.Relation{ID: 0, Name: "at", ArgTypes: []*model.Type{ty}}

	ok := &model.Object{ID: 0, Name: "kitchen", TypeSet: model.NewTypeSet(ty)}
	res := rel.CheckArgumentsCompatibility(model.ObjectVec{ok})
	assert.True(t, res.IsOK())

	wrongArity := rel.CheckArgumentsCompatibility(model.ObjectVec{})
	assert.True(t, wrongArity.IsError())

	other := &model.Type{ID: 1, Name: "Other"}
	bad := &model.Object{ID: 1, Name: "x", TypeSet: model.NewTypeSet(other)}
	wrongType := rel.CheckArgumentsCompatibility(model.ObjectVec{bad})
	assert.True(t, wrongType.IsError())
}

func TestStatement_ConstantAndGlobal(t *testing.T) {
	ty := &model.Type{ID: 0, Name: "Room"}
	rel := &model.Relation{ID: 0, Name: "at", ArgTypes: []*model.Type{ty}}
	obj := &model.Object{ID: 0, Name: "kitchen", TypeSet: model.NewTypeSet(ty)}
	param := model.NewParam(1, "x", model.NewTypeSet(ty))

	constStmt := model.NewStatement(rel, model.ObjectVec{obj})
	assert.True(t, constStmt.IsConstant())
	assert.True(t, constStmt.IsGlobal())

	paramStmt := model.NewStatement(rel, model.ObjectVec{param})
	assert.False(t, paramStmt.IsConstant())
	assert.False(t, paramStmt.IsGlobal())

	zeroArityRel := &model.Relation{ID: 1, Name: "started"}
	zeroStmt := model.NewStatement(zeroArityRel, model.ObjectVec{})
	assert.True(t, zeroStmt.IsGlobal())
}

func TestStatement_SubstituteAndEqual(t *testing.T) {
	ty := &model.Type{ID: 0, Name: "Room"}
	rel := &model.Relation{ID: 0, Name: "at", ArgTypes: []*model.Type{ty}}
	param := model.NewParam(1, "x", model.NewTypeSet(ty))
	kitchen := &model.Object{ID: 0, Name: "kitchen", TypeSet: model.NewTypeSet(ty)}

	tmpl := model.NewStatement(rel, model.ObjectVec{param})
	bound := tmpl.Substitute(model.ObjectVec{kitchen})

	assert.True(t, bound.IsConstant())
	assert.Equal(t, kitchen, bound.Arguments()[0])

	again := tmpl.Substitute(model.ObjectVec{kitchen})
	assert.True(t, bound.Equal(again))
	assert.False(t, bound.Equal(tmpl))
}

func TestRelationList_SubstituteFast(t *testing.T) {
	ty := &model.Type{ID: 0, Name: "Room"}
	rel := &model.Relation{ID: 0, Name: "at", ArgTypes: []*model.Type{ty}}
	param := model.NewParam(1, "x", model.NewTypeSet(ty))
	kitchen := &model.Object{ID: 0, Name: "kitchen", TypeSet: model.NewTypeSet(ty)}
	hallway := &model.Object{ID: 1, Name: "hallway", TypeSet: model.NewTypeSet(ty)}

	rl := &model.RelationList{
		ID:         0,
		Name:       "here",
		Parameters: model.ObjectVec{param},
		Statements: []*model.Statement{model.NewStatement(rel, model.ObjectVec{param})},
	}

	res := rl.CheckArgumentsCompatibility(model.ObjectVec{kitchen})
	assert.True(t, res.IsOK())

	out := rl.Substitute(model.ObjectVec{kitchen})
	assert.Equal(t, kitchen, out[0].Arguments()[0])

	rl.SubstituteFast(out, model.ObjectVec{hallway})
	assert.Equal(t, hallway, out[0].Arguments()[0])
}
