package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mozok/internal/action"
	"mozok/internal/model"
	"mozok/internal/state"
)

func setupDoorAction() (*action.Action, *model.Object, *model.Object) {
	roomTy := &model.Type{ID: 0, Name: "Room"}
	atRel := &model.Relation{ID: 0, Name: "at", ArgTypes: []*model.Type{roomTy}}
	openRel := &model.Relation{ID: 1, Name: "open", ArgTypes: []*model.Type{roomTy}}

	kitchen := &model.Object{ID: 0, Name: "kitchen", TypeSet: model.NewTypeSet(roomTy)}
	hallway := &model.Object{ID: 1, Name: "hallway", TypeSet: model.NewTypeSet(roomTy)}

	param := model.NewParam(1, "r", model.NewTypeSet(roomTy))
	pre := []*model.Statement{model.NewStatement(atRel, model.ObjectVec{param})}
	rem := []*model.Statement{model.NewStatement(atRel, model.ObjectVec{param})}
	add := []*model.Statement{model.NewStatement(openRel, model.ObjectVec{param})}

	act := action.New("open_door", 0, false, model.ObjectVec{param}, pre, rem, add)
	return act, kitchen, hallway
}

func TestAction_EvaluateApplicability_AritySuccessAndFailure(t *testing.T) {
	act, kitchen, _ := setupDoorAction()
	st := state.New(nil)

	_, errKind := act.EvaluateApplicability(false, model.ObjectVec{}, st)
	assert.Equal(t, action.ArityError, errKind)

	res, errKind := act.EvaluateApplicability(true, model.ObjectVec{kitchen}, st)
	assert.True(t, res.IsOK())
	assert.Equal(t, action.NoError, errKind)
}

func TestAction_EvaluateApplicability_TypeError(t *testing.T) {
	act, _, _ := setupDoorAction()
	otherTy := &model.Type{ID: 9, Name: "Other"}
	wrong := &model.Object{ID: 5, Name: "thing", TypeSet: model.NewTypeSet(otherTy)}
	st := state.New(nil)

	_, errKind := act.EvaluateApplicability(true, model.ObjectVec{wrong}, st)
	assert.Equal(t, action.TypeError, errKind)
}

func TestAction_EvaluateApplicability_PreconditionsError(t *testing.T) {
	act, kitchen, _ := setupDoorAction()
	st := state.New(nil) // kitchen not "at"

	res, errKind := act.EvaluateApplicability(false, model.ObjectVec{kitchen}, st)
	assert.True(t, res.IsError())
	assert.Equal(t, action.PreconditionsError, errKind)
}

func TestAction_Apply(t *testing.T) {
	act, kitchen, _ := setupDoorAction()
	atRel := act.Pre.Statements[0].Relation
	atKitchen := model.NewStatement(atRel, model.ObjectVec{kitchen})

	st := state.New([]*model.Statement{atKitchen})
	res, errKind := act.Apply(model.ObjectVec{kitchen}, st)
	assert.True(t, res.IsOK())
	assert.Equal(t, action.NoError, errKind)
	assert.False(t, st.Contains(atKitchen))
	assert.Equal(t, 1, st.Size())
}

func TestAction_CheckPreconditionsFast(t *testing.T) {
	act, kitchen, hallway := setupDoorAction()
	atRel := act.Pre.Statements[0].Relation
	atKitchen := model.NewStatement(atRel, model.ObjectVec{kitchen})

	st := state.New([]*model.Statement{atKitchen})
	buf := act.NewPreBuffer()

	assert.True(t, act.CheckPreconditionsFast(model.ObjectVec{kitchen}, st, buf))
	assert.False(t, act.CheckPreconditionsFast(model.ObjectVec{hallway}, st, buf))
}

func TestActionError_String(t *testing.T) {
	assert.Equal(t, "NO_ERROR", action.NoError.String())
	assert.Equal(t, "PRECONDITIONS_ERROR", action.PreconditionsError.String())
	assert.Equal(t, "OTHER", action.ActionError(99).String())
}
