package quest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mozok/internal/action"
	"mozok/internal/model"
	"mozok/internal/quest"
	"mozok/internal/state"
)

type recordingIterator struct {
	calls []string
	limit int
}

func (r *recordingIterator) ActionCallback(act *action.Action, arguments model.ObjectVec) bool {
	names := make([]string, len(arguments))
	for i, a := range arguments {
		names[i] = a.Name
	}
	r.calls = append(r.calls, act.Name)
	if r.limit > 0 && len(r.calls) >= r.limit {
		return false
	}
	return true
}

func buildMoveQuest() (*quest.Quest, *model.Object, *model.Object, *model.Relation) {
	roomTy := &model.Type{ID: 0, Name: "Room"}
	atRel := &model.Relation{ID: 0, Name: "at", ArgTypes: []*model.Type{roomTy}}

	kitchen := &model.Object{ID: 0, Name: "kitchen", TypeSet: model.NewTypeSet(roomTy)}
	hallway := &model.Object{ID: 1, Name: "hallway", TypeSet: model.NewTypeSet(roomTy)}

	param := model.NewParam(1, "r", model.NewTypeSet(roomTy))
	pre := []*model.Statement{}
	rem := []*model.Statement{}
	add := []*model.Statement{model.NewStatement(atRel, model.ObjectVec{param})}
	moveAct := action.New("move_to", 0, false, model.ObjectVec{param}, pre, rem, add)

	goal := quest.Goal{model.NewStatement(atRel, model.ObjectVec{hallway})}
	q := quest.New("reach_hallway", 0, nil, []quest.Goal{goal}, []*action.Action{moveAct},
		model.ObjectVec{kitchen, hallway}, nil)
	return q, kitchen, hallway, atRel
}

func TestQuest_RelevanceAndLookup(t *testing.T) {
	q, kitchen, hallway, atRel := buildMoveQuest()

	assert.True(t, q.IsActionRelevant(0))
	assert.False(t, q.IsActionRelevant(99))
	assert.NotNil(t, q.GetAction(0))
	assert.Nil(t, q.GetAction(99))

	assert.True(t, q.IsObjectRelevant(kitchen.ID))
	assert.True(t, q.IsObjectRelevant(hallway.ID))
	assert.True(t, q.IsRelationRelevant(atRel.ID))
	assert.False(t, q.IsRelationRelevant(99))
}

func TestQuest_IterateOverApplicableActions(t *testing.T) {
	q, _, _, _ := buildMoveQuest()
	st := state.New(nil)

	buf := make([][]*model.Statement, len(q.Actions))
	for i, act := range q.Actions {
		buf[i] = act.NewPreBuffer()
	}

	it := &recordingIterator{}
	q.IterateOverApplicableActions(st, it, buf)
	// move_to has no preconditions, so every relevant object candidate fires.
	assert.Equal(t, []string{"move_to", "move_to"}, it.calls)
}

func TestQuest_IterateOverApplicableActions_EarlyHalt(t *testing.T) {
	q, _, _, _ := buildMoveQuest()
	st := state.New(nil)

	buf := make([][]*model.Statement, len(q.Actions))
	for i, act := range q.Actions {
		buf[i] = act.NewPreBuffer()
	}

	it := &recordingIterator{limit: 1}
	q.IterateOverApplicableActions(st, it, buf)
	assert.Len(t, it.calls, 1)
}
