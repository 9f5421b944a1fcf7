package questmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mozok/internal/action"
	"mozok/internal/model"
	"mozok/internal/qstatus"
	"mozok/internal/quest"
	"mozok/internal/questmgr"
	"mozok/internal/state"
)

type recordingSink struct {
	statuses  []qstatus.Status
	plans     int
	searchHit int
	spaceHit  int
}

func (s *recordingSink) PushSearchLimitReached(worldName, questName string, limit int) { s.searchHit++ }
func (s *recordingSink) PushSpaceLimitReached(worldName, questName string, limit int)   { s.spaceHit++ }
func (s *recordingSink) PushNewQuestStatus(worldName, questName string, status qstatus.Status) {
	s.statuses = append(s.statuses, status)
}
func (s *recordingSink) PushNewQuestPlan(worldName, questName string, actionList []string, actionArgsList [][]string) {
	s.plans++
}

func buildReachabilityQuest() *quest.Quest {
	roomTy := &model.Type{ID: 0, Name: "Room"}
	atRel := &model.Relation{ID: 0, Name: "at", ArgTypes: []*model.Type{roomTy}}
	kitchen := &model.Object{ID: 0, Name: "kitchen", TypeSet: model.NewTypeSet(roomTy)}
	hallway := &model.Object{ID: 1, Name: "hallway", TypeSet: model.NewTypeSet(roomTy)}
	param := model.NewParam(1, "r", model.NewTypeSet(roomTy))
	moveAct := action.New("move_to", 0, false, model.ObjectVec{param}, nil, nil,
		[]*model.Statement{model.NewStatement(atRel, model.ObjectVec{param})})
	goal := quest.Goal{model.NewStatement(atRel, model.ObjectVec{hallway})}
	return quest.New("reach_hallway", 0, nil, []quest.Goal{goal}, []*action.Action{moveAct},
		model.ObjectVec{kitchen, hallway}, nil)
}

func TestManager_DefaultsAndActivate(t *testing.T) {
	q := buildReachabilityQuest()
	m := questmgr.New(q)

	assert.Equal(t, qstatus.Inactive, m.Status())
	m.Activate()
	assert.Equal(t, qstatus.Unknown, m.Status())

	// Activating again (already left Inactive) is a no-op toward Unknown.
	m.SetQuestStatus(qstatus.Done, 0)
	m.Activate()
	assert.Equal(t, qstatus.Done, m.Status())
}

func TestPerformPlanning_InactiveQuestNeverPlans(t *testing.T) {
	q := buildReachabilityQuest()
	m := questmgr.New(q)
	st := state.New(nil)
	sink := &recordingSink{}

	adopted := questmgr.PerformPlanning("w", 1, st, m, sink)
	assert.False(t, adopted)
	assert.Empty(t, sink.statuses)
}

func TestPerformPlanning_ActivatesAndAdoptsPlan(t *testing.T) {
	q := buildReachabilityQuest()
	m := questmgr.New(q)
	m.Activate()
	st := state.New(nil)
	sink := &recordingSink{}

	adopted := questmgr.PerformPlanning("w", 1, st, m, sink)
	assert.True(t, adopted)
	assert.Equal(t, qstatus.Reachable, m.Status())
	assert.Equal(t, []qstatus.Status{qstatus.Reachable}, sink.statuses)
	assert.Equal(t, 1, sink.plans)
}

func TestPerformPlanning_StaleSubstateRejected(t *testing.T) {
	q := buildReachabilityQuest()
	m := questmgr.New(q)
	m.Activate()
	st := state.New(nil)
	sink := &recordingSink{}

	questmgr.PerformPlanning("w", 5, st, m, sink)
	adopted := questmgr.PerformPlanning("w", 5, st, m, sink) // same substate, not newer
	assert.False(t, adopted)
}

func TestManager_SetOption(t *testing.T) {
	q := buildReachabilityQuest()
	m := questmgr.New(q)
	m.SetOption(questmgr.OptionSearchLimit, 42)
	m.SetOption(questmgr.OptionHeuristic, int(questmgr.HSP))
	// No getters exposed for these beyond PerformPlanning's use; this
	// just verifies SetOption doesn't panic on every known option kind.
	m.SetOption(questmgr.OptionSpaceLimit, 7)
	m.SetOption(questmgr.OptionOmega, 1)
}

func TestManager_ParentQuest(t *testing.T) {
	q := buildReachabilityQuest()
	sub := buildReachabilityQuest()
	m := questmgr.New(sub)

	assert.Nil(t, m.ParentQuest())
	assert.Equal(t, -1, m.ParentQuestGoal())

	m.SetParentQuest(q, 2)
	assert.Equal(t, q, m.ParentQuest())
	assert.Equal(t, 2, m.ParentQuestGoal())
}
