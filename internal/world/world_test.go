package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mozok/internal/action"
	"mozok/internal/message"
	"mozok/internal/qstatus"
	"mozok/internal/world"
)

// buildDoorWorld defines a tiny two-room world: a Room type, two room
// objects, an "at" relation, a move_to action, and a main quest whose
// single goal is reaching the hallway.
func buildDoorWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New("srv", "w1")

	require.True(t, w.AddType("Room", nil).IsOK())
	require.True(t, w.AddObject("kitchen", []string{"Room"}).IsOK())
	require.True(t, w.AddObject("hallway", []string{"Room"}).IsOK())
	require.True(t, w.AddRelation("at", []string{"Room"}).IsOK())

	require.True(t, w.AddAction(
		"move_to", nil, false,
		[][]string{{"r", "Room"}},
		nil,
		nil,
		[][]string{{"at", "r"}},
	).IsOK())

	require.True(t, w.AddQuest(
		"reach_hallway", true,
		nil,
		[][][]string{{{"at", "hallway"}}},
		[]string{"move_to"},
		[]string{"Room"},
		nil,
	).IsOK())

	return w
}

func TestWorld_DefinitionDuplicatesRejected(t *testing.T) {
	w := buildDoorWorld(t)
	assert.True(t, w.AddType("Room", nil).IsError())
	assert.True(t, w.AddObject("kitchen", []string{"Room"}).IsError())
	assert.True(t, w.AddRelation("at", []string{"Room"}).IsError())
}

func TestWorld_CheckAction(t *testing.T) {
	w := buildDoorWorld(t)

	res := w.CheckAction(false, "move_to", []string{"hallway"})
	assert.True(t, res.IsOK())

	res = w.CheckAction(false, "move_to", []string{"hallway", "kitchen"})
	assert.True(t, res.IsError())

	res = w.CheckAction(false, "undefined_action", []string{"hallway"})
	assert.True(t, res.IsError())
}

func TestWorld_ApplyActionActivatesAndCompletesQuest(t *testing.T) {
	w := buildDoorWorld(t)
	sink := message.NewQueue()

	// Preconditions for "reach_hallway" are empty, but main quests are
	// only activated after an action is applied, so it starts Inactive;
	// Done requires the goal statement in state.
	assert.Equal(t, qstatus.Inactive, w.QuestStatus("reach_hallway"))

	res, errKind := w.ApplyAction("move_to", []string{"hallway"}, sink)
	require.True(t, res.IsOK())
	assert.Equal(t, action.NoError, errKind)

	w.PerformPlanning(sink)
	assert.Equal(t, qstatus.Done, w.QuestStatus("reach_hallway"))
}

func TestWorld_ApplyAction_UndefinedAction(t *testing.T) {
	w := buildDoorWorld(t)
	sink := message.NewQueue()

	res, errKind := w.ApplyAction("nope", []string{"hallway"}, sink)
	assert.True(t, res.IsError())
	assert.Equal(t, action.UndefinedAction, errKind)
}

func TestWorld_ApplyAction_UndefinedObject(t *testing.T) {
	w := buildDoorWorld(t)
	sink := message.NewQueue()

	res, errKind := w.ApplyAction("move_to", []string{"nowhere"}, sink)
	assert.True(t, res.IsError())
	assert.Equal(t, action.UndefinedObject, errKind)
}

func TestWorld_GenerateSaveFileContainsState(t *testing.T) {
	w := buildDoorWorld(t)
	sink := message.NewQueue()
	_, _ = w.ApplyAction("move_to", []string{"hallway"}, sink)

	save := w.GenerateSaveFile()
	assert.Contains(t, save, "action Load:")
	assert.Contains(t, save, "at(hallway)")
	assert.Contains(t, save, "status reach_hallway")
}

func TestWorld_ActionGroupGrantsMembership(t *testing.T) {
	w := world.New("srv", "w2")
	require.True(t, w.AddType("Room", nil).IsOK())
	require.True(t, w.AddObject("kitchen", []string{"Room"}).IsOK())
	require.True(t, w.AddRelation("open", []string{"Room"}).IsOK())
	require.True(t, w.AddActionGroup("Movement").IsOK())

	require.True(t, w.AddAction(
		"open_door", []string{"Movement"}, false,
		[][]string{{"r", "Room"}}, nil, nil, [][]string{{"open", "r"}},
	).IsOK())

	// A quest granted the whole "Movement" group (capitalized name) can
	// use open_door without naming it directly.
	res := w.AddQuest("use_group", true, nil, [][][]string{{{"open", "kitchen"}}},
		[]string{"Movement"}, []string{"Room"}, nil)
	assert.True(t, res.IsOK())
}

func TestWorld_QuestActionMustBeLocal(t *testing.T) {
	w := world.New("srv", "w3")
	require.True(t, w.AddType("Room", nil).IsOK())
	require.True(t, w.AddObject("kitchen", []string{"Room"}).IsOK())
	require.True(t, w.AddRelation("open", []string{"Room"}).IsOK())

	// A global action (refers to a concrete object, not just its own
	// parameters) cannot be granted to a quest.
	require.True(t, w.AddAction(
		"open_kitchen", nil, false,
		nil, nil, nil, [][]string{{"open", "kitchen"}},
	).IsOK())

	res := w.AddQuest("bad_quest", true, nil, nil, []string{"open_kitchen"}, nil, nil)
	assert.True(t, res.IsError())
}
