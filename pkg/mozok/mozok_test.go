package mozok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mozok/internal/result"
	"mozok/pkg/mozok"
)

const doorProject = `version 1 0
project demo
type Room
object kitchen: Room
object hallway: Room
rel At(Room)
action Move_to
    r:Room
    add:
        At(r)
main_quest REACH_HALLWAY
    goal:
        At(hallway)
    actions:
        Move_to
    objects:
        Room
`

type memFS struct{ files map[string]string }

func (m memFS) GetTextFile(path string) (string, result.Result) {
	src, ok := m.files[path]
	if !ok {
		return "", result.Errorf("no such file '%s'", path)
	}
	return src, result.OK()
}

func TestShim_EndToEndPushAndPlan(t *testing.T) {
	s := mozok.CreateServer("srv")
	require.True(t, s.CreateWorld("w1").IsOK())

	loader := mozok.NewLoader(memFS{files: map[string]string{"demo.quest": doorProject}})
	require.True(t, s.AddProject(loader, "w1", "demo.quest", "").IsOK())

	s.PushAction("w1", "Move_to", []string{"hallway"})
	s.Update()

	assert.Equal(t, mozok.StatusDone, s.QuestStatus("w1", "REACH_HALLWAY"))
}

func TestShim_ActionStatusConstants(t *testing.T) {
	s := mozok.CreateServer("srv")
	require.True(t, s.CreateWorld("w1").IsOK())

	loader := mozok.NewLoader(memFS{files: map[string]string{"demo.quest": doorProject}})
	require.True(t, s.AddProject(loader, "w1", "demo.quest", "").IsOK())

	assert.Equal(t, mozok.ActionApplicable, s.GetActionStatus("w1", "Move_to", []string{"hallway"}))
	assert.Equal(t, mozok.ActionUndefined, s.GetActionStatus("w1", "bogus", nil))
}

func TestShim_ParseScriptHeader(t *testing.T) {
	h, res := mozok.ParseScriptHeader("demo.qsf", "version 1 0\nscript s\nworlds:\n    w1\n")
	require.True(t, res.IsOK())
	assert.Equal(t, "s", h.Name)
	assert.Equal(t, []string{"w1"}, h.Worlds)
}
