package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mozok/internal/parser"
	"mozok/internal/result"
	"mozok/internal/world"
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

func TestAddProject_ValidSource(t *testing.T) {
	w := world.New("srv", "w1")
	res := parser.AddProject(w, "demo.quest", doorProject)
	require.True(t, res.IsOK(), res.Description())

	assert.True(t, w.CheckAction(false, "Move_to", []string{"hallway"}).IsOK())
}

func TestAddProject_UnrecognizedTopLevel(t *testing.T) {
	w := world.New("srv", "w1")
	res := parser.AddProject(w, "bad.quest", "version 1 0\nproject demo\nbogus thing\n")
	assert.True(t, res.IsError())
}

func TestAddProject_UnsupportedVersion(t *testing.T) {
	w := world.New("srv", "w1")
	res := parser.AddProject(w, "bad.quest", "version 2 0\nproject demo\n")
	assert.True(t, res.IsError())
}

const doorScript = `version 1 0
script demo_script
worlds:
    w1
projects:
    [w1] demo.quest
init:
    [w1] Move_to(hallway)
`

func TestParseScriptHeader(t *testing.T) {
	h, res := parser.ParseScriptHeader("demo.qsf", doorScript)
	require.True(t, res.IsOK(), res.Description())

	assert.Equal(t, "demo_script", h.Name)
	assert.Equal(t, []string{"w1"}, h.Worlds)
	require.Len(t, h.Projects, 1)
	assert.Equal(t, parser.WorldFile{World: "w1", Path: "demo.quest"}, h.Projects[0])
	require.Len(t, h.InitActions, 1)
	assert.Equal(t, "Move_to", h.InitActions[0].Action)
	assert.Equal(t, []string{"hallway"}, h.InitActions[0].Arguments)
}

func TestParseScriptHeader_StopsAtDebugSection(t *testing.T) {
	src := doorScript + "debug:\n    something\n"
	h, res := parser.ParseScriptHeader("demo.qsf", src)
	require.True(t, res.IsOK(), res.Description())
	assert.Equal(t, "demo_script", h.Name)
}

type memFS struct {
	files map[string]string
}

func (m memFS) GetTextFile(path string) (string, result.Result) {
	src, ok := m.files[path]
	if !ok {
		return "", result.Errorf("no such file '%s'", path)
	}
	return src, result.OK()
}

func TestLoader_AddProject(t *testing.T) {
	fsys := memFS{files: map[string]string{"demo.quest": doorProject}}
	ld := parser.NewLoader(fsys)
	w := world.New("srv", "w1")

	res := ld.AddProject(w, "demo.quest", "")
	require.True(t, res.IsOK(), res.Description())
	assert.True(t, w.CheckAction(false, "Move_to", []string{"kitchen"}).IsOK())
}

func TestLoader_AddProject_MissingFile(t *testing.T) {
	ld := parser.NewLoader(memFS{files: map[string]string{}})
	w := world.New("srv", "w1")

	res := ld.AddProject(w, "missing.quest", "some/dir")
	assert.True(t, res.IsError())
}

func TestLoader_ParseScript(t *testing.T) {
	ld := parser.NewLoader(memFS{})
	plan, res := ld.ParseScript("demo.qsf", doorScript)
	require.True(t, res.IsOK(), res.Description())

	assert.Equal(t, []string{"w1"}, plan.Worlds)
	require.Len(t, plan.Projects, 1)
	assert.Equal(t, "w1", plan.Projects[0].World)
	assert.Equal(t, "demo.quest", plan.Projects[0].Path)
	require.Len(t, plan.InitActions, 1)
	assert.Equal(t, "Move_to", plan.InitActions[0].Action)
	assert.Equal(t, []string{"hallway"}, plan.InitActions[0].Arguments)
}
