package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"mozok/internal/fs"
)

func TestOS_GetTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.quest")
	content := "version 1 0\nproject demo\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var system fs.FileSystem = fs.OS{}
	got, res := system.GetTextFile(path)
	assert.True(t, res.IsOK())
	assert.Equal(t, content, got)
}

func TestOS_GetTextFile_MissingFile(t *testing.T) {
	var system fs.FileSystem = fs.OS{}
	_, res := system.GetTextFile("/nonexistent/path/does-not-exist.quest")
	assert.True(t, res.IsError())
}
