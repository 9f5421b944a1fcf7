package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mozok/internal/logging"
)

func writeDebugConfig(t *testing.T, ws, level string, jsonFormat bool) {
	t.Helper()
	dir := filepath.Join(ws, ".mozok")
	require.NoError(t, os.MkdirAll(dir, 0755))
	body := `{"logging":{"debug_mode":true,"level":"` + level + `","json_format":` + boolStr(jsonFormat) + `}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0644))
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func readLogFile(t *testing.T, ws string, category logging.Category) string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(ws, ".mozok", "logs"))
	require.NoError(t, err)
	for _, e := range entries {
		if strings.Contains(e.Name(), string(category)) {
			data, err := os.ReadFile(filepath.Join(ws, ".mozok", "logs", e.Name()))
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("no log file found for category %s", category)
	return ""
}

func TestInitialize_NoConfigIsNoop(t *testing.T) {
	defer logging.CloseAll()
	ws := t.TempDir()

	require.NoError(t, logging.Initialize(ws))
	assert.False(t, logging.IsDebugMode())

	_, err := os.Stat(filepath.Join(ws, ".mozok", "logs"))
	assert.True(t, os.IsNotExist(err))

	// A no-op logger must never panic.
	logging.Get(logging.CategoryBoot).Info("should not be written")
}

func TestInitialize_RequiresWorkspace(t *testing.T) {
	assert.Error(t, logging.Initialize(""))
}

func TestInitialize_DebugModeWritesLogs(t *testing.T) {
	defer logging.CloseAll()
	ws := t.TempDir()
	writeDebugConfig(t, ws, "info", false)

	require.NoError(t, logging.Initialize(ws))
	assert.True(t, logging.IsDebugMode())

	logging.Boot("hello %s", "world")
	logging.CloseAll()

	content := readLogFile(t, ws, logging.CategoryBoot)
	assert.Contains(t, content, "hello world")
}

func TestLogger_LevelGating(t *testing.T) {
	defer logging.CloseAll()
	ws := t.TempDir()
	writeDebugConfig(t, ws, "warn", false)
	require.NoError(t, logging.Initialize(ws))

	logging.ServerDebug("debug line")
	logging.Server("info line")
	logging.ServerWarn("warn line")
	logging.CloseAll()

	content := readLogFile(t, ws, logging.CategoryServer)
	assert.NotContains(t, content, "debug line")
	assert.NotContains(t, content, "info line")
	assert.Contains(t, content, "warn line")
}

func TestLogger_JSONFormat(t *testing.T) {
	defer logging.CloseAll()
	ws := t.TempDir()
	writeDebugConfig(t, ws, "debug", true)
	require.NoError(t, logging.Initialize(ws))

	logging.WorldDebug("structured %d", 7)
	logging.CloseAll()

	content := readLogFile(t, ws, logging.CategoryWorld)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	last := lines[len(lines)-1]
	// The standard log prefix (date/time) precedes the JSON payload; find it.
	idx := strings.Index(last, "{")
	require.GreaterOrEqual(t, idx, 0)

	var entry logging.StructuredLogEntry
	require.NoError(t, json.Unmarshal([]byte(last[idx:]), &entry))
	assert.Equal(t, "debug", entry.Level)
	assert.Contains(t, entry.Message, "structured 7")
}

func TestTimer_StopReturnsNonNegativeDuration(t *testing.T) {
	defer logging.CloseAll()
	ws := t.TempDir()
	require.NoError(t, logging.Initialize(ws))

	timer := logging.StartTimer(logging.CategoryPlanner, "search")
	elapsed := timer.Stop()
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}
