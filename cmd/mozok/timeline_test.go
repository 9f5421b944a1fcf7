package main

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mozok/internal/qstatus"
	"mozok/internal/result"
)

func TestTimelineRecorder_WritesOneJSONLinePerEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.jsonl")
	rec, err := newTimelineRecorder(path)
	require.NoError(t, err)

	rec.OnNewMainQuest("w1", "QUEST_A")
	rec.OnNewQuestStatus("w1", "QUEST_A", qstatus.Reachable)
	rec.OnActionError("w1", "move_to", []string{"x"}, result.Errorf("boom"), 0, 7)
	require.NoError(t, rec.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []timelineEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev timelineEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	require.Len(t, events, 3)
	assert.Equal(t, "new_main_quest", events[0].Kind)
	assert.Equal(t, "QUEST_A", events[0].Quest)
	assert.Equal(t, "quest_status", events[1].Kind)
	assert.Equal(t, "QUEST_STATUS_REACHABLE", events[1].Status)
	assert.Equal(t, "action_error", events[2].Kind)
	assert.Equal(t, "boom", events[2].Reason)
}

func TestNewTimelineRecorder_InvalidPathErrors(t *testing.T) {
	_, err := newTimelineRecorder("/nonexistent-dir/timeline.jsonl")
	assert.Error(t, err)
}
