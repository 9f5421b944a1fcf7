package qstatus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mozok/internal/qstatus"
)

func TestString(t *testing.T) {
	cases := []struct {
		s    qstatus.Status
		want string
	}{
		{qstatus.Inactive, "QUEST_STATUS_INACTIVE"},
		{qstatus.Done, "QUEST_STATUS_DONE"},
		{qstatus.Reachable, "QUEST_STATUS_REACHABLE"},
		{qstatus.Unreachable, "QUEST_STATUS_UNREACHABLE"},
		{qstatus.Unknown, "QUEST_STATUS_UNKNOWN"},
		{qstatus.Status(99), "QUEST_STATUS_UNKNOWN"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.s.String())
	}
}
