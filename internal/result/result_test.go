package result_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mozok/internal/result"
)

func TestOK(t *testing.T) {
	r := result.OK()
	assert.True(t, r.IsOK())
	assert.False(t, r.IsError())
	assert.Empty(t, r.Description())
}

func TestError(t *testing.T) {
	r := result.Error("boom")
	assert.False(t, r.IsOK())
	assert.True(t, r.IsError())
	assert.Contains(t, r.Description(), "boom")
}

func TestErrorf(t *testing.T) {
	r := result.Errorf("bad %s: %d", "thing", 42)
	assert.True(t, r.IsError())
	assert.Contains(t, r.Description(), "bad thing: 42")
}

func TestCombine_bothOK(t *testing.T) {
	r := result.OK().Combine(result.OK())
	assert.True(t, r.IsOK())
}

func TestCombine_errorWins(t *testing.T) {
	r := result.OK().Combine(result.Error("first")).Combine(result.Error("second"))
	assert.True(t, r.IsError())
	assert.Contains(t, r.Description(), "first")
	assert.Contains(t, r.Description(), "second")
	// oldest first
	assert.Less(t, strings.Index(r.Description(), "first"), strings.Index(r.Description(), "second"))
}

func TestCombine_okIntoErrorStaysError(t *testing.T) {
	r := result.Error("oops").Combine(result.OK())
	assert.True(t, r.IsError())
	assert.Contains(t, r.Description(), "oops")
}

func TestErrorInterface(t *testing.T) {
	var err error = result.Error("wrapped")
	assert.Contains(t, err.Error(), "wrapped")
}

func TestWellKnownConstructors(t *testing.T) {
	assert.True(t, result.WorldAlreadyExists("srv", "w").IsError())
	assert.True(t, result.UndefinedType("w", "Foo").IsError())
	assert.True(t, result.ActionArgErrorInvalidArity("act", 2, 1).IsError())
	assert.Contains(t, result.CantApplyNAAction("w", "act").Description(), "N/A")
}
