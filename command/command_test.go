package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	src := map[string]any{"id": 42, "name": "Ann", "note": nil}
	cmd := New("GetUser", src)

	assert.Equal(t, "GetUser", cmd.Name())
	assert.Equal(t, 3, cmd.Len())
	assert.Equal(t, []string{"id", "name", "note"}, cmd.Names())

	assert.True(t, cmd.HasParam("id"))
	assert.True(t, cmd.HasParam("note"), "nil values still count as supplied")
	assert.False(t, cmd.HasParam("missing"))

	v, ok := cmd.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Ann", v)
	assert.Equal(t, 42, cmd.Value("id"))
	assert.Nil(t, cmd.Value("missing"))

	src["id"] = 7
	assert.Equal(t, 42, cmd.Value("id"), "constructor copies its input")

	params := cmd.Params()
	params["id"] = 9
	assert.Equal(t, 42, cmd.Value("id"), "Params returns a copy")
}

func TestCommandWith(t *testing.T) {
	cmd := New("GetUser", map[string]any{"id": 1})
	next := cmd.With("trace", "abc")

	assert.False(t, cmd.HasParam("trace"))
	assert.Equal(t, "abc", next.Value("trace"))
	assert.Equal(t, 1, next.Value("id"))
	assert.Equal(t, "GetUser", next.Name())
}

func TestEmptyCommand(t *testing.T) {
	cmd := New("Ping", nil)
	assert.Equal(t, 0, cmd.Len())
	assert.Empty(t, cmd.Names())
	assert.NotNil(t, cmd.Params())
}
