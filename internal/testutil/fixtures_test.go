package testutil

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

// TestUsersYAML verifies the shared fixture is well-formed YAML with the
// expected top-level sections.
func TestUsersYAML(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(UsersYAML), &doc))

	assert.Equal(t, "Users", doc["name"])
	assert.Equal(t, "https://api.example.com/v1", doc["baseUrl"])

	ops, ok := doc["operations"].(map[string]any)
	require.True(t, ok, "operations should be a mapping")
	for _, name := range []string{"GetUser", "ListUsers", "CreateUser", "UpdateUser", "UploadAvatar", "SendNote", "Echo"} {
		assert.Contains(t, ops, name)
	}

	models, ok := doc["models"].(map[string]any)
	require.True(t, ok, "models should be a mapping")
	assert.Len(t, models, 5)
}

func TestPtr(t *testing.T) {
	p := Ptr(3.5)
	require.NotNil(t, p)
	assert.Equal(t, 3.5, *p)
}

func TestWriteTempYAML(t *testing.T) {
	path := WriteTempYAML(t, map[string]any{"name": "Users"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, "Users", out["name"])
}

func TestWriteTempJSON(t *testing.T) {
	path := WriteTempJSON(t, map[string]any{"name": "Users"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Users", out["name"])
}

func TestWriteTempFile(t *testing.T) {
	path := WriteTempFile(t, "raw.txt", []byte("hello"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
