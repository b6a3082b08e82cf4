package mcpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []int
	}{
		{"first page", 0, 3, []int{0, 1, 2}},
		{"middle page", 3, 3, []int{3, 4, 5}},
		{"last partial page", 8, 3, []int{8, 9}},
		{"offset past end", 10, 3, nil},
		{"negative offset", -1, 3, nil},
		{"default limit", 0, 0, items},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_ClampsToMaxLimit(t *testing.T) {
	old := cfg.MaxLimit
	cfg.MaxLimit = 2
	t.Cleanup(func() { cfg.MaxLimit = old })

	assert.Equal(t, []string{"a", "b"}, paginate([]string{"a", "b", "c"}, 0, 50))
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, sanitizeError(nil))
	assert.Equal(t,
		"open <path>: no such file or directory",
		sanitizeError(errors.New("open /home/dev/specs/users.yaml: no such file or directory")))
	assert.Equal(t, "operation is required", sanitizeError(errors.New("operation is required")))
}

func TestValidateGlobPattern(t *testing.T) {
	assert.NoError(t, validateGlobPattern(""))
	assert.NoError(t, validateGlobPattern("GetUser"))
	assert.NoError(t, validateGlobPattern("Get*"))
	assert.Error(t, validateGlobPattern("Get[User"))
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "GetUser", true},
		{"GetUser", "GetUser", true},
		{"getuser", "GetUser", true},
		{"Get*", "GetUser", true},
		{"*User", "CreateUser", true},
		{"Get*", "ListUsers", false},
		{"?etUser", "GetUser", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchName(tt.pattern, tt.name))
		})
	}
}
