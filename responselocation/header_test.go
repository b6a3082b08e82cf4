package responselocation

import (
	"net/http"
	"testing"

	"github.com/erraggy/restcodec/description"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderVisit(t *testing.T) {
	header := http.Header{}
	header.Set("X-Request-Id", "abc")
	header.Set("X-Count", "42")
	header.Add("X-Tags", "a, b")
	header.Add("X-Tags", "c")
	header.Add("X-Multi", "one")
	header.Add("X-Multi", "two")

	tests := []struct {
		name     string
		param    *description.Parameter
		expected any
		absent   bool
	}{
		{
			name:     "string header by wire name",
			param:    &description.Parameter{Name: "requestId", SentAs: "X-Request-Id"},
			expected: "abc",
		},
		{
			name:     "wire name is case insensitive",
			param:    &description.Parameter{Name: "requestId", SentAs: "x-request-id"},
			expected: "abc",
		},
		{
			name:     "integer conversion",
			param:    &description.Parameter{Name: "count", SentAs: "X-Count", Type: "integer"},
			expected: int64(42),
		},
		{
			name:     "array splits on delimiter",
			param:    &description.Parameter{Name: "tags", SentAs: "X-Tags", Type: "array", Delimiter: ","},
			expected: []any{"a", "b", "c"},
		},
		{
			name:     "array without delimiter keeps header values",
			param:    &description.Parameter{Name: "multi", SentAs: "X-Multi", Type: "array"},
			expected: []any{"one", "two"},
		},
		{
			name:     "repeated header joined for scalars",
			param:    &description.Parameter{Name: "multi", SentAs: "X-Multi"},
			expected: "one, two",
		},
		{
			name:     "filters run on the value",
			param:    &description.Parameter{Name: "requestId", SentAs: "X-Request-Id", Filters: []string{"uppercase"}},
			expected: "ABC",
		},
		{
			name:   "absent header is skipped",
			param:  &description.Parameter{Name: "missing", SentAs: "X-Missing"},
			absent: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.param.Location = description.LocationHeader
			result, err := deserialize(t, model("", tt.param), newTestResponse(http.StatusOK, "", header.Clone()))
			require.NoError(t, err)
			if tt.absent {
				assert.NotContains(t, result, tt.param.Name)
				return
			}
			assert.Equal(t, tt.expected, result[tt.param.Name])
		})
	}
}

func TestHeaderConversionError(t *testing.T) {
	header := http.Header{}
	header.Set("X-Count", "many")
	m := model(description.LocationHeader, &description.Parameter{Name: "count", SentAs: "X-Count", Type: "integer"})

	_, err := deserialize(t, m, newTestResponse(http.StatusOK, "", header))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestHeaderAdditionalProperties(t *testing.T) {
	header := http.Header{}
	header.Set("X-Request-Id", "abc")
	header.Set("Content-Type", "text/plain")
	header.Add("Set-Cookie", "a=1")
	header.Add("Set-Cookie", "b=2")

	m := model(description.LocationHeader, &description.Parameter{Name: "requestId", SentAs: "x-request-id"})
	m.AdditionalProperties = &description.Parameter{}

	result, err := deserialize(t, m, newTestResponse(http.StatusOK, "", header))
	require.NoError(t, err)
	assert.Equal(t, Result{
		"requestId":    "abc",
		"Content-Type": "text/plain",
		"Set-Cookie":   []any{"a=1", "b=2"},
	}, result)
}

func TestHeaderWithoutAdditionalProperties(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	m := model(description.LocationHeader)

	result, err := deserialize(t, m, newTestResponse(http.StatusOK, "", header))
	require.NoError(t, err)
	assert.Empty(t, result)
}
