package requestlocation

import (
	"testing"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/description"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	tests := []struct {
		name     string
		param    *description.Parameter
		value    any
		header   string
		expected string
	}{
		{"scalar", &description.Parameter{Name: "trace", SentAs: "X-Trace-Id"}, "abc", "X-Trace-Id", "abc"},
		{"integer", &description.Parameter{Name: "X-Count"}, 3, "X-Count", "3"},
		{"array default delimiter", &description.Parameter{Name: "Accept"}, []any{"a/b", "c/d"}, "Accept", "a/b, c/d"},
		{"array custom delimiter", &description.Parameter{Name: "X-Ids", Delimiter: ";"}, []int{1, 2}, "X-Ids", "1;2"},
		{"filters", &description.Parameter{Name: "X-Mode", Filters: []string{"uppercase"}}, "fast", "X-Mode", "FAST"},
		{"static default", &description.Parameter{Name: "X-Api-Version", Static: true, Default: "2024"}, "ignored", "X-Api-Version", "2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := serialize(t, Header{}, opWith(tt.param), map[string]any{tt.param.Name: tt.value}, tt.param)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req.HTTP.Header.Get(tt.header))
		})
	}
}

func TestHeaderNilIsSkipped(t *testing.T) {
	p := &description.Parameter{Name: "X-Opt"}
	req, err := serialize(t, Header{}, opWith(p), map[string]any{"X-Opt": nil}, p)
	require.NoError(t, err)
	_, present := req.HTTP.Header["X-Opt"]
	assert.False(t, present)
}

func TestHeaderRejectsObjects(t *testing.T) {
	p := &description.Parameter{Name: "X-Obj"}
	_, err := serialize(t, Header{}, opWith(p), map[string]any{"X-Obj": map[string]any{"a": 1}}, p)
	require.Error(t, err)

	var he *codecerrors.LocationHandlerError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "X-Obj", he.Parameter)
	assert.Equal(t, "header", he.Location)
}

func TestHeaderAdditionalParameters(t *testing.T) {
	op := opWith()
	op.AdditionalParameters = &description.Parameter{Location: description.LocationHeader}
	req, err := serialize(t, Header{}, op, map[string]any{"X-Extra": "1"})
	require.NoError(t, err)
	assert.Equal(t, "1", req.HTTP.Header.Get("X-Extra"))
}
