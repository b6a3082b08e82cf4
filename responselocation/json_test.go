package responselocation

import (
	"net/http"
	"testing"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/description"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userModel() *description.Parameter {
	return model(description.LocationJSON,
		&description.Parameter{Name: "id", Type: "integer"},
		&description.Parameter{Name: "name", Type: "string"},
		&description.Parameter{Name: "email", Type: "string", SentAs: "email_address"},
		&description.Parameter{Name: "status", Location: description.LocationStatusCode},
	)
}

func TestJSONVisit(t *testing.T) {
	body := `{"id": 7, "name": "Ada", "email_address": "ada@example.com", "extra": true}`

	result, err := deserialize(t, userModel(), newTestResponse(http.StatusOK, body, nil))
	require.NoError(t, err)
	assert.Equal(t, Result{
		"id":     int64(7),
		"name":   "Ada",
		"email":  "ada@example.com",
		"status": 200,
	}, result)
}

func TestJSONTypeConversion(t *testing.T) {
	tests := []struct {
		name     string
		param    *description.Parameter
		body     string
		expected any
	}{
		{"integer from string", &description.Parameter{Name: "v", Type: "integer"}, `{"v": "12"}`, int64(12)},
		{"number keeps fraction", &description.Parameter{Name: "v", Type: "number"}, `{"v": 1.5}`, 1.5},
		{"string keeps number text", &description.Parameter{Name: "v", Type: "string"}, `{"v": 10.50}`, "10.50"},
		{"boolean from string", &description.Parameter{Name: "v", Type: "boolean"}, `{"v": "true"}`, true},
		{"untyped integer", &description.Parameter{Name: "v"}, `{"v": 3}`, int64(3)},
		{"untyped float", &description.Parameter{Name: "v"}, `{"v": 3.25}`, 3.25},
		{"null stays nil", &description.Parameter{Name: "v", Type: "string", Filters: []string{"uppercase"}}, `{"v": null}`, nil},
		{"filters after conversion", &description.Parameter{Name: "v", Type: "string", Filters: []string{"uppercase"}}, `{"v": "abc"}`, "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := deserialize(t, model(description.LocationJSON, tt.param), newTestResponse(http.StatusOK, tt.body, nil))
			require.NoError(t, err)
			assert.Contains(t, result, "v")
			assert.Equal(t, tt.expected, result["v"])
		})
	}
}

func TestJSONNestedShapes(t *testing.T) {
	user := &description.Parameter{
		Type: "object",
		Properties: description.NewParams(
			&description.Parameter{Name: "id", Type: "integer"},
			&description.Parameter{Name: "email", SentAs: "email_address", Filters: []string{"lowercase"}},
		),
	}
	m := model(description.LocationJSON,
		&description.Parameter{Name: "users", SentAs: "data", Type: "array", Items: user},
		&description.Parameter{Name: "total", Type: "integer"},
		&description.Parameter{Name: "meta", Type: "object"},
	)
	body := `{
		"data": [{"id": "1", "email_address": "A@X.IO", "role": "admin"}, {"id": 2}],
		"total": 2,
		"meta": {"page": 1, "tags": ["a", 2.5]}
	}`

	result, err := deserialize(t, m, newTestResponse(http.StatusOK, body, nil))
	require.NoError(t, err)
	assert.Equal(t, Result{
		"users": []any{
			map[string]any{"id": int64(1), "email": "a@x.io", "role": "admin"},
			map[string]any{"id": int64(2)},
		},
		"total": int64(2),
		"meta":  map[string]any{"page": int64(1), "tags": []any{"a", 2.5}},
	}, result)
}

func TestJSONAdditionalProperties(t *testing.T) {
	m := userModel()
	m.AdditionalProperties = &description.Parameter{Filters: []string{"string"}}
	body := `{"id": 7, "name": "Ada", "score": 9, "nickname": "ada"}`

	result, err := deserialize(t, m, newTestResponse(http.StatusOK, body, nil))
	require.NoError(t, err)
	assert.Equal(t, "9", result["score"])
	assert.Equal(t, "ada", result["nickname"])
	assert.Equal(t, int64(7), result["id"])
	assert.NotContains(t, result, "email")
}

func TestJSONEmptyAndNonObjectBodies(t *testing.T) {
	for _, body := range []string{"", "   ", `[1, 2]`, `"text"`} {
		result, err := deserialize(t, userModel(), newTestResponse(http.StatusOK, body, nil))
		require.NoError(t, err, body)
		assert.Equal(t, Result{"status": 200}, result, body)
	}
}

func TestJSONInvalidBody(t *testing.T) {
	_, err := deserialize(t, userModel(), newTestResponse(http.StatusOK, `{"id":`, nil))
	var he *codecerrors.LocationHandlerError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "json", he.Location)
	assert.Equal(t, "id", he.Parameter)
}

func TestJSONConversionError(t *testing.T) {
	m := model(description.LocationJSON, &description.Parameter{Name: "id", Type: "integer"})
	_, err := deserialize(t, m, newTestResponse(http.StatusOK, `{"id": "seven"}`, nil))
	var he *codecerrors.LocationHandlerError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "id", he.Parameter)
}

func TestJSONDocumentIsCached(t *testing.T) {
	resp := newTestResponse(http.StatusOK, `{"id": 1}`, nil)
	first, err := jsonDocument(resp)
	require.NoError(t, err)

	resp.HTTP.Body = nil
	second, err := jsonDocument(resp)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
