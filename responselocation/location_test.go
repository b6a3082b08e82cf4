package responselocation

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponse(status int, body string, header http.Header) *Response {
	if header == nil {
		header = make(http.Header)
	}
	return NewResponse(&http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	})
}

// deserialize visits every property of model with the default handlers,
// then calls After for each location involved.
func deserialize(t *testing.T, model *description.Parameter, resp *Response) (Result, error) {
	t.Helper()
	handlers := Defaults()
	cmd := command.New("Op", nil)
	result := make(Result)
	var order []description.Location
	seen := make(map[description.Location]bool)
	for _, prop := range model.Properties.All() {
		loc := EffectiveLocation(model, prop)
		if loc.IsNone() {
			continue
		}
		h, ok := handlers[loc]
		require.True(t, ok, "no handler for %s", loc)
		if !seen[loc] {
			seen[loc] = true
			order = append(order, loc)
		}
		if err := h.Visit(cmd, resp, prop, result); err != nil {
			return result, err
		}
	}
	if extra := AdditionalLocation(model); !extra.IsNone() && !seen[extra] {
		order = append(order, extra)
	}
	for _, loc := range order {
		if err := handlers[loc].After(cmd, resp, model, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func model(loc description.Location, props ...*description.Parameter) *description.Parameter {
	return &description.Parameter{Type: "object", Location: loc, Properties: description.NewParams(props...)}
}

func TestDefaults(t *testing.T) {
	locs := Defaults()
	assert.Len(t, locs, 6)
	for _, loc := range []description.Location{
		description.LocationBody,
		description.LocationHeader,
		description.LocationJSON,
		description.LocationXML,
		description.LocationStatusCode,
		description.LocationReasonPhrase,
	} {
		assert.Contains(t, locs, loc)
	}
	assert.NotContains(t, locs, description.LocationQuery)
}

func TestEffectiveLocation(t *testing.T) {
	m := model(description.LocationJSON)
	assert.Equal(t, description.LocationJSON, EffectiveLocation(m, &description.Parameter{Name: "a"}))
	assert.Equal(t, description.LocationHeader, EffectiveLocation(m, &description.Parameter{Name: "a", Location: description.LocationHeader}))

	assert.Equal(t, description.LocationNone, AdditionalLocation(m))
	m.AdditionalProperties = &description.Parameter{}
	assert.Equal(t, description.LocationJSON, AdditionalLocation(m))
	m.AdditionalProperties = &description.Parameter{Location: description.LocationHeader}
	assert.Equal(t, description.LocationHeader, AdditionalLocation(m))
}

func TestResponseBodyIsReadOnce(t *testing.T) {
	resp := newTestResponse(http.StatusOK, "payload", nil)

	first, err := resp.Body()
	require.NoError(t, err)
	second, err := resp.Body()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(first))
	assert.Equal(t, first, second)

	rest, err := io.ReadAll(resp.HTTP.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(rest), "wrapped body stays readable")
}

func TestResponseNilBody(t *testing.T) {
	resp := NewResponse(&http.Response{StatusCode: http.StatusNoContent, Header: http.Header{}})
	data, err := resp.Body()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestResultKeys(t *testing.T) {
	r := Result{"b": 1, "a": 2, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
}

func TestBodyStatusAndReason(t *testing.T) {
	m := model("",
		&description.Parameter{Name: "payload", Location: description.LocationBody, Filters: []string{"uppercase"}},
		&description.Parameter{Name: "code", Location: description.LocationStatusCode},
		&description.Parameter{Name: "reason", Location: description.LocationReasonPhrase},
	)
	resp := newTestResponse(http.StatusOK, "foo", nil)
	resp.HTTP.Status = "200 Everything Fine"

	result, err := deserialize(t, m, resp)
	require.NoError(t, err)
	assert.Equal(t, Result{"payload": "FOO", "code": 200, "reason": "Everything Fine"}, result)
}

func TestReasonPhraseFallsBackToStandardText(t *testing.T) {
	m := model("", &description.Parameter{Name: "reason", Location: description.LocationReasonPhrase})
	resp := newTestResponse(http.StatusNotFound, "", nil)
	resp.HTTP.Status = ""

	result, err := deserialize(t, m, resp)
	require.NoError(t, err)
	assert.Equal(t, "Not Found", result["reason"])
}

func TestFilterErrorRecordsLocation(t *testing.T) {
	m := model("", &description.Parameter{Name: "payload", Location: description.LocationBody, Filters: []string{"base64_decode"}})
	_, err := deserialize(t, m, newTestResponse(http.StatusOK, "%%%", nil))
	var fe *codecerrors.FilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "body", fe.Location)
	assert.Equal(t, "payload", fe.Parameter)
	assert.Equal(t, "base64_decode", fe.Filter)
}
