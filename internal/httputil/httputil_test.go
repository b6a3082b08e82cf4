package httputil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected bool
	}{
		{"ok", "200", true},
		{"lower bound", "100", true},
		{"upper bound", "599", true},
		{"below range", "099", false},
		{"above range", "600", false},
		{"wildcard", "2XX", false},
		{"too long", "2000", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateStatusCode(tt.code))
		})
	}
}

func TestIsValidMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		expected  bool
	}{
		{"application/json", true},
		{"application/vnd.api+json; charset=utf-8", true},
		{"*/*", true},
		{"application/*", true},
		{"*/json", true},
		{"/*", false},
		{"not a type", false},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidMediaType(tt.mediaType))
		})
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "application/json", MediaType("Application/JSON; charset=utf-8"))
	assert.Equal(t, "", MediaType(""))
	assert.Equal(t, "", MediaType("???"))
}

func TestIsJSONAndXML(t *testing.T) {
	assert.True(t, IsJSON("application/json"))
	assert.True(t, IsJSON("application/problem+json"))
	assert.False(t, IsJSON("text/plain"))

	assert.True(t, IsXML("application/xml; charset=utf-8"))
	assert.True(t, IsXML("text/xml"))
	assert.True(t, IsXML("application/atom+xml"))
	assert.False(t, IsXML("application/json"))
}

func TestReasonPhrase(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		code     int
		expected string
	}{
		{"standard line", "404 Not Found", 404, "Not Found"},
		{"custom phrase", "200 Everything Fine", 200, "Everything Fine"},
		{"code only", "204", 204, "No Content"},
		{"empty status", "", 201, "Created"},
		{"mismatched status", "500 Oops", 200, "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReasonPhrase(tt.status, tt.code))
		})
	}
}

func TestSetDefault(t *testing.T) {
	h := http.Header{}
	SetDefault(h, HeaderContentType, MediaTypeJSON)
	assert.Equal(t, MediaTypeJSON, h.Get(HeaderContentType))

	SetDefault(h, HeaderContentType, MediaTypeXML)
	assert.Equal(t, MediaTypeJSON, h.Get(HeaderContentType), "existing values are kept")
}
