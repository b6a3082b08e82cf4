// Package httputil provides HTTP message helpers and constants shared by the
// location handlers.
package httputil

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// Header names
const (
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
)

// Media types written by the request-side handlers
const (
	MediaTypeJSON      = "application/json"
	MediaTypeXML       = "application/xml"
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"

	// ContentTypeForm is the full Content-Type for url-encoded bodies.
	ContentTypeForm = MediaTypeForm + "; charset=utf-8"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
)

// ValidateStatusCode reports whether code is a three-digit status code in
// the 100-599 range.
func ValidateStatusCode(code string) bool {
	if len(code) != StatusCodeLength {
		return false
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= MinStatusCode && n <= MaxStatusCode
}

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Handles wildcards (*/* and type/*) and prevents invalid combinations (*/subtype).
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}

	if strings.HasSuffix(mediaType, "/*") {
		parts := strings.Split(mediaType, "/")
		return len(parts) == 2 && parts[0] != "" && parts[0] != "*"
	}

	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}

// MediaType returns the lower-cased media type of a Content-Type value
// without parameters, or "" when it cannot be parsed.
func MediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

// IsJSON reports whether contentType denotes JSON, including "+json" types.
func IsJSON(contentType string) bool {
	mt := MediaType(contentType)
	return mt == MediaTypeJSON || strings.HasSuffix(mt, "+json")
}

// IsXML reports whether contentType denotes XML, including "+xml" types.
func IsXML(contentType string) bool {
	mt := MediaType(contentType)
	return mt == MediaTypeXML || mt == "text/xml" || strings.HasSuffix(mt, "+xml")
}

// ReasonPhrase extracts the reason phrase from a status line such as
// "404 Not Found". When status carries no phrase the standard text for code
// is returned.
func ReasonPhrase(status string, code int) string {
	if rest, ok := strings.CutPrefix(status, strconv.Itoa(code)); ok {
		if phrase := strings.TrimSpace(rest); phrase != "" {
			return phrase
		}
	}
	return http.StatusText(code)
}

// SetDefault sets key to value unless h already has a value for it.
func SetDefault(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}
