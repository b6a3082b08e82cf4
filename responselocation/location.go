package responselocation

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"net/http"
	"slices"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
)

// Result holds extracted values keyed by property name.
type Result map[string]any

// Keys returns the result keys in sorted order.
func (r Result) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Location extracts values of one location from a response.
type Location interface {
	// Visit reads param from resp into result.
	Visit(cmd *command.Command, resp *Response, param *description.Parameter, result Result) error
	// After completes the location once every property has been visited.
	After(cmd *command.Command, resp *Response, model *description.Parameter, result Result) error
}

// Defaults returns a fresh registry of the built-in handlers.
func Defaults() map[description.Location]Location {
	return map[description.Location]Location{
		description.LocationBody:         Body{},
		description.LocationHeader:       Header{},
		description.LocationJSON:         JSON{},
		description.LocationXML:          XML{},
		description.LocationStatusCode:   StatusCode{},
		description.LocationReasonPhrase: ReasonPhrase{},
	}
}

// EffectiveLocation returns the location prop is read from: its own, or
// the model's when it has none.
func EffectiveLocation(model, prop *description.Parameter) description.Location {
	if prop.Location != description.LocationNone {
		return prop.Location
	}
	return model.Location
}

// AdditionalLocation returns the location of model's additionalProperties,
// or LocationNone when the model declares none.
func AdditionalLocation(model *description.Parameter) description.Location {
	if model.AdditionalProperties == nil {
		return description.LocationNone
	}
	return EffectiveLocation(model, model.AdditionalProperties)
}

// Response is a response being read. It caches the body and decoded
// documents for a single deserialization.
type Response struct {
	HTTP *http.Response

	body     []byte
	bodyRead bool
	bodyErr  error
	cache    map[description.Location]any
}

// NewResponse wraps r.
func NewResponse(r *http.Response) *Response {
	return &Response{HTTP: r}
}

// Body reads and closes the response body on first use and returns the
// same bytes afterwards. The wrapped response's Body is replaced with a
// reader over the cached bytes.
func (r *Response) Body() ([]byte, error) {
	if r.bodyRead {
		return r.body, r.bodyErr
	}
	r.bodyRead = true
	if r.HTTP.Body == nil || r.HTTP.Body == http.NoBody {
		return nil, nil
	}
	r.body, r.bodyErr = io.ReadAll(r.HTTP.Body)
	_ = r.HTTP.Body.Close()
	r.HTTP.Body = io.NopCloser(bytes.NewReader(r.body))
	return r.body, r.bodyErr
}

// Cached returns the decoded value stored for loc.
func (r *Response) Cached(loc description.Location) (any, bool) {
	v, ok := r.cache[loc]
	return v, ok
}

// SetCached stores a decoded value for loc.
func (r *Response) SetCached(loc description.Location, v any) {
	if r.cache == nil {
		r.cache = make(map[description.Location]any)
	}
	r.cache[loc] = v
}

// claimed returns the wire names of model properties read from loc.
func claimed(model *description.Parameter, loc description.Location) map[string]bool {
	names := make(map[string]bool)
	for _, prop := range model.Properties.All() {
		if EffectiveLocation(model, prop) == loc {
			names[prop.WireName()] = true
		}
	}
	return names
}

func handlerError(param string, loc description.Location, msg string, cause error) error {
	return &codecerrors.LocationHandlerError{
		Parameter: param,
		Location:  string(loc),
		Message:   msg,
		Cause:     cause,
	}
}

// filtered runs param's filters over v, recording loc on filter errors.
func filtered(param *description.Parameter, loc description.Location, v any) (any, error) {
	out, err := param.Filter(v)
	if err != nil {
		var fe *codecerrors.FilterError
		if errors.As(err, &fe) && fe.Location == "" {
			fe.Location = string(loc)
		}
		return nil, err
	}
	return out, nil
}
