package requestlocation

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
)

// Location places values of one parameter location on a request.
type Location interface {
	// Visit places the command's value for param.
	Visit(cmd *command.Command, req *Request, param *description.Parameter) error
	// After completes the location once every parameter has been visited.
	After(cmd *command.Command, req *Request, op *description.Operation) error
}

// Defaults returns a fresh registry of the built-in handlers.
func Defaults() map[description.Location]Location {
	return map[description.Location]Location{
		description.LocationBody:      Body{},
		description.LocationQuery:     Query{},
		description.LocationHeader:    Header{},
		description.LocationJSON:      JSON{},
		description.LocationXML:       XML{},
		description.LocationPostField: PostField{},
		description.LocationPostFile:  PostFile{},
	}
}

// Request is a request under construction. It carries the state handlers
// accumulate between Visit and After for a single serialization.
type Request struct {
	HTTP *http.Request

	pending    map[description.Location]any
	additional map[description.Location]bool
}

// NewRequest wraps r.
func NewRequest(r *http.Request) *Request {
	return &Request{HTTP: r}
}

// Pending returns the value accumulated for loc, or nil.
func (r *Request) Pending(loc description.Location) any {
	return r.pending[loc]
}

// SetPending stores the accumulated value for loc.
func (r *Request) SetPending(loc description.Location, v any) {
	if r.pending == nil {
		r.pending = make(map[description.Location]any)
	}
	r.pending[loc] = v
}

// SetBody replaces the request body with body.
func (r *Request) SetBody(body []byte) {
	r.HTTP.Body = io.NopCloser(bytes.NewReader(body))
	r.HTTP.ContentLength = int64(len(body))
	r.HTTP.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}

// visitFunc matches Location.Visit.
type visitFunc func(cmd *command.Command, req *Request, param *description.Parameter) error

// visitAdditional visits every command value op does not declare, using
// op.AdditionalParameters as the definition, when that definition targets
// loc. Later calls for the same loc and req do nothing.
func visitAdditional(cmd *command.Command, req *Request, op *description.Operation, loc description.Location, visit visitFunc) error {
	ap := op.AdditionalParameters
	if ap == nil || ap.Location != loc || req.additional[loc] {
		return nil
	}
	if req.additional == nil {
		req.additional = make(map[description.Location]bool)
	}
	req.additional[loc] = true
	for _, name := range cmd.Names() {
		if op.HasParam(name) {
			continue
		}
		p := *ap
		p.Name = name
		p.SentAs = ""
		if err := visit(cmd, req, &p); err != nil {
			return err
		}
	}
	return nil
}

// targets reports whether op's additionalParameters use loc.
func targets(op *description.Operation, loc description.Location) bool {
	return op.AdditionalParameters != nil && op.AdditionalParameters.Location == loc
}

// prepared returns param's filtered, recursively resolved value from cmd.
func prepared(cmd *command.Command, param *description.Parameter, loc description.Location) (any, error) {
	v, err := prepareValue(param, cmd.Value(param.Name))
	if err != nil {
		var fe *codecerrors.FilterError
		if errors.As(err, &fe) && fe.Location == "" {
			fe.Location = string(loc)
		}
		return nil, err
	}
	return v, nil
}

func handlerError(param string, loc description.Location, msg string, cause error) error {
	return &codecerrors.LocationHandlerError{
		Parameter: param,
		Location:  string(loc),
		Message:   msg,
		Cause:     cause,
	}
}
