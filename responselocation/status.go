package responselocation

import (
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/httputil"
)

// StatusCode stores the numeric status code.
type StatusCode struct{}

var _ Location = StatusCode{}

// Visit implements Location.
func (StatusCode) Visit(_ *command.Command, resp *Response, param *description.Parameter, result Result) error {
	v, err := filtered(param, description.LocationStatusCode, resp.HTTP.StatusCode)
	if err != nil {
		return err
	}
	result[param.Name] = v
	return nil
}

// After implements Location.
func (StatusCode) After(_ *command.Command, _ *Response, _ *description.Parameter, _ Result) error {
	return nil
}

// ReasonPhrase stores the reason phrase of the status line, falling back to
// the standard text for the code.
type ReasonPhrase struct{}

var _ Location = ReasonPhrase{}

// Visit implements Location.
func (ReasonPhrase) Visit(_ *command.Command, resp *Response, param *description.Parameter, result Result) error {
	phrase := httputil.ReasonPhrase(resp.HTTP.Status, resp.HTTP.StatusCode)
	v, err := filtered(param, description.LocationReasonPhrase, phrase)
	if err != nil {
		return err
	}
	result[param.Name] = v
	return nil
}

// After implements Location.
func (ReasonPhrase) After(_ *command.Command, _ *Response, _ *description.Parameter, _ Result) error {
	return nil
}
