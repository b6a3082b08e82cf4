package responselocation

import (
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
)

// Body stores the whole response body, as a string, under the property.
type Body struct{}

var _ Location = Body{}

// Visit implements Location.
func (Body) Visit(_ *command.Command, resp *Response, param *description.Parameter, result Result) error {
	data, err := resp.Body()
	if err != nil {
		return handlerError(param.Name, description.LocationBody, "cannot read response body", err)
	}
	v, err := filtered(param, description.LocationBody, string(data))
	if err != nil {
		return err
	}
	result[param.Name] = v
	return nil
}

// After implements Location.
func (Body) After(_ *command.Command, _ *Response, _ *description.Parameter, _ Result) error {
	return nil
}
