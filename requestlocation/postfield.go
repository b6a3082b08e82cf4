package requestlocation

import (
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/httputil"
)

// PostField collects parameters into an application/x-www-form-urlencoded
// body. When the same request also carries postFile parts, the fields are
// written into the multipart body by [PostFile] instead.
type PostField struct{}

var _ Location = PostField{}

// Visit implements Location.
func (PostField) Visit(cmd *command.Command, req *Request, param *description.Parameter) error {
	v, err := prepared(cmd, param, description.LocationPostField)
	if err != nil {
		return err
	}
	values := pendingValues(req, description.LocationPostField)
	if err := appendValues(values, param.WireName(), v, ""); err != nil {
		return handlerError(param.Name, description.LocationPostField, "cannot encode form value", err)
	}
	return nil
}

// After implements Location.
func (f PostField) After(cmd *command.Command, req *Request, op *description.Operation) error {
	if err := visitAdditional(cmd, req, op, description.LocationPostField, f.Visit); err != nil {
		return err
	}
	if len(pendingFiles(req)) > 0 {
		return nil
	}
	values := pendingValues(req, description.LocationPostField)
	if len(values) == 0 {
		return nil
	}
	req.SetBody([]byte(values.Encode()))
	req.HTTP.Header.Set(httputil.HeaderContentType, httputil.ContentTypeForm)
	return nil
}
