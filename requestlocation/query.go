package requestlocation

import (
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/uriutil"
)

// Query appends parameters to the request URL's query string.
type Query struct{}

var _ Location = Query{}

// Visit implements Location.
func (Query) Visit(cmd *command.Command, req *Request, param *description.Parameter) error {
	v, err := prepared(cmd, param, description.LocationQuery)
	if err != nil {
		return err
	}
	values := pendingValues(req, description.LocationQuery)
	if err := appendValues(values, param.WireName(), v, param.Delimiter); err != nil {
		return handlerError(param.Name, description.LocationQuery, "cannot encode query value", err)
	}
	return nil
}

// After implements Location. Pending pairs are appended once, after any
// query the URL already carries.
func (q Query) After(cmd *command.Command, req *Request, op *description.Operation) error {
	if err := visitAdditional(cmd, req, op, description.LocationQuery, q.Visit); err != nil {
		return err
	}
	values := pendingValues(req, description.LocationQuery)
	if len(values) == 0 {
		return nil
	}
	u := req.HTTP.URL
	u.RawQuery = uriutil.MergeQuery(u.RawQuery, values.Encode())
	return nil
}
