package requestlocation

import (
	"encoding/json"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/httputil"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSON collects parameters into a single JSON object body, keyed by wire
// name in the order parameters were visited.
type JSON struct{}

var _ Location = JSON{}

type jsonBody = orderedmap.OrderedMap[string, any]

// Visit implements Location.
func (JSON) Visit(cmd *command.Command, req *Request, param *description.Parameter) error {
	v, err := prepared(cmd, param, description.LocationJSON)
	if err != nil {
		return err
	}
	pendingJSON(req).Set(param.WireName(), v)
	return nil
}

// After implements Location. The Content-Type defaults to the operation's
// jsonContentType data, else application/json, and never replaces one
// already on the request. When additionalParameters target json the body is
// written even if it is empty.
func (j JSON) After(cmd *command.Command, req *Request, op *description.Operation) error {
	if err := visitAdditional(cmd, req, op, description.LocationJSON, j.Visit); err != nil {
		return err
	}
	body, _ := req.Pending(description.LocationJSON).(*jsonBody)
	if body == nil {
		if !targets(op, description.LocationJSON) {
			return nil
		}
		body = pendingJSON(req)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return handlerError("", description.LocationJSON, "cannot encode JSON body", err)
	}
	req.SetBody(data)

	contentType := op.DataString("jsonContentType")
	if contentType == "" {
		contentType = httputil.MediaTypeJSON
	}
	httputil.SetDefault(req.HTTP.Header, httputil.HeaderContentType, contentType)
	return nil
}

func pendingJSON(req *Request) *jsonBody {
	if body, ok := req.Pending(description.LocationJSON).(*jsonBody); ok {
		return body
	}
	body := orderedmap.New[string, any]()
	req.SetPending(description.LocationJSON, body)
	return body
}
