package requestlocation

import (
	"fmt"
	"strings"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
)

// DefaultHeaderDelimiter joins array values of a header parameter that
// declares no delimiter.
const DefaultHeaderDelimiter = ", "

// Header sets one request header per parameter, named by its wire name.
type Header struct{}

var _ Location = Header{}

// Visit implements Location.
func (Header) Visit(cmd *command.Command, req *Request, param *description.Parameter) error {
	v, err := prepared(cmd, param, description.LocationHeader)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	value, err := headerValue(v, param.Delimiter)
	if err != nil {
		return handlerError(param.Name, description.LocationHeader, "cannot encode header value", err)
	}
	req.HTTP.Header.Set(param.WireName(), value)
	return nil
}

// After implements Location.
func (h Header) After(cmd *command.Command, req *Request, op *description.Operation) error {
	return visitAdditional(cmd, req, op, description.LocationHeader, h.Visit)
}

func headerValue(v any, delimiter string) (string, error) {
	if items, ok := coerce.Slice(v); ok {
		if delimiter == "" {
			delimiter = DefaultHeaderDelimiter
		}
		parts, err := coerce.Strings(items)
		if err != nil {
			return "", err
		}
		return strings.Join(parts, delimiter), nil
	}
	if _, ok := coerce.Map(v); ok {
		return "", fmt.Errorf("object values cannot be sent as a header")
	}
	return coerce.String(v)
}
