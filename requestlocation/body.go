package requestlocation

import (
	"fmt"
	"io"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
)

// Body uses a parameter's filtered value as the raw request body. Strings,
// []byte, io.Reader and scalars are accepted. When several body parameters
// are supplied the last one visited wins.
type Body struct{}

var _ Location = Body{}

// Visit implements Location.
func (Body) Visit(cmd *command.Command, req *Request, param *description.Parameter) error {
	v, err := prepared(cmd, param, description.LocationBody)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	data, err := bodyBytes(v)
	if err != nil {
		return handlerError(param.Name, description.LocationBody, "cannot use value as a body", err)
	}
	req.SetBody(data)
	return nil
}

// After implements Location.
func (b Body) After(cmd *command.Command, req *Request, op *description.Operation) error {
	return visitAdditional(cmd, req, op, description.LocationBody, b.Visit)
}

func bodyBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	case io.Reader:
		return io.ReadAll(t)
	}
	if coerce.IsCollection(v) {
		return nil, fmt.Errorf("%T is not a scalar, []byte or io.Reader", v)
	}
	s, err := coerce.String(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
