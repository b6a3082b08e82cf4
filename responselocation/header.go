package responselocation

import (
	"net/http"
	"strings"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
)

// Header reads response headers named by property wire names. Properties
// of type array receive every value of the header, split on the property's
// delimiter when it declares one. Absent headers are left out of the result.
type Header struct{}

var _ Location = Header{}

// Visit implements Location.
func (Header) Visit(_ *command.Command, resp *Response, param *description.Parameter, result Result) error {
	values := resp.HTTP.Header.Values(param.WireName())
	if len(values) == 0 {
		return nil
	}

	var v any
	if param.Type == "array" {
		items := make([]any, 0, len(values))
		for _, value := range values {
			if param.Delimiter == "" {
				items = append(items, value)
				continue
			}
			for _, part := range strings.Split(value, param.Delimiter) {
				items = append(items, strings.TrimSpace(part))
			}
		}
		v = items
	} else {
		typed, err := coerce.ToType(strings.Join(values, ", "), param.Type)
		if err != nil {
			return handlerError(param.Name, description.LocationHeader, "cannot convert header value", err)
		}
		v = typed
	}

	v, err := filtered(param, description.LocationHeader, v)
	if err != nil {
		return err
	}
	result[param.Name] = v
	return nil
}

// After implements Location. When the model's additionalProperties read
// from headers, every header no property claimed is added under its
// canonical name.
func (Header) After(_ *command.Command, resp *Response, model *description.Parameter, result Result) error {
	if AdditionalLocation(model) != description.LocationHeader {
		return nil
	}
	taken := make(map[string]bool)
	for wire := range claimed(model, description.LocationHeader) {
		taken[http.CanonicalHeaderKey(wire)] = true
	}
	for name, values := range resp.HTTP.Header {
		key := http.CanonicalHeaderKey(name)
		if taken[key] || len(values) == 0 {
			continue
		}
		var v any = values[0]
		if len(values) > 1 {
			v = coerceStrings(values)
		}
		v, err := filtered(model.AdditionalProperties, description.LocationHeader, v)
		if err != nil {
			return err
		}
		result[key] = v
	}
	return nil
}

func coerceStrings(values []string) []any {
	out, _ := coerce.Slice(values)
	return out
}
