package responselocation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
)

// JSON reads properties from a JSON object body. Nested values are shaped
// by the property definition: wire names become property names, array
// items and object properties are read with their own definitions, and
// scalars are converted to the declared type. An empty body yields no
// values.
type JSON struct{}

var _ Location = JSON{}

// Visit implements Location.
func (JSON) Visit(_ *command.Command, resp *Response, param *description.Parameter, result Result) error {
	doc, err := jsonDocument(resp)
	if err != nil {
		return handlerError(param.Name, description.LocationJSON, "cannot decode JSON body", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := obj[param.WireName()]
	if !ok {
		return nil
	}
	v, err := shapeJSON(param, raw)
	if err != nil {
		return err
	}
	result[param.Name] = v
	return nil
}

// After implements Location. Top-level keys no json property claimed are
// added when the model's additionalProperties read from json.
func (JSON) After(_ *command.Command, resp *Response, model *description.Parameter, result Result) error {
	if AdditionalLocation(model) != description.LocationJSON {
		return nil
	}
	doc, err := jsonDocument(resp)
	if err != nil {
		return handlerError("", description.LocationJSON, "cannot decode JSON body", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	taken := claimed(model, description.LocationJSON)
	for _, key := range coerce.SortedKeys(obj) {
		if taken[key] {
			continue
		}
		v, err := shapeJSON(model.AdditionalProperties, obj[key])
		if err != nil {
			return err
		}
		result[key] = v
	}
	return nil
}

// jsonDocument decodes the body once per response. Numbers are kept as
// json.Number until a definition says otherwise.
func jsonDocument(resp *Response) (any, error) {
	if cached, ok := resp.Cached(description.LocationJSON); ok {
		return cached, nil
	}
	data, err := resp.Body()
	if err != nil {
		return nil, err
	}
	var doc any
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}
	resp.SetCached(description.LocationJSON, doc)
	return doc, nil
}

// shapeJSON converts a decoded value using p, children first, then runs
// p's filters.
func shapeJSON(p *description.Parameter, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for _, key := range coerce.SortedKeys(t) {
			child, name := jsonChild(p, key)
			if child == nil {
				out[name] = plainJSON(t[key])
				continue
			}
			cv, err := shapeJSON(child, t[key])
			if err != nil {
				return nil, err
			}
			out[name] = cv
		}
		v = out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			if p.Items == nil {
				out[i] = plainJSON(item)
				continue
			}
			cv, err := shapeJSON(p.Items, item)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		v = out
	default:
		typed, err := jsonScalar(v, p.Type)
		if err != nil {
			return nil, handlerError(p.Name, description.LocationJSON, fmt.Sprintf("cannot convert value to %s", p.Type), err)
		}
		v = typed
	}
	return filtered(p, description.LocationJSON, v)
}

// jsonChild finds the definition and result name for key of an object.
func jsonChild(p *description.Parameter, key string) (*description.Parameter, string) {
	if prop, ok := p.PropertyByWireName(key); ok {
		return prop, prop.Name
	}
	if p.AdditionalProperties != nil {
		return p.AdditionalProperties, key
	}
	return nil, key
}

func jsonScalar(v any, typ string) (any, error) {
	if n, ok := v.(json.Number); ok {
		if typ == "string" {
			return n.String(), nil
		}
		v = plainNumber(n)
	}
	return coerce.ToType(v, typ)
}

// plainJSON copies an undescribed subtree, replacing json.Number values.
func plainJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		return plainNumber(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plainJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plainJSON(val)
		}
		return out
	}
	return v
}

// plainNumber prefers int64, falling back to float64.
func plainNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
