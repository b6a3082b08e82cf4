package requestlocation

import (
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
)

// prepareValue resolves v against p: defaults are applied, object keys are
// renamed to their wire names, array items and nested properties are
// prepared with their own definitions, and finally p's filters run. Children
// are therefore filtered before their parent.
func prepareValue(p *description.Parameter, v any) (any, error) {
	v = p.Value(v)
	if v == nil {
		return nil, nil
	}

	if m, ok := coerce.Map(v); ok && isObject(p) {
		out := make(map[string]any, len(m))
		for _, key := range coerce.SortedKeys(m) {
			child, wire := childFor(p, key)
			if child == nil {
				out[wire] = m[key]
				continue
			}
			cv, err := prepareValue(child, m[key])
			if err != nil {
				return nil, err
			}
			out[wire] = cv
		}
		for name, prop := range p.Properties.All() {
			if _, supplied := m[name]; supplied || !prop.HasValue() {
				continue
			}
			cv, err := prepareValue(prop, nil)
			if err != nil {
				return nil, err
			}
			out[prop.WireName()] = cv
		}
		v = out
	} else if items, ok := coerce.Slice(v); ok && p.Items != nil {
		out := make([]any, len(items))
		for i, item := range items {
			cv, err := prepareValue(p.Items, item)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		v = out
	}

	return p.Filter(v)
}

func isObject(p *description.Parameter) bool {
	return p.Type == "object" || p.Properties.Len() > 0 || p.AdditionalProperties != nil
}

// childFor returns the definition and wire name for key of an object value.
func childFor(p *description.Parameter, key string) (*description.Parameter, string) {
	if prop, ok := p.Property(key); ok {
		return prop, prop.WireName()
	}
	if p.AdditionalProperties != nil {
		return p.AdditionalProperties, key
	}
	return nil, key
}
