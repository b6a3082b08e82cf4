package description

import "iter"

// Operation is a named HTTP call: method, URI template and the parameters
// that make up its request, plus the model used to read its response.
type Operation struct {
	Name       string `yaml:"name,omitempty" json:"name,omitempty"`
	HTTPMethod string `yaml:"httpMethod,omitempty" json:"httpMethod,omitempty"`
	// URI is an RFC 6570 template, relative or absolute. Empty means the
	// description's base URL is used verbatim.
	URI     string `yaml:"uri,omitempty" json:"uri,omitempty"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`

	Params *Params `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	// AdditionalParameters places command values that match no declared
	// parameter. Its Location selects the handler.
	AdditionalParameters *Parameter `yaml:"additionalParameters,omitempty" json:"additionalParameters,omitempty"`

	ResponseModel string `yaml:"responseModel,omitempty" json:"responseModel,omitempty"`
	Deprecated    bool   `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// Data carries serializer hints: xmlRoot (name, namespaces),
	// xmlEncoding, xmlAllowEmpty and jsonContentType.
	Data map[string]any `yaml:"data,omitempty" json:"data,omitempty"`

	// Extends names another operation whose definition this one inherits.
	Extends string `yaml:"extends,omitempty" json:"extends,omitempty"`
}

// Param returns the declared parameter named name.
func (o *Operation) Param(name string) (*Parameter, bool) {
	return o.Params.Get(name)
}

// HasParam reports whether name is a declared parameter.
func (o *Operation) HasParam(name string) bool {
	_, ok := o.Params.Get(name)
	return ok
}

// AllParams iterates declared parameters in order.
func (o *Operation) AllParams() iter.Seq2[string, *Parameter] {
	return o.Params.All()
}

// ParamsAt returns the parameters whose location is loc, in order.
func (o *Operation) ParamsAt(loc Location) []*Parameter {
	var out []*Parameter
	for _, p := range o.Params.All() {
		if p.Location == loc {
			out = append(out, p)
		}
	}
	return out
}

// DataValue walks Data along path, returning nil when any step is missing.
func (o *Operation) DataValue(path ...string) any {
	var cur any = o.Data
	for _, key := range path {
		m, ok := asStringMap(cur)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// DataString is DataValue narrowed to a string.
func (o *Operation) DataString(path ...string) string {
	s, _ := o.DataValue(path...).(string)
	return s
}

// DataBool is DataValue narrowed to a bool.
func (o *Operation) DataBool(path ...string) bool {
	b, _ := o.DataValue(path...).(bool)
	return b
}

// DataMap is DataValue narrowed to a string-keyed map.
func (o *Operation) DataMap(path ...string) map[string]any {
	m, _ := asStringMap(o.DataValue(path...))
	return m
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

func (o *Operation) clone() *Operation {
	c := *o
	c.Params = o.Params.clone()
	c.AdditionalParameters = o.AdditionalParameters.clone()
	return &c
}
