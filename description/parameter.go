package description

import (
	"fmt"
	"iter"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/filter"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.yaml.in/yaml/v4"
)

// Parameter describes one named value of an operation or model: where it
// lives on the wire, how it is named there, how it is transformed, and the
// shape of any nested value.
type Parameter struct {
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	Location    Location `yaml:"location,omitempty" json:"location,omitempty"`
	Type        string   `yaml:"type,omitempty" json:"type,omitempty"`
	SentAs      string   `yaml:"sentAs,omitempty" json:"sentAs,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`

	// Filters are filter names applied in order before Format.
	Filters []string `yaml:"filters,omitempty" json:"filters,omitempty"`
	Format  string   `yaml:"format,omitempty" json:"format,omitempty"`

	Properties *Params    `yaml:"properties,omitempty" json:"properties,omitempty"`
	Items      *Parameter `yaml:"items,omitempty" json:"items,omitempty"`
	// AdditionalProperties describes object keys with no named property.
	// In a document it may be a schema or a boolean; true decodes to an
	// empty Parameter and false to nil.
	AdditionalProperties *Parameter `yaml:"-" json:"additionalProperties,omitempty"`

	Default any  `yaml:"default,omitempty" json:"default,omitempty"`
	Static  bool `yaml:"static,omitempty" json:"static,omitempty"`

	Required  bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Enum      []any    `yaml:"enum,omitempty" json:"enum,omitempty"`
	Minimum   *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum   *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	MinLength *int     `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Delimiter joins array values of query and header parameters.
	Delimiter string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`

	// Data carries handler hints such as xmlAttribute, xmlNamespace and
	// xmlFlattened.
	Data map[string]any `yaml:"data,omitempty" json:"data,omitempty"`

	// Ref and Extends name a model whose definition this parameter reuses.
	// Both are resolved when the description is loaded.
	Ref     string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Extends string `yaml:"extends,omitempty" json:"extends,omitempty"`

	chain []namedFilter
}

type namedFilter struct {
	name string
	fn   filter.Func
}

// UnmarshalYAML decodes a parameter, accepting a boolean or a schema for
// additionalProperties.
func (p *Parameter) UnmarshalYAML(node *yaml.Node) error {
	type plain Parameter
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "additionalProperties" {
			continue
		}
		value := node.Content[i+1]
		if value.Kind == yaml.ScalarNode {
			var allowed bool
			if err := value.Decode(&allowed); err != nil {
				return fmt.Errorf("additionalProperties: %w", err)
			}
			if allowed {
				p.AdditionalProperties = &Parameter{}
			}
			continue
		}
		var child Parameter
		if err := value.Decode(&child); err != nil {
			return fmt.Errorf("additionalProperties: %w", err)
		}
		p.AdditionalProperties = &child
	}
	return nil
}

// WireName returns the name used on the wire: SentAs when set, else Name.
func (p *Parameter) WireName() string {
	if p.SentAs != "" {
		return p.SentAs
	}
	return p.Name
}

// Value returns the value to serialize for a supplied value v. Static
// parameters always yield their default; a nil v falls back to the default.
func (p *Parameter) Value(v any) any {
	if p.Static || v == nil {
		return p.Default
	}
	return v
}

// HasValue reports whether the parameter contributes a value when the
// command does not supply one.
func (p *Parameter) HasValue() bool {
	return p.Default != nil
}

// Filter applies the parameter's filters in declaration order, then its
// format. Failures are reported as *codecerrors.FilterError.
func (p *Parameter) Filter(v any) (any, error) {
	chain := p.chain
	if chain == nil && len(p.Filters) > 0 {
		var err error
		if chain, err = resolveChain(filter.Default(), p.Filters); err != nil {
			return nil, p.filterError("", err)
		}
	}
	for _, f := range chain {
		out, err := f.fn(v)
		if err != nil {
			return nil, p.filterError(f.name, err)
		}
		v = out
	}
	if p.Format != "" {
		out, err := filter.ApplyFormat(p.Format, v)
		if err != nil {
			return nil, p.filterError("format:"+p.Format, err)
		}
		v = out
	}
	return v, nil
}

func (p *Parameter) filterError(name string, cause error) error {
	return &codecerrors.FilterError{
		Parameter: p.Name,
		Location:  string(p.Location),
		Filter:    name,
		Cause:     cause,
	}
}

// ResolveFilters binds the filter names of p and its nested parameters
// against reg. Unknown names fail with *codecerrors.ConfigError.
func (p *Parameter) ResolveFilters(reg *filter.Registry) error {
	chain, err := resolveChain(reg, p.Filters)
	if err != nil {
		return &codecerrors.ConfigError{
			Option:  "filters",
			Value:   p.Name,
			Message: "parameter references an unknown filter",
			Cause:   err,
		}
	}
	p.chain = chain
	for _, child := range p.children() {
		if err := child.ResolveFilters(reg); err != nil {
			return err
		}
	}
	return nil
}

func resolveChain(reg *filter.Registry, names []string) ([]namedFilter, error) {
	fns, err := reg.Chain(names)
	if err != nil {
		return nil, err
	}
	chain := make([]namedFilter, len(fns))
	for i, fn := range fns {
		chain[i] = namedFilter{name: names[i], fn: fn}
	}
	return chain, nil
}

// Property returns the named child property.
func (p *Parameter) Property(name string) (*Parameter, bool) {
	return p.Properties.Get(name)
}

// PropertyByWireName returns the child property whose wire name is wire.
func (p *Parameter) PropertyByWireName(wire string) (*Parameter, bool) {
	for _, child := range p.Properties.All() {
		if child.WireName() == wire {
			return child, true
		}
	}
	return nil, false
}

// DataBool returns a boolean hint from Data.
func (p *Parameter) DataBool(key string) bool {
	b, _ := p.Data[key].(bool)
	return b
}

// DataString returns a string hint from Data.
func (p *Parameter) DataString(key string) string {
	s, _ := p.Data[key].(string)
	return s
}

func (p *Parameter) children() []*Parameter {
	var out []*Parameter
	for _, child := range p.Properties.All() {
		out = append(out, child)
	}
	if p.Items != nil {
		out = append(out, p.Items)
	}
	if p.AdditionalProperties != nil {
		out = append(out, p.AdditionalProperties)
	}
	return out
}

// clone returns a deep copy of p's structure. Default, Enum and Data values
// are shared; they are never mutated after load.
func (p *Parameter) clone() *Parameter {
	if p == nil {
		return nil
	}
	c := *p
	c.Filters = append([]string(nil), p.Filters...)
	c.Items = p.Items.clone()
	c.AdditionalProperties = p.AdditionalProperties.clone()
	c.Properties = p.Properties.clone()
	c.chain = nil
	return &c
}

// Params is an ordered set of parameters keyed by name. The zero value and
// a nil *Params are empty.
type Params struct {
	m *orderedmap.OrderedMap[string, *Parameter]
}

// NewParams builds an ordered set from params, keyed by their names.
func NewParams(params ...*Parameter) *Params {
	ps := &Params{}
	for _, p := range params {
		ps.Set(p)
	}
	return ps
}

// Set adds p, replacing any parameter with the same name in place.
func (ps *Params) Set(p *Parameter) {
	if ps.m == nil {
		ps.m = orderedmap.New[string, *Parameter]()
	}
	ps.m.Set(p.Name, p)
}

// Get returns the parameter named name.
func (ps *Params) Get(name string) (*Parameter, bool) {
	if ps == nil || ps.m == nil {
		return nil, false
	}
	return ps.m.Get(name)
}

// Len returns the number of parameters.
func (ps *Params) Len() int {
	if ps == nil || ps.m == nil {
		return 0
	}
	return ps.m.Len()
}

// Names returns parameter names in declaration order.
func (ps *Params) Names() []string {
	names := make([]string, 0, ps.Len())
	for name := range ps.All() {
		names = append(names, name)
	}
	return names
}

// All iterates parameters in declaration order.
func (ps *Params) All() iter.Seq2[string, *Parameter] {
	return func(yield func(string, *Parameter) bool) {
		if ps == nil || ps.m == nil {
			return
		}
		for pair := ps.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// UnmarshalYAML decodes a mapping of name to parameter, keeping document
// order. A parameter without a name takes its mapping key.
func (ps *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of parameters", node.Line)
	}
	ps.m = orderedmap.New[string, *Parameter]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var p Parameter
		if err := node.Content[i+1].Decode(&p); err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
		if p.Name == "" {
			p.Name = key
		}
		ps.Set(&p)
	}
	return nil
}

// MarshalJSON encodes the set as an object in declaration order.
func (ps *Params) MarshalJSON() ([]byte, error) {
	if ps == nil || ps.m == nil {
		return []byte("{}"), nil
	}
	return ps.m.MarshalJSON()
}

func (ps *Params) clone() *Params {
	if ps == nil {
		return nil
	}
	c := &Params{}
	for _, p := range ps.All() {
		c.Set(p.clone())
	}
	return c
}
