package validation

import (
	"github.com/erraggy/restcodec/description"
)

// schemaTypes are the parameter types JSON Schema understands. Anything
// else, including "any", leaves the type unconstrained.
var schemaTypes = map[string]bool{
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
	"array":   true,
	"object":  true,
	"null":    true,
}

// OperationSchema returns the JSON Schema document describing the command
// values op accepts.
func OperationSchema(op *description.Operation) map[string]any {
	props := make(map[string]any)
	var required []string
	for name, p := range op.AllParams() {
		if skipped(p) {
			continue
		}
		props[name] = ParameterSchema(p)
		if p.Required && !p.HasValue() {
			required = append(required, name)
		}
	}
	schema := map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	if op.AdditionalParameters != nil && !skipped(op.AdditionalParameters) {
		schema["additionalProperties"] = ParameterSchema(op.AdditionalParameters)
	}
	return schema
}

// ParameterSchema returns the JSON Schema for a single parameter value.
func ParameterSchema(p *description.Parameter) map[string]any {
	s := make(map[string]any)
	if schemaTypes[p.Type] {
		s["type"] = p.Type
	}
	if p.Description != "" {
		s["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		s["enum"] = p.Enum
	}
	if p.Minimum != nil {
		s["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		s["maximum"] = *p.Maximum
	}
	if p.MinLength != nil {
		s["minLength"] = *p.MinLength
	}
	if p.MaxLength != nil {
		s["maxLength"] = *p.MaxLength
	}
	if p.Pattern != "" {
		s["pattern"] = p.Pattern
	}
	if p.Items != nil {
		s["items"] = ParameterSchema(p.Items)
	}
	if p.Properties.Len() > 0 {
		props := make(map[string]any)
		var required []string
		for name, child := range p.Properties.All() {
			props[name] = ParameterSchema(child)
			if child.Required && !child.HasValue() {
				required = append(required, name)
			}
		}
		s["properties"] = props
		if len(required) > 0 {
			s["required"] = required
		}
	}
	if p.AdditionalProperties != nil {
		s["additionalProperties"] = ParameterSchema(p.AdditionalProperties)
	}
	return s
}

// skipped reports whether values of p are left out of validation. Static
// parameters ignore the command value altogether.
func skipped(p *description.Parameter) bool {
	return p.Static || p.Location == description.LocationPostFile
}
