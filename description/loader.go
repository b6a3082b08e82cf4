package description

import (
	"maps"
	"slices"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/filter"
	"github.com/erraggy/restcodec/internal/httputil"
)

// loader expands model references and operation inheritance. It works on
// clones so the source Document is left untouched.
type loader struct {
	doc      Document
	registry *filter.Registry
	logger   Logger

	models     map[string]*Parameter
	modelStack map[string]bool
	merged     map[string]*Operation
	opStack    map[string]bool
}

func newLoader(doc Document, registry *filter.Registry, logger Logger) *loader {
	return &loader{
		doc:        doc,
		registry:   registry,
		logger:     logger,
		models:     make(map[string]*Parameter, len(doc.Models)),
		modelStack: make(map[string]bool),
		merged:     make(map[string]*Operation, len(doc.Operations)),
		opStack:    make(map[string]bool),
	}
}

func (l *loader) resolveModels() (map[string]*Parameter, error) {
	for _, name := range slices.Sorted(maps.Keys(l.doc.Models)) {
		m, err := l.model(name)
		if err != nil {
			return nil, err
		}
		if err := m.ResolveFilters(l.registry); err != nil {
			return nil, err
		}
	}
	return l.models, nil
}

// model returns the resolved model name, resolving it on first use.
func (l *loader) model(name string) (*Parameter, error) {
	if m, ok := l.models[name]; ok {
		return m, nil
	}
	raw, ok := l.doc.Models[name]
	if !ok || raw == nil {
		return nil, &codecerrors.ConfigError{Option: "$ref", Value: name, Message: "reference to an undefined model"}
	}
	if l.modelStack[name] {
		return nil, &codecerrors.ConfigError{Option: "$ref", Value: name, Message: "circular model reference"}
	}
	l.modelStack[name] = true
	defer delete(l.modelStack, name)

	m := raw.clone()
	if m.Name == "" {
		m.Name = name
	}
	resolved, err := l.resolveParam(m)
	if err != nil {
		return nil, err
	}
	l.models[name] = resolved
	l.logger.Debug("resolved model", "model", name)
	return resolved, nil
}

// resolveParam expands $ref/extends on p and its descendants. p must be a
// clone owned by the loader.
func (l *loader) resolveParam(p *Parameter) (*Parameter, error) {
	if ref := refOf(p); ref != "" {
		base, err := l.model(ref)
		if err != nil {
			return nil, err
		}
		p = overlay(base, p)
	}
	if p.Properties.Len() > 0 {
		props := &Params{}
		for name, child := range p.Properties.All() {
			rc, err := l.resolveParam(child)
			if err != nil {
				return nil, err
			}
			if rc.Name == "" {
				rc.Name = name
			}
			props.Set(rc)
		}
		p.Properties = props
	}
	var err error
	if p.Items != nil {
		if p.Items, err = l.resolveParam(p.Items); err != nil {
			return nil, err
		}
	}
	if p.AdditionalProperties != nil {
		if p.AdditionalProperties, err = l.resolveParam(p.AdditionalProperties); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func refOf(p *Parameter) string {
	if p.Ref != "" {
		return p.Ref
	}
	return p.Extends
}

// overlay returns a copy of base with every field set on local applied on
// top. Properties and Data are merged key by key.
func overlay(base, local *Parameter) *Parameter {
	out := base.clone()
	if local.Name != "" {
		out.Name = local.Name
	}
	if local.Location != LocationNone {
		out.Location = local.Location
	}
	if local.Type != "" {
		out.Type = local.Type
	}
	if local.SentAs != "" {
		out.SentAs = local.SentAs
	}
	if local.Description != "" {
		out.Description = local.Description
	}
	if len(local.Filters) > 0 {
		out.Filters = slices.Clone(local.Filters)
	}
	if local.Format != "" {
		out.Format = local.Format
	}
	if local.Properties.Len() > 0 {
		if out.Properties == nil {
			out.Properties = &Params{}
		}
		for _, child := range local.Properties.All() {
			out.Properties.Set(child.clone())
		}
	}
	if local.Items != nil {
		out.Items = local.Items.clone()
	}
	if local.AdditionalProperties != nil {
		out.AdditionalProperties = local.AdditionalProperties.clone()
	}
	if local.Default != nil {
		out.Default = local.Default
	}
	out.Static = out.Static || local.Static
	out.Required = out.Required || local.Required
	if local.Enum != nil {
		out.Enum = local.Enum
	}
	if local.Minimum != nil {
		out.Minimum = local.Minimum
	}
	if local.Maximum != nil {
		out.Maximum = local.Maximum
	}
	if local.MinLength != nil {
		out.MinLength = local.MinLength
	}
	if local.MaxLength != nil {
		out.MaxLength = local.MaxLength
	}
	if local.Pattern != "" {
		out.Pattern = local.Pattern
	}
	if local.Delimiter != "" {
		out.Delimiter = local.Delimiter
	}
	if len(local.Data) > 0 {
		data := make(map[string]any, len(out.Data)+len(local.Data))
		maps.Copy(data, out.Data)
		maps.Copy(data, local.Data)
		out.Data = data
	}
	out.Ref, out.Extends = "", ""
	return out
}

func (l *loader) resolveOperations() (map[string]*Operation, error) {
	ops := make(map[string]*Operation, len(l.doc.Operations))
	for _, name := range slices.Sorted(maps.Keys(l.doc.Operations)) {
		merged, err := l.operation(name)
		if err != nil {
			return nil, err
		}
		op, err := l.finalize(merged.clone())
		if err != nil {
			return nil, err
		}
		ops[name] = op
	}
	return ops, nil
}

// operation returns name with its extends chain merged in, unresolved.
func (l *loader) operation(name string) (*Operation, error) {
	if op, ok := l.merged[name]; ok {
		return op, nil
	}
	raw, ok := l.doc.Operations[name]
	if !ok || raw == nil {
		return nil, &codecerrors.ConfigError{Option: "extends", Value: name, Message: "reference to an undefined operation"}
	}
	if l.opStack[name] {
		return nil, &codecerrors.ConfigError{Option: "extends", Value: name, Message: "circular operation inheritance"}
	}
	l.opStack[name] = true
	defer delete(l.opStack, name)

	op := raw.clone()
	op.Name = name
	if op.Extends != "" {
		parent, err := l.operation(op.Extends)
		if err != nil {
			return nil, err
		}
		op = inherit(parent, op)
	}
	l.merged[name] = op
	return op, nil
}

// inherit merges child over parent. Parent parameters come first; a child
// parameter with the same name replaces the parent's in place.
func inherit(parent, child *Operation) *Operation {
	out := parent.clone()
	out.Name = child.Name
	out.Extends = child.Extends
	if child.HTTPMethod != "" {
		out.HTTPMethod = child.HTTPMethod
	}
	if child.URI != "" {
		out.URI = child.URI
	}
	if child.Summary != "" {
		out.Summary = child.Summary
	}
	if child.ResponseModel != "" {
		out.ResponseModel = child.ResponseModel
	}
	if child.AdditionalParameters != nil {
		out.AdditionalParameters = child.AdditionalParameters.clone()
	}
	out.Deprecated = out.Deprecated || child.Deprecated
	if len(child.Data) > 0 {
		data := make(map[string]any, len(out.Data)+len(child.Data))
		maps.Copy(data, out.Data)
		maps.Copy(data, child.Data)
		out.Data = data
	}
	if child.Params.Len() > 0 {
		if out.Params == nil {
			out.Params = &Params{}
		}
		for _, p := range child.Params.All() {
			out.Params.Set(p.clone())
		}
	}
	return out
}

// finalize resolves parameter references, binds filters and checks the
// response model of op.
func (l *loader) finalize(op *Operation) (*Operation, error) {
	op.HTTPMethod = normalizeMethod(op.HTTPMethod)
	log := l.logger.With("operation", op.Name)

	params := &Params{}
	for name, p := range op.Params.All() {
		rp, err := l.resolveParam(p)
		if err != nil {
			return nil, codecerrors.WithOperation(err, op.Name)
		}
		if rp.Name == "" {
			rp.Name = name
		}
		if err := rp.ResolveFilters(l.registry); err != nil {
			return nil, codecerrors.WithOperation(err, op.Name)
		}
		if rp.Location == LocationNone {
			log.Debug("parameter has no location and is not serialized", "parameter", rp.Name)
		}
		params.Set(rp)
	}
	op.Params = params

	if op.AdditionalParameters != nil {
		ap, err := l.resolveParam(op.AdditionalParameters)
		if err != nil {
			return nil, codecerrors.WithOperation(err, op.Name)
		}
		if err := ap.ResolveFilters(l.registry); err != nil {
			return nil, codecerrors.WithOperation(err, op.Name)
		}
		if ap.Location == LocationNone {
			log.Warn("additionalParameters has no location and will be ignored")
		}
		op.AdditionalParameters = ap
	}

	if ct := op.DataString("jsonContentType"); ct != "" && !httputil.IsValidMediaType(ct) {
		return nil, &codecerrors.ConfigError{
			Option:  "jsonContentType",
			Value:   ct,
			Message: "operation " + op.Name + " declares an invalid media type",
		}
	}

	if op.ResponseModel != "" {
		if _, ok := l.models[op.ResponseModel]; !ok {
			return nil, &codecerrors.ConfigError{
				Option:  "responseModel",
				Value:   op.ResponseModel,
				Message: "operation " + op.Name + " references an undefined model",
			}
		}
	}
	return op, nil
}
