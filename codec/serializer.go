package codec

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
	"github.com/erraggy/restcodec/internal/httputil"
	"github.com/erraggy/restcodec/internal/uriutil"
	"github.com/erraggy/restcodec/requestlocation"
	"github.com/yosida95/uritemplate/v3"
)

// Serializer turns commands into HTTP requests using a Description. It
// holds no per-call state and is safe for concurrent use.
type Serializer struct {
	desc      *description.Description
	cfg       *config
	templates map[string]*uritemplate.Template
}

// NewSerializer compiles the URI templates of desc and returns a
// Serializer using the built-in request locations plus any registered by
// options.
func NewSerializer(desc *description.Description, opts ...Option) (*Serializer, error) {
	if desc == nil {
		return nil, &codecerrors.ConfigError{Option: "description", Message: "description cannot be nil"}
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	s := &Serializer{
		desc:      desc,
		cfg:       cfg,
		templates: make(map[string]*uritemplate.Template),
	}
	for _, name := range desc.OperationNames() {
		op, _ := desc.Operation(name)
		if op.URI == "" {
			continue
		}
		tmpl, err := uritemplate.New(op.URI)
		if err != nil {
			return nil, &codecerrors.ConfigError{
				Option:  "uri",
				Value:   op.URI,
				Message: fmt.Sprintf("operation %q has an invalid URI template", name),
				Cause:   err,
			}
		}
		s.templates[name] = tmpl
	}
	return s, nil
}

// Serialize builds the request for cmd. ctx is attached to the returned
// request. On failure no request is returned.
//
// A parameter is placed when its effective value is non-nil: the command's
// value, else the parameter's static or default value. A parameter with a
// default is therefore sent even when the command omits it, and an explicit
// nil with no default sends nothing.
func (s *Serializer) Serialize(ctx context.Context, cmd *command.Command) (req *http.Request, err error) {
	start := time.Now()
	op, ok := s.desc.Operation(cmd.Name())
	if !ok {
		err = &codecerrors.UnknownOperationError{Operation: cmd.Name()}
		s.cfg.metrics.observe(directionSerialize, "", start, err)
		return nil, err
	}
	defer func() {
		s.cfg.metrics.observe(directionSerialize, op.Name, start, err)
	}()

	if s.cfg.validator != nil {
		if err := s.cfg.validator.Validate(op, cmd); err != nil {
			return nil, err
		}
	}

	req, err = s.serialize(ctx, op, cmd)
	if err != nil {
		s.cfg.logger.Debug("serialization failed", "operation", op.Name, "error", err)
		return nil, codecerrors.WithOperation(err, op.Name)
	}
	s.cfg.logger.Debug("serialized command",
		"operation", op.Name,
		"method", req.Method,
		"url", req.URL.String(),
	)
	return req, nil
}

func (s *Serializer) serialize(ctx context.Context, op *description.Operation, cmd *command.Command) (*http.Request, error) {
	target, err := s.target(op, cmd)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, op.HTTPMethod, target.String(), nil)
	if err != nil {
		return nil, &codecerrors.LocationHandlerError{
			Location: string(description.LocationURI),
			Message:  fmt.Sprintf("cannot create %s request for %q", op.HTTPMethod, target),
			Cause:    err,
		}
	}
	req := requestlocation.NewRequest(httpReq)

	var visited []description.Location
	seen := make(map[description.Location]bool)
	handler := func(name string, loc description.Location) (requestlocation.Location, error) {
		h, ok := s.cfg.requestLocations[loc]
		if !ok {
			return nil, &codecerrors.UnregisteredLocationError{Operation: op.Name, Parameter: name, Location: string(loc)}
		}
		if !seen[loc] {
			seen[loc] = true
			visited = append(visited, loc)
		}
		return h, nil
	}

	for name, p := range op.AllParams() {
		if p.Location == description.LocationURI || p.Location.IsNone() {
			continue
		}
		if p.Value(cmd.Value(name)) == nil {
			continue
		}
		h, err := handler(name, p.Location)
		if err != nil {
			return nil, err
		}
		if err := h.Visit(cmd, req, p); err != nil {
			return nil, err
		}
	}
	if ap := op.AdditionalParameters; ap != nil && !ap.Location.IsNone() {
		if _, err := handler("additionalParameters", ap.Location); err != nil {
			return nil, err
		}
	}
	for _, loc := range visited {
		if err := s.cfg.requestLocations[loc].After(cmd, req, op); err != nil {
			return nil, err
		}
	}

	if s.cfg.userAgent != "" {
		httputil.SetDefault(httpReq.Header, httputil.HeaderUserAgent, s.cfg.userAgent)
	}
	return httpReq, nil
}

// target returns the request URL: the base URL when op has no URI,
// otherwise the expanded template combined with the base URL.
func (s *Serializer) target(op *description.Operation, cmd *command.Command) (*url.URL, error) {
	base := s.desc.Base()
	tmpl, ok := s.templates[op.Name]
	if !ok {
		if base == nil {
			return &url.URL{}, nil
		}
		return base, nil
	}

	values := uritemplate.Values{}
	for _, p := range op.ParamsAt(description.LocationURI) {
		v := p.Value(cmd.Value(p.Name))
		if v == nil {
			continue
		}
		filtered, err := p.Filter(v)
		if err != nil {
			return nil, err
		}
		tv, err := templateValue(filtered)
		if err != nil {
			return nil, &codecerrors.LocationHandlerError{
				Parameter: p.Name,
				Location:  string(description.LocationURI),
				Message:   "cannot expand URI value",
				Cause:     err,
			}
		}
		values.Set(p.WireName(), tv)
	}

	expanded, err := tmpl.Expand(values)
	if err != nil {
		return nil, &codecerrors.LocationHandlerError{
			Location: string(description.LocationURI),
			Message:  fmt.Sprintf("cannot expand URI template %q", op.URI),
			Cause:    err,
		}
	}
	u, err := uriutil.Combine(base, expanded)
	if err != nil {
		return nil, &codecerrors.LocationHandlerError{
			Location: string(description.LocationURI),
			Message:  "cannot combine URI with base URL",
			Cause:    err,
		}
	}
	return u, nil
}

// templateValue maps lists to template lists, maps to key/value pairs in
// key order, and everything else to its string form.
func templateValue(v any) (uritemplate.Value, error) {
	if items, ok := coerce.Slice(v); ok {
		strs, err := coerce.Strings(items)
		if err != nil {
			return uritemplate.Value{}, err
		}
		return uritemplate.List(strs...), nil
	}
	if m, ok := coerce.Map(v); ok {
		kv := make([]string, 0, 2*len(m))
		for _, k := range coerce.SortedKeys(m) {
			s, err := coerce.String(m[k])
			if err != nil {
				return uritemplate.Value{}, err
			}
			kv = append(kv, k, s)
		}
		return uritemplate.KV(kv...), nil
	}
	s, err := coerce.String(v)
	if err != nil {
		return uritemplate.Value{}, err
	}
	return uritemplate.String(s), nil
}
