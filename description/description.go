package description

import (
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/filter"
)

// Document is the decoded form of a description file. Build a
// [Description] from it with [New]; a Document itself is never used by the
// codec directly.
type Document struct {
	Name        string                `yaml:"name,omitempty" json:"name,omitempty"`
	APIVersion  string                `yaml:"apiVersion,omitempty" json:"apiVersion,omitempty"`
	BaseURL     string                `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Operations  map[string]*Operation `yaml:"operations,omitempty" json:"operations,omitempty"`
	Models      map[string]*Parameter `yaml:"models,omitempty" json:"models,omitempty"`
}

// Description is a loaded, fully resolved service description. It is
// immutable and safe for concurrent use.
type Description struct {
	name        string
	apiVersion  string
	baseURL     string
	base        *url.URL
	summary     string
	operations  map[string]*Operation
	models      map[string]*Parameter
	registry    *filter.Registry
	sourcePath  string
	operationNs []string
}

// New resolves doc into a Description. Model references and operation
// inheritance are expanded, filter names are bound to the registry, and
// response models are checked to exist. doc is not modified.
func New(doc Document, opts ...Option) (*Description, error) {
	cfg, err := applyOptions(false, opts...)
	if err != nil {
		return nil, err
	}
	return build(doc, cfg)
}

func build(doc Document, cfg *loadConfig) (*Description, error) {
	if cfg.baseURL != nil {
		doc.BaseURL = *cfg.baseURL
	}
	d := &Description{
		name:       doc.Name,
		apiVersion: doc.APIVersion,
		baseURL:    doc.BaseURL,
		summary:    doc.Description,
		registry:   cfg.registry,
		sourcePath: cfg.sourcePath,
	}
	if doc.BaseURL != "" {
		u, err := url.Parse(doc.BaseURL)
		if err != nil {
			return nil, &codecerrors.ConfigError{Option: "baseUrl", Value: doc.BaseURL, Message: "invalid base URL", Cause: err}
		}
		d.base = u
	}

	l := newLoader(doc, cfg.registry, cfg.logger)
	models, err := l.resolveModels()
	if err != nil {
		return nil, err
	}
	d.models = models

	ops, err := l.resolveOperations()
	if err != nil {
		return nil, err
	}
	d.operations = ops
	d.operationNs = slices.Sorted(maps.Keys(ops))

	cfg.logger.Debug("description loaded",
		"name", d.name,
		"operations", len(d.operations),
		"models", len(d.models))
	return d, nil
}

// Name returns the service name.
func (d *Description) Name() string { return d.name }

// APIVersion returns the declared API version.
func (d *Description) APIVersion() string { return d.apiVersion }

// Summary returns the free-form description text.
func (d *Description) Summary() string { return d.summary }

// SourcePath returns the file the description was loaded from, if any.
func (d *Description) SourcePath() string { return d.sourcePath }

// BaseURL returns the base endpoint as written in the document.
func (d *Description) BaseURL() string { return d.baseURL }

// Base returns a copy of the parsed base endpoint, or nil when none is set.
func (d *Description) Base() *url.URL {
	if d.base == nil {
		return nil
	}
	u := *d.base
	return &u
}

// Operation returns the operation named name.
func (d *Description) Operation(name string) (*Operation, bool) {
	op, ok := d.operations[name]
	return op, ok
}

// HasOperation reports whether name is defined.
func (d *Description) HasOperation(name string) bool {
	_, ok := d.operations[name]
	return ok
}

// OperationNames returns all operation names in sorted order.
func (d *Description) OperationNames() []string {
	return slices.Clone(d.operationNs)
}

// Model returns the named model.
func (d *Description) Model(name string) (*Parameter, bool) {
	m, ok := d.models[name]
	return m, ok
}

// ModelNames returns all model names in sorted order.
func (d *Description) ModelNames() []string {
	return slices.Sorted(maps.Keys(d.models))
}

// Filters returns the registry filter names were resolved against.
func (d *Description) Filters() *filter.Registry { return d.registry }

// normalizeMethod upper-cases method, defaulting to GET.
func normalizeMethod(method string) string {
	if method == "" {
		return "GET"
	}
	return strings.ToUpper(method)
}
