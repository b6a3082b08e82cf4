package description

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/filter"
	"github.com/erraggy/restcodec/internal/options"
	"go.yaml.in/yaml/v4"
)

// Option configures loading a description.
type Option func(*loadConfig) error

type loadConfig struct {
	// Input source (exactly one for ParseWithOptions, none for New)
	filePath *string
	reader   io.Reader
	bytes    []byte

	registry   *filter.Registry
	logger     Logger
	baseURL    *string
	sourcePath string
}

// ParseWithOptions decodes a YAML or JSON description from the configured
// source and resolves it as [New] does.
//
//	desc, err := description.ParseWithOptions(
//	    description.WithFilePath("users.yaml"),
//	    description.WithLogger(description.NewSlogAdapter(nil)),
//	)
func ParseWithOptions(opts ...Option) (*Description, error) {
	cfg, err := applyOptions(true, opts...)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch {
	case cfg.filePath != nil:
		cfg.sourcePath = *cfg.filePath
		data, err = os.ReadFile(*cfg.filePath)
	case cfg.reader != nil:
		data, err = io.ReadAll(cfg.reader)
	default:
		data = cfg.bytes
	}
	if err != nil {
		return nil, &codecerrors.ParseError{Path: cfg.sourcePath, Message: "failed to read description", Cause: err}
	}

	doc, err := decode(data)
	if err != nil {
		return nil, &codecerrors.ParseError{Path: cfg.sourcePath, Message: "failed to decode description", Cause: err}
	}
	return build(doc, cfg)
}

// decode reads YAML or JSON; JSON is accepted as a YAML subset.
func decode(data []byte) (Document, error) {
	var doc Document
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, fmt.Errorf("empty document")
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// sourceOptions names the input source options in the order applyOptions checks them.
var sourceOptions = []string{"WithFilePath", "WithReader", "WithBytes"}

func applyOptions(requireSource bool, opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		registry: filter.Default(),
		logger:   NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, &codecerrors.ConfigError{Message: "invalid option", Cause: err}
		}
	}

	hasFile, hasReader, hasBytes := cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil
	if !requireSource {
		if hasFile || hasReader || hasBytes {
			return nil, &codecerrors.ConfigError{Message: "input sources are only accepted by ParseWithOptions"}
		}
		return cfg, nil
	}
	if err := options.RequireOne(sourceOptions, hasFile, hasReader, hasBytes); err != nil {
		return nil, &codecerrors.ConfigError{Message: "invalid input source", Cause: err}
	}
	return cfg, nil
}

// WithFilePath reads the description from a YAML or JSON file.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader reads the description from r.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return fmt.Errorf("description: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes decodes the description from data.
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			return fmt.Errorf("description: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithFilterRegistry resolves filter names against reg instead of
// filter.Default().
func WithFilterRegistry(reg *filter.Registry) Option {
	return func(cfg *loadConfig) error {
		if reg == nil {
			return fmt.Errorf("description: filter registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithLogger sets the logger used while loading.
// Default: NopLogger
func WithLogger(l Logger) Option {
	return func(cfg *loadConfig) error {
		if l == nil {
			l = NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}

// WithBaseURL overrides the document's baseUrl.
func WithBaseURL(baseURL string) Option {
	return func(cfg *loadConfig) error {
		cfg.baseURL = &baseURL
		return nil
	}
}
