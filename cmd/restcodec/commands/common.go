// Package commands provides CLI command handlers for restcodec.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/erraggy/restcodec"
	"github.com/erraggy/restcodec/description"
	"go.yaml.in/yaml/v4"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to w in the specified format (json or yaml).
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// FormatSourcePath returns a display-friendly path for the description.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSourcePath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// NewLogger returns a debug-level slog text logger on stderr when verbose
// is set, and a no-op logger otherwise.
func NewLogger(verbose bool) description.Logger {
	if !verbose {
		return description.NopLogger{}
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return description.NewSlogAdapter(slog.New(handler))
}

// LoadDescription reads a service description from a file or, for "-",
// from stdin.
func LoadDescription(path string, logger description.Logger) (*description.Description, error) {
	source := description.WithFilePath(path)
	if path == StdinFilePath {
		source = description.WithReader(os.Stdin)
	}
	desc, err := description.ParseWithOptions(source, description.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", FormatSourcePath(path), err)
	}
	return desc, nil
}

// OutputHeader writes the common description header to stderr.
func OutputHeader(path string, desc *description.Description) {
	Writef(os.Stderr, "restcodec version: %s\n", restcodec.Version())
	Writef(os.Stderr, "Description: %s\n", FormatSourcePath(path))
	if desc.Name() != "" {
		Writef(os.Stderr, "Service: %s\n", desc.Name())
	}
	if desc.APIVersion() != "" {
		Writef(os.Stderr, "API Version: %s\n", desc.APIVersion())
	}
}

// ParamFlags collects repeated name=value flags into command parameters.
// Values are decoded as YAML scalars or flow collections, so 42 is an
// integer, true a boolean and [a, b] a list. A value that does not decode
// is kept as a plain string.
type ParamFlags map[string]any

// String implements flag.Value.
func (p ParamFlags) String() string {
	parts := make([]string, 0, len(p))
	for _, name := range slices.Sorted(maps.Keys(p)) {
		parts = append(parts, fmt.Sprintf("%s=%v", name, p[name]))
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (p ParamFlags) Set(arg string) error {
	name, raw, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return fmt.Errorf("parameter %q must have the form name=value", arg)
	}
	p[name] = decodeParamValue(raw)
	return nil
}

func decodeParamValue(raw string) any {
	if raw == "" {
		return ""
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}

// LoadParams reads command parameters from a YAML or JSON file and merges
// the flag values over them.
func LoadParams(path string, flags ParamFlags) (map[string]any, error) {
	params := make(map[string]any, len(flags))
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304 - CLI reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("reading params file: %w", err)
		}
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("decoding params file %s: %w", path, err)
		}
		if params == nil {
			params = make(map[string]any, len(flags))
		}
	}
	maps.Copy(params, flags)
	return params, nil
}
