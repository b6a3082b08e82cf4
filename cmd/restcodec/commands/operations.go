package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/erraggy/restcodec/description"
)

// OperationsFlags contains flags for the operations command
type OperationsFlags struct {
	Name    string
	Detail  bool
	Format  string
	Verbose bool
	Quiet   bool
}

// SetupOperationsFlags creates and configures a FlagSet for the operations command.
// Returns the FlagSet and an OperationsFlags struct with bound flag variables.
func SetupOperationsFlags() (*flag.FlagSet, *OperationsFlags) {
	fs := flag.NewFlagSet("operations", flag.ContinueOnError)
	flags := &OperationsFlags{}

	fs.StringVar(&flags.Name, "name", "", "only list operations matching this name or glob pattern")
	fs.BoolVar(&flags.Detail, "detail", false, "include parameter definitions")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug details to stderr")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no header on stderr")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no header on stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: restcodec operations [flags] <file|->\n\n")
		Writef(output, "List the operations of a service description.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  restcodec operations service.yaml\n")
		Writef(output, "  restcodec operations -name 'Get*' -detail service.yaml\n")
		Writef(output, "  cat service.json | restcodec operations -format json -\n")
	}

	return fs, flags
}

// OperationInfo is the structured form of one listed operation.
type OperationInfo struct {
	Name          string          `json:"name" yaml:"name"`
	Method        string          `json:"method" yaml:"method"`
	URI           string          `json:"uri,omitempty" yaml:"uri,omitempty"`
	Summary       string          `json:"summary,omitempty" yaml:"summary,omitempty"`
	ResponseModel string          `json:"responseModel,omitempty" yaml:"responseModel,omitempty"`
	Deprecated    bool            `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Parameters    []ParameterInfo `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ParameterInfo is the structured form of one operation parameter.
type ParameterInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Location string   `json:"location,omitempty" yaml:"location,omitempty"`
	WireName string   `json:"wireName,omitempty" yaml:"wireName,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Static   bool     `json:"static,omitempty" yaml:"static,omitempty"`
	Default  any      `json:"default,omitempty" yaml:"default,omitempty"`
	Filters  []string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// HandleOperations executes the operations command
func HandleOperations(args []string) error {
	fs, flags := SetupOperationsFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("operations command requires exactly one description file or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Name != "" {
		if _, err := filepath.Match(flags.Name, ""); err != nil {
			return fmt.Errorf("invalid name pattern %q: %w", flags.Name, err)
		}
	}

	path := fs.Arg(0)
	desc, err := LoadDescription(path, NewLogger(flags.Verbose))
	if err != nil {
		return err
	}
	if !flags.Quiet {
		OutputHeader(path, desc)
		Writef(os.Stderr, "\n")
	}

	infos := ListOperations(desc, flags.Name, flags.Detail)
	if flags.Format != FormatText {
		return OutputStructured(os.Stdout, infos, flags.Format)
	}
	return writeOperationsText(os.Stdout, infos)
}

// ListOperations returns the operations whose names match pattern, in
// description order. An empty pattern matches every operation.
func ListOperations(desc *description.Description, pattern string, detail bool) []OperationInfo {
	var infos []OperationInfo
	for _, name := range desc.OperationNames() {
		if pattern != "" {
			if ok, _ := filepath.Match(pattern, name); !ok {
				continue
			}
		}
		op, _ := desc.Operation(name)
		info := OperationInfo{
			Name:          op.Name,
			Method:        op.HTTPMethod,
			URI:           op.URI,
			Summary:       op.Summary,
			ResponseModel: op.ResponseModel,
			Deprecated:    op.Deprecated,
		}
		if detail {
			for _, p := range op.AllParams() {
				info.Parameters = append(info.Parameters, ParameterInfo{
					Name:     p.Name,
					Location: p.Location.String(),
					WireName: p.WireName(),
					Type:     p.Type,
					Required: p.Required,
					Static:   p.Static,
					Default:  p.Default,
					Filters:  p.Filters,
				})
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func writeOperationsText(w io.Writer, infos []OperationInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	Writef(tw, "NAME\tMETHOD\tURI\tRESPONSE MODEL\n")
	for _, info := range infos {
		Writef(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Method, info.URI, info.ResponseModel)
		for _, p := range info.Parameters {
			flags := ""
			if p.Required {
				flags += " required"
			}
			if p.Static {
				flags += " static"
			}
			Writef(tw, "  %s\t%s\t%s\t%s%s\n", p.Name, p.Location, p.WireName, p.Type, flags)
		}
	}
	return tw.Flush()
}
