package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	nethttputil "net/http/httputil"
	"os"

	"github.com/erraggy/restcodec/codec"
	"github.com/erraggy/restcodec/command"
)

// SerializeFlags contains flags for the serialize command
type SerializeFlags struct {
	Params     ParamFlags
	ParamsFile string
	Validate   bool
	UserAgent  string
	Format     string
	Verbose    bool
	Quiet      bool
}

// SetupSerializeFlags creates and configures a FlagSet for the serialize command.
// Returns the FlagSet and a SerializeFlags struct with bound flag variables.
func SetupSerializeFlags() (*flag.FlagSet, *SerializeFlags) {
	fs := flag.NewFlagSet("serialize", flag.ContinueOnError)
	flags := &SerializeFlags{Params: ParamFlags{}}

	fs.Var(flags.Params, "p", "parameter as name=value (repeatable)")
	fs.StringVar(&flags.ParamsFile, "params", "", "YAML or JSON file of parameter values")
	fs.BoolVar(&flags.Validate, "validate", false, "validate parameter values before serializing")
	fs.StringVar(&flags.UserAgent, "user-agent", "", "User-Agent header for the request (default restcodec/<version>)")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug details to stderr")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no header on stderr")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no header on stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: restcodec serialize [flags] <file|-> <operation>\n\n")
		Writef(output, "Build the HTTP request for an operation and print it. Nothing is sent.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  restcodec serialize -p id=42 service.yaml GetUser\n")
		Writef(output, "  restcodec serialize -validate -p name=Ann -p 'tags=[a, b]' service.yaml CreateUser\n")
		Writef(output, "  restcodec serialize -params values.json -format json service.yaml CreateUser\n")
		Writef(output, "\nParameter values:\n")
		Writef(output, "  Values are read as YAML, so 42 is a number, true a boolean and [a, b] a list.\n")
		Writef(output, "  A postFile parameter given a string reads the file at that path.\n")
		Writef(output, "\nExit Codes:\n")
		Writef(output, "  0    Request serialized\n")
		Writef(output, "  1    Loading, validation or serialization failed\n")
	}

	return fs, flags
}

// RequestInfo is the structured form of a serialized request.
type RequestInfo struct {
	Method  string              `json:"method" yaml:"method"`
	URL     string              `json:"url" yaml:"url"`
	Headers map[string][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string              `json:"body,omitempty" yaml:"body,omitempty"`
}

// HandleSerialize executes the serialize command
func HandleSerialize(args []string) error {
	fs, flags := SetupSerializeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("serialize command requires a description file and an operation name")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	path, opName := fs.Arg(0), fs.Arg(1)
	logger := NewLogger(flags.Verbose)
	desc, err := LoadDescription(path, logger)
	if err != nil {
		return err
	}
	params, err := LoadParams(flags.ParamsFile, flags.Params)
	if err != nil {
		return err
	}
	if !flags.Quiet {
		OutputHeader(path, desc)
		Writef(os.Stderr, "Operation: %s\n\n", opName)
	}

	opts := []codec.Option{codec.WithLogger(logger), codec.WithValidation(flags.Validate)}
	if flags.UserAgent != "" {
		opts = append(opts, codec.WithUserAgent(flags.UserAgent))
	}
	s, err := codec.NewSerializer(desc, opts...)
	if err != nil {
		return err
	}
	req, err := s.Serialize(context.Background(), command.New(opName, params))
	if err != nil {
		return fmt.Errorf("serializing %s: %w", opName, err)
	}
	return WriteRequest(os.Stdout, req, flags.Format)
}

// WriteRequest prints req as wire text or, for json and yaml, as a
// RequestInfo.
func WriteRequest(w io.Writer, req *http.Request, format string) error {
	if format == FormatText {
		dump, err := nethttputil.DumpRequest(req, true)
		if err != nil {
			return fmt.Errorf("dumping request: %w", err)
		}
		Writef(w, "%s\n", dump)
		return nil
	}

	info := RequestInfo{
		Method:  req.Method,
		URL:     req.URL.String(),
		Headers: req.Header,
	}
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("reading request body: %w", err)
		}
		info.Body = string(data)
	}
	return OutputStructured(w, info, format)
}
