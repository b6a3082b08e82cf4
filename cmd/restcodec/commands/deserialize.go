package commands

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"

	"github.com/erraggy/restcodec/codec"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/responselocation"
)

// DeserializeFlags contains flags for the deserialize command
type DeserializeFlags struct {
	Params     ParamFlags
	ParamsFile string
	Response   string
	Format     string
	Verbose    bool
	Quiet      bool
}

// SetupDeserializeFlags creates and configures a FlagSet for the deserialize command.
// Returns the FlagSet and a DeserializeFlags struct with bound flag variables.
func SetupDeserializeFlags() (*flag.FlagSet, *DeserializeFlags) {
	fs := flag.NewFlagSet("deserialize", flag.ContinueOnError)
	flags := &DeserializeFlags{Params: ParamFlags{}}

	fs.Var(flags.Params, "p", "parameter of the originating command as name=value (repeatable)")
	fs.StringVar(&flags.ParamsFile, "params", "", "YAML or JSON file of parameter values")
	fs.StringVar(&flags.Response, "response", StdinFilePath, "file holding the raw HTTP response, or '-' for stdin")
	fs.StringVar(&flags.Format, "format", FormatYAML, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Verbose, "v", false, "log debug details to stderr")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no header on stderr")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no header on stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: restcodec deserialize [flags] <file> <operation>\n\n")
		Writef(output, "Extract an operation's result from a raw HTTP response (status line, headers, body).\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  restcodec deserialize -response resp.http service.yaml GetUser\n")
		Writef(output, "  curl -si https://api.example.com/users/42 | restcodec deserialize service.yaml GetUser\n")
		Writef(output, "  restcodec deserialize -format json -response resp.http service.yaml ListUsers\n")
	}

	return fs, flags
}

// HandleDeserialize executes the deserialize command
func HandleDeserialize(args []string) error {
	fs, flags := SetupDeserializeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("deserialize command requires a description file and an operation name")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	path, opName := fs.Arg(0), fs.Arg(1)
	if path == StdinFilePath && flags.Response == StdinFilePath {
		return fmt.Errorf("the description and the response cannot both be read from stdin")
	}

	logger := NewLogger(flags.Verbose)
	desc, err := LoadDescription(path, logger)
	if err != nil {
		return err
	}
	params, err := LoadParams(flags.ParamsFile, flags.Params)
	if err != nil {
		return err
	}
	resp, err := ReadResponse(flags.Response)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !flags.Quiet {
		OutputHeader(path, desc)
		Writef(os.Stderr, "Operation: %s\n", opName)
		Writef(os.Stderr, "Response: %s\n\n", resp.Status)
	}

	d, err := codec.NewDeserializer(desc, codec.WithLogger(logger))
	if err != nil {
		return err
	}
	result, err := d.Deserialize(command.New(opName, params), resp)
	if err != nil {
		return fmt.Errorf("deserializing %s: %w", opName, err)
	}
	return WriteResult(os.Stdout, result, flags.Format)
}

// ReadResponse parses a raw HTTP/1.x response from a file or, for "-",
// from stdin.
func ReadResponse(path string) (*http.Response, error) {
	var r io.Reader = os.Stdin
	if path != StdinFilePath {
		f, err := os.Open(path) //nolint:gosec // G304 - CLI reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("opening response: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return parseResponse(r)
}

// parseResponse reads the whole response so the body outlives its source.
func parseResponse(r io.Reader) (*http.Response, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return resp, nil
}

// WriteResult prints a deserialized result. Text output lists one
// top-level property per line in name order.
func WriteResult(w io.Writer, result responselocation.Result, format string) error {
	if format != FormatText {
		return OutputStructured(w, map[string]any(result), format)
	}
	for _, key := range slices.Sorted(maps.Keys(result)) {
		Writef(w, "%s: %v\n", key, result[key])
	}
	return nil
}
