package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/erraggy/restcodec/codec"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/requestlocation"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type serializeInput struct {
	Description descriptionInput `json:"description"        jsonschema:"The service description defining the operation"`
	Operation   string           `json:"operation"          jsonschema:"Name of the operation to serialize"`
	Params      map[string]any   `json:"params,omitempty"   jsonschema:"Parameter values keyed by parameter name"`
	Validate    *bool            `json:"validate,omitempty" jsonschema:"Validate values against parameter constraints before serializing"`
}

type serializeOutput struct {
	Method        string              `json:"method"`
	URL           string              `json:"url"`
	Headers       map[string][]string `json:"headers,omitempty"`
	Body          string              `json:"body,omitempty"`
	BodyBase64    string              `json:"body_base64,omitempty"`
	ContentLength int64               `json:"content_length"`
}

func handleSerialize(ctx context.Context, _ *mcp.CallToolRequest, input serializeInput) (*mcp.CallToolResult, serializeOutput, error) {
	if input.Operation == "" {
		return errResult(fmt.Errorf("operation is required")), serializeOutput{}, nil
	}
	desc, err := input.Description.resolve(ctx)
	if err != nil {
		return errResult(err), serializeOutput{}, nil
	}

	validate := cfg.Validate
	if input.Validate != nil {
		validate = *input.Validate
	}
	opts := []codec.Option{codec.WithValidation(validate)}
	if cfg.UserAgent != "" {
		opts = append(opts, codec.WithUserAgent(cfg.UserAgent))
	}
	s, err := codec.NewSerializer(desc, opts...)
	if err != nil {
		return errResult(err), serializeOutput{}, nil
	}

	params := input.Params
	if op, ok := desc.Operation(input.Operation); ok {
		params = inlineFiles(op, params)
	}
	req, err := s.Serialize(ctx, command.New(input.Operation, params))
	if err != nil {
		return errResult(err), serializeOutput{}, nil
	}

	output := serializeOutput{
		Method:        req.Method,
		URL:           req.URL.String(),
		Headers:       req.Header,
		ContentLength: req.ContentLength,
	}
	if req.Body != nil {
		data, err := io.ReadAll(io.LimitReader(req.Body, cfg.MaxBodySize+1))
		if err != nil {
			return errResult(fmt.Errorf("failed to read request body: %w", err)), serializeOutput{}, nil
		}
		if int64(len(data)) > cfg.MaxBodySize {
			return errResult(fmt.Errorf("request body exceeds maximum %d bytes", cfg.MaxBodySize)), serializeOutput{}, nil
		}
		if utf8.Valid(data) {
			output.Body = string(data)
		} else {
			output.BodyBase64 = base64.StdEncoding.EncodeToString(data)
		}
	}
	return nil, output, nil
}

// inlineFiles turns string values bound for postFile, alone or inside a
// list, into file content. Over MCP a string names the content, never a
// local path.
func inlineFiles(op *description.Operation, params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for name, v := range params {
		out[name] = v
		p, ok := op.Param(name)
		if !ok {
			p = op.AdditionalParameters
		}
		if p == nil || p.Location != description.LocationPostFile {
			continue
		}
		out[name] = inlineFile(name, v)
	}
	return out
}

func inlineFile(name string, v any) any {
	switch t := v.(type) {
	case string:
		return requestlocation.File{Filename: name, Content: strings.NewReader(t)}
	case []string:
		files := make([]any, len(t))
		for i, s := range t {
			files[i] = inlineFile(name, s)
		}
		return files
	case []any:
		files := make([]any, len(t))
		for i, item := range t {
			files[i] = inlineFile(name, item)
		}
		return files
	}
	return v
}
