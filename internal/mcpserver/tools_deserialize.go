package mcpserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/erraggy/restcodec/codec"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/internal/httputil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type deserializeInput struct {
	Description descriptionInput  `json:"description"       jsonschema:"The service description defining the operation"`
	Operation   string            `json:"operation"         jsonschema:"Name of the operation the response belongs to"`
	Status      int               `json:"status,omitempty"  jsonschema:"HTTP status code of the response (default 200)"`
	Reason      string            `json:"reason,omitempty"  jsonschema:"Reason phrase of the status line (default: standard text for the status)"`
	Headers     map[string]string `json:"headers,omitempty" jsonschema:"Response headers"`
	Body        string            `json:"body,omitempty"    jsonschema:"Response body"`
	Params      map[string]any    `json:"params,omitempty"  jsonschema:"Parameter values of the command that produced the response"`
}

type deserializeOutput struct {
	Operation     string         `json:"operation"`
	ResponseModel string         `json:"response_model,omitempty"`
	Result        map[string]any `json:"result"`
}

func handleDeserialize(ctx context.Context, _ *mcp.CallToolRequest, input deserializeInput) (*mcp.CallToolResult, deserializeOutput, error) {
	if input.Operation == "" {
		return errResult(fmt.Errorf("operation is required")), deserializeOutput{}, nil
	}
	status := input.Status
	if status == 0 {
		status = http.StatusOK
	}
	if !httputil.ValidateStatusCode(strconv.Itoa(status)) {
		return errResult(fmt.Errorf("invalid status code %d", status)), deserializeOutput{}, nil
	}
	if int64(len(input.Body)) > cfg.MaxBodySize {
		return errResult(fmt.Errorf("response body exceeds maximum %d bytes", cfg.MaxBodySize)), deserializeOutput{}, nil
	}

	desc, err := input.Description.resolve(ctx)
	if err != nil {
		return errResult(err), deserializeOutput{}, nil
	}
	d, err := codec.NewDeserializer(desc)
	if err != nil {
		return errResult(err), deserializeOutput{}, nil
	}

	result, err := d.Deserialize(command.New(input.Operation, input.Params), newResponse(status, input.Reason, input.Headers, input.Body))
	if err != nil {
		return errResult(err), deserializeOutput{}, nil
	}

	output := deserializeOutput{Operation: input.Operation, Result: result}
	if op, ok := desc.Operation(input.Operation); ok {
		output.ResponseModel = op.ResponseModel
	}
	return nil, output, nil
}

// newResponse builds the response a deserialize call reads.
func newResponse(status int, reason string, headers map[string]string, body string) *http.Response {
	if reason == "" {
		reason = http.StatusText(status)
	}
	header := make(http.Header, len(headers))
	for k, v := range headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode:    status,
		Status:        strconv.Itoa(status) + " " + reason,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}
