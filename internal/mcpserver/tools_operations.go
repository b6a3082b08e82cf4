package mcpserver

import (
	"context"

	"github.com/erraggy/restcodec/description"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type operationsInput struct {
	Description descriptionInput `json:"description"      jsonschema:"The service description to inspect"`
	Name        string           `json:"name,omitempty"   jsonschema:"Operation name or glob pattern (e.g. Get*)"`
	Detail      bool             `json:"detail,omitempty" jsonschema:"Include parameter definitions"`
	Offset      int              `json:"offset,omitempty" jsonschema:"Skip the first N operations"`
	Limit       int              `json:"limit,omitempty"  jsonschema:"Maximum number of operations to return"`
}

type parameterSummary struct {
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"`
	Type     string   `json:"type,omitempty"`
	SentAs   string   `json:"sent_as,omitempty"`
	Required bool     `json:"required,omitempty"`
	Static   bool     `json:"static,omitempty"`
	Default  any      `json:"default,omitempty"`
	Filters  []string `json:"filters,omitempty"`
}

type operationSummary struct {
	Name           string             `json:"name"`
	Method         string             `json:"method"`
	URI            string             `json:"uri,omitempty"`
	Summary        string             `json:"summary,omitempty"`
	ResponseModel  string             `json:"response_model,omitempty"`
	Deprecated     bool               `json:"deprecated,omitempty"`
	ParameterCount int                `json:"parameter_count"`
	Parameters     []parameterSummary `json:"parameters,omitempty"`
}

type operationsOutput struct {
	Service    string             `json:"service,omitempty"`
	APIVersion string             `json:"api_version,omitempty"`
	BaseURL    string             `json:"base_url,omitempty"`
	Total      int                `json:"total"`
	Returned   int                `json:"returned"`
	Operations []operationSummary `json:"operations,omitempty"`
}

func handleOperations(ctx context.Context, _ *mcp.CallToolRequest, input operationsInput) (*mcp.CallToolResult, operationsOutput, error) {
	if err := validateGlobPattern(input.Name); err != nil {
		return errResult(err), operationsOutput{}, nil
	}
	desc, err := input.Description.resolve(ctx)
	if err != nil {
		return errResult(err), operationsOutput{}, nil
	}

	var matched []*description.Operation
	for _, name := range desc.OperationNames() {
		if !matchName(input.Name, name) {
			continue
		}
		op, _ := desc.Operation(name)
		matched = append(matched, op)
	}

	page := paginate(matched, input.Offset, input.Limit)
	output := operationsOutput{
		Service:    desc.Name(),
		APIVersion: desc.APIVersion(),
		BaseURL:    desc.BaseURL(),
		Total:      len(matched),
		Returned:   len(page),
	}
	for _, op := range page {
		output.Operations = append(output.Operations, summarizeOperation(op, input.Detail))
	}
	return nil, output, nil
}

func summarizeOperation(op *description.Operation, detail bool) operationSummary {
	s := operationSummary{
		Name:           op.Name,
		Method:         op.HTTPMethod,
		URI:            op.URI,
		Summary:        op.Summary,
		ResponseModel:  op.ResponseModel,
		Deprecated:     op.Deprecated,
		ParameterCount: op.Params.Len(),
	}
	if !detail {
		return s
	}
	for _, p := range op.AllParams() {
		s.Parameters = append(s.Parameters, parameterSummary{
			Name:     p.Name,
			Location: p.Location.String(),
			Type:     p.Type,
			SentAs:   p.SentAs,
			Required: p.Required,
			Static:   p.Static,
			Default:  p.Default,
			Filters:  p.Filters,
		})
	}
	return s
}
