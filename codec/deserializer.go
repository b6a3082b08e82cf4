package codec

import (
	"net/http"
	"time"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/responselocation"
)

// Deserializer extracts results from HTTP responses using the response
// model of each operation. It is safe for concurrent use.
type Deserializer struct {
	desc *description.Description
	cfg  *config
}

// NewDeserializer returns a Deserializer using the built-in response
// locations plus any registered by options.
func NewDeserializer(desc *description.Description, opts ...Option) (*Deserializer, error) {
	if desc == nil {
		return nil, &codecerrors.ConfigError{Option: "description", Message: "description cannot be nil"}
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Deserializer{desc: desc, cfg: cfg}, nil
}

// Deserialize reads resp into a Result keyed by property name. An
// operation without a response model yields an empty Result. The response
// body is read at most once and stays readable afterwards.
func (d *Deserializer) Deserialize(cmd *command.Command, resp *http.Response) (result responselocation.Result, err error) {
	start := time.Now()
	op, ok := d.desc.Operation(cmd.Name())
	if !ok {
		err = &codecerrors.UnknownOperationError{Operation: cmd.Name()}
		d.cfg.metrics.observe(directionDeserialize, "", start, err)
		return nil, err
	}
	defer func() {
		d.cfg.metrics.observe(directionDeserialize, op.Name, start, err)
	}()

	if resp == nil {
		return nil, &codecerrors.LocationHandlerError{Operation: op.Name, Message: "response cannot be nil"}
	}
	model, ok := d.desc.Model(op.ResponseModel)
	if !ok {
		return responselocation.Result{}, nil
	}

	result, err = d.deserialize(cmd, responselocation.NewResponse(resp), model)
	if err != nil {
		d.cfg.logger.Debug("deserialization failed", "operation", op.Name, "error", err)
		return nil, codecerrors.WithOperation(err, op.Name)
	}
	d.cfg.logger.Debug("deserialized response",
		"operation", op.Name,
		"model", op.ResponseModel,
		"status", resp.StatusCode,
		"keys", len(result),
	)
	return result, nil
}

func (d *Deserializer) deserialize(cmd *command.Command, resp *responselocation.Response, model *description.Parameter) (responselocation.Result, error) {
	result := make(responselocation.Result)

	var visited []description.Location
	seen := make(map[description.Location]bool)
	handler := func(name string, loc description.Location) (responselocation.Location, error) {
		h, ok := d.cfg.responseLocations[loc]
		if !ok {
			return nil, &codecerrors.UnregisteredLocationError{Parameter: name, Location: string(loc)}
		}
		if !seen[loc] {
			seen[loc] = true
			visited = append(visited, loc)
		}
		return h, nil
	}

	for name, prop := range model.Properties.All() {
		loc := responselocation.EffectiveLocation(model, prop)
		if loc.IsNone() {
			continue
		}
		h, err := handler(name, loc)
		if err != nil {
			return nil, err
		}
		if err := h.Visit(cmd, resp, prop, result); err != nil {
			return nil, err
		}
	}
	if loc := responselocation.AdditionalLocation(model); !loc.IsNone() {
		if _, err := handler("additionalProperties", loc); err != nil {
			return nil, err
		}
	}
	for _, loc := range visited {
		if err := d.cfg.responseLocations[loc].After(cmd, resp, model, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}
