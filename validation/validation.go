package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates commands against operation schemas. It is safe for
// concurrent use.
type Validator struct {
	schemas sync.Map // *description.Operation -> *jsonschema.Schema
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks the values of cmd against op. Constraint failures are
// returned as *codecerrors.ValidationError.
func (v *Validator) Validate(op *description.Operation, cmd *command.Command) error {
	schema, err := v.schema(op)
	if err != nil {
		return err
	}
	instance, err := instanceOf(op, cmd)
	if err != nil {
		return &codecerrors.ValidationError{Operation: op.Name, Cause: err}
	}
	if err := schema.Validate(instance); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &codecerrors.ValidationError{Operation: op.Name, Violations: violations(ve), Cause: err}
		}
		return &codecerrors.ValidationError{Operation: op.Name, Cause: err}
	}
	return nil
}

func (v *Validator) schema(op *description.Operation) (*jsonschema.Schema, error) {
	if cached, ok := v.schemas.Load(op); ok {
		return cached.(*jsonschema.Schema), nil
	}
	compiled, err := compile(op)
	if err != nil {
		return nil, &codecerrors.ConfigError{
			Option:  "validation",
			Value:   op.Name,
			Message: "cannot compile parameter schema",
			Cause:   err,
		}
	}
	actual, _ := v.schemas.LoadOrStore(op, compiled)
	return actual.(*jsonschema.Schema), nil
}

func compile(op *description.Operation) (*jsonschema.Schema, error) {
	data, err := json.Marshal(OperationSchema(op))
	if err != nil {
		return nil, err
	}
	url := "restcodec://operations/" + op.Name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// instanceOf converts the command values into plain JSON values. Values
// of skipped parameters and streamed bodies are left out.
func instanceOf(op *description.Operation, cmd *command.Command) (map[string]any, error) {
	values := make(map[string]any, cmd.Len())
	for _, name := range cmd.Names() {
		raw := cmd.Value(name)
		if p, ok := op.Param(name); ok && skipped(p) {
			continue
		}
		if _, ok := raw.(io.Reader); ok {
			continue
		}
		values[name] = raw
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("validation: cannot encode command values: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance map[string]any
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("validation: cannot decode command values: %w", err)
	}
	return instance, nil
}

// violations flattens the leaves of a validation error tree into
// "<instance path>: <message>" strings, sorted for stable output.
func violations(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, instancePath(e.InstanceLocation)+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	slices.Sort(out)
	return slices.Compact(out)
}

// instancePath renders a JSON pointer as a dotted path, "(root)" for the
// command itself.
func instancePath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return "(root)"
	}
	return strings.ReplaceAll(pointer, "/", ".")
}
