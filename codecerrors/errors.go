package codecerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnknownOperation indicates a command referenced a missing operation.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnregisteredLocation indicates a parameter location has no handler.
	ErrUnregisteredLocation = errors.New("unregistered location")

	// ErrFilter indicates a filter could not process a value.
	ErrFilter = errors.New("filter error")

	// ErrLocationHandler indicates a location handler could not place or extract a value.
	ErrLocationHandler = errors.New("location handler error")

	// ErrValidation indicates command values violate their parameter definitions.
	ErrValidation = errors.New("validation error")

	// ErrParse indicates a description document could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration or description.
	ErrConfig = errors.New("configuration error")
)

// describe renders the operation/parameter/location triple shared by several error types.
func describe(operation, parameter, location string) string {
	var parts []string
	if operation != "" {
		parts = append(parts, "operation "+operation)
	}
	if parameter != "" {
		parts = append(parts, "parameter "+parameter)
	}
	if location != "" {
		parts = append(parts, "location "+location)
	}
	return strings.Join(parts, ", ")
}

// UnknownOperationError is returned when a command names an operation that
// the description does not define.
type UnknownOperationError struct {
	// Operation is the requested operation name
	Operation string
}

// Error returns a human-readable error message.
func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %q", e.Operation)
}

// Is reports whether target matches this error type.
func (e *UnknownOperationError) Is(target error) bool {
	return target == ErrUnknownOperation
}

// UnregisteredLocationError is returned when a parameter declares a location
// for which no handler is registered. It is a configuration defect and is
// never retried.
type UnregisteredLocationError struct {
	Operation string
	Parameter string
	Location  string
}

// Error returns a human-readable error message.
func (e *UnregisteredLocationError) Error() string {
	msg := fmt.Sprintf("no location handler registered for %q", e.Location)
	if ctx := describe(e.Operation, e.Parameter, ""); ctx != "" {
		msg += " (" + ctx + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnregisteredLocationError) Is(target error) bool {
	return target == ErrUnregisteredLocation
}

// FilterError is returned when a filter rejects or cannot process a value.
type FilterError struct {
	Operation string
	Parameter string
	Location  string
	// Filter is the name of the failing filter, or the format name when the
	// value could not be formatted
	Filter string
	// Cause is the error returned by the filter
	Cause error
}

// Error returns a human-readable error message.
func (e *FilterError) Error() string {
	msg := "filter error"
	if e.Filter != "" {
		msg += " in " + e.Filter
	}
	if ctx := describe(e.Operation, e.Parameter, e.Location); ctx != "" {
		msg += " (" + ctx + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FilterError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FilterError) Is(target error) bool {
	return target == ErrFilter
}

// LocationHandlerError is returned when a location handler cannot embed a
// value into a request or extract it from a response, for example a value that
// cannot be encoded as JSON or XML.
type LocationHandlerError struct {
	Operation string
	Parameter string
	Location  string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LocationHandlerError) Error() string {
	msg := "location handler error"
	if ctx := describe(e.Operation, e.Parameter, e.Location); ctx != "" {
		msg += " (" + ctx + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LocationHandlerError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LocationHandlerError) Is(target error) bool {
	return target == ErrLocationHandler
}

// ValidationError is returned when command values violate the constraints
// declared by their parameters.
type ValidationError struct {
	Operation string
	// Violations lists each failed constraint as "<instance path>: <message>"
	Violations []string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Operation != "" {
		msg += " (operation " + e.Operation + ")"
	}
	if len(e.Violations) > 0 {
		msg += ": " + strings.Join(e.Violations, "; ")
	} else if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ParseError represents a failure to decode a description document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or an inconsistent
// description, such as a reference to an unknown filter or model.
type ConfigError struct {
	// Option is the name of the problematic option or description element
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// WithOperation records the operation name on any typed error in err's chain
// that does not name one yet, and returns err unchanged otherwise. Location
// handlers only know the parameter they were given; the serializer uses this
// to complete the context before returning.
func WithOperation(err error, operation string) error {
	if err == nil {
		return nil
	}
	var filterErr *FilterError
	if errors.As(err, &filterErr) && filterErr.Operation == "" {
		filterErr.Operation = operation
	}
	var handlerErr *LocationHandlerError
	if errors.As(err, &handlerErr) && handlerErr.Operation == "" {
		handlerErr.Operation = operation
	}
	var locErr *UnregisteredLocationError
	if errors.As(err, &locErr) && locErr.Operation == "" {
		locErr.Operation = operation
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) && valErr.Operation == "" {
		valErr.Operation = operation
	}
	return err
}

// Kind returns a short, stable label for the category of err, suitable for
// metric labels: "unknown_operation", "unregistered_location", "filter",
// "location_handler", "validation", "parse", "config", or "other".
// A nil error returns "ok".
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownOperation):
		return "unknown_operation"
	case errors.Is(err, ErrUnregisteredLocation):
		return "unregistered_location"
	case errors.Is(err, ErrFilter):
		return "filter"
	case errors.Is(err, ErrLocationHandler):
		return "location_handler"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrConfig):
		return "config"
	default:
		return "other"
	}
}
