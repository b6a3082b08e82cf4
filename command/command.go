// Package command provides the value bag handed to the codec: an operation
// name plus the caller-supplied parameter values.
package command

import (
	"maps"
	"slices"
)

// Command names an operation and carries its parameter values. A Command
// is read-only once built; the codec never modifies it.
type Command struct {
	name   string
	params map[string]any
}

// New returns a Command for operation name. params is copied; nil values
// are kept and count as supplied.
func New(name string, params map[string]any) *Command {
	return &Command{name: name, params: maps.Clone(params)}
}

// Name returns the operation name.
func (c *Command) Name() string { return c.name }

// HasParam reports whether a value was supplied for name, even if nil.
func (c *Command) HasParam(name string) bool {
	_, ok := c.params[name]
	return ok
}

// Get returns the value for name and whether it was supplied.
func (c *Command) Get(name string) (any, bool) {
	v, ok := c.params[name]
	return v, ok
}

// Value returns the value for name, or nil.
func (c *Command) Value(name string) any {
	return c.params[name]
}

// Names returns the supplied parameter names in sorted order.
func (c *Command) Names() []string {
	return slices.Sorted(maps.Keys(c.params))
}

// Len returns the number of supplied parameters.
func (c *Command) Len() int { return len(c.params) }

// Params returns a copy of the supplied values.
func (c *Command) Params() map[string]any {
	out := maps.Clone(c.params)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// With returns a new Command with name set to v.
func (c *Command) With(name string, v any) *Command {
	params := c.Params()
	params[name] = v
	return &Command{name: c.name, params: params}
}
