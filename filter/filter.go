package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Func transforms a single value. Implementations must not retain or mutate
// their argument.
type Func func(v any) (any, error)

// Registry maps filter names to functions. A Registry is immutable once
// built and safe for concurrent use.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry holding the built-in filters plus extra.
// Entries in extra replace built-ins of the same name.
func NewRegistry(extra map[string]Func) *Registry {
	funcs := make(map[string]Func, len(builtins)+len(extra))
	maps.Copy(funcs, builtins)
	for name, fn := range extra {
		if fn != nil {
			funcs[name] = fn
		}
	}
	return &Registry{funcs: funcs}
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry(nil) })

// Default returns the shared registry of built-in filters.
func Default() *Registry {
	return defaultRegistry()
}

// Lookup returns the filter registered under name. A nil Registry behaves
// like Default.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		r = Default()
	}
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered filter names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		r = Default()
	}
	return slices.Sorted(maps.Keys(r.funcs))
}

// Chain resolves names into functions, failing on the first unknown name.
func (r *Registry) Chain(names []string) ([]Func, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]Func, 0, len(names))
	for _, name := range names {
		fn, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("filter: unknown filter %q", name)
		}
		out = append(out, fn)
	}
	return out, nil
}
