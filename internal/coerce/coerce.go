// Package coerce converts loosely typed command values into the shapes the
// location handlers place on the wire.
package coerce

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// String renders a scalar value as it appears in a query string, header or
// form field. Collections are rejected; callers expand them first.
func String(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	if IsCollection(v) {
		return "", fmt.Errorf("coerce: cannot render %T as a string", v)
	}
	return cast.ToStringE(v)
}

// Strings renders every element of a slice with String.
func Strings(items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := String(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// IsCollection reports whether v is a slice, array or map ([]byte excluded).
func IsCollection(v any) bool {
	if _, ok := Slice(v); ok {
		return true
	}
	_, ok := Map(v)
	return ok
}

// Slice returns v as []any when v is a slice or array. Byte slices are
// treated as scalars.
func Slice(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Map returns v as map[string]any when v is a map keyed by strings.
func Map(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return t, true
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToType converts a decoded wire value to the Go representation of a
// parameter type tag: int64 for "integer", float64 for "number", bool for
// "boolean" and string for "string". Other tags and collections pass through.
func ToType(v any, typ string) (any, error) {
	if v == nil || IsCollection(v) {
		return v, nil
	}
	switch typ {
	case "integer":
		return cast.ToInt64E(v)
	case "number":
		return cast.ToFloat64E(v)
	case "boolean":
		return cast.ToBoolE(v)
	case "string":
		return String(v)
	}
	return v, nil
}
