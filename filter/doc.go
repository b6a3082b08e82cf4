// Package filter provides the named value transformations that parameters
// reference through their "filters" list.
//
// A filter is a pure function from one value to another. Filters are looked
// up by name in a [Registry] when a description is loaded, so a typo in a
// description fails at load time rather than on the first request.
//
// # Built-in filters
//
// String case: uppercase (strtoupper), lowercase (strtolower), title
// (ucwords), ucfirst. Identifier case: snake_case, kebab_case, camel_case,
// pascal_case. Whitespace: trim, ltrim, rtrim. Casts: int (intval),
// float (floatval), bool (boolval), string (strval). Encoding: json_encode,
// base64_encode, base64_decode, urlencode, md5. Collections: count, implode,
// explode, array.
//
// # Custom filters
//
//	reg := filter.NewRegistry(map[string]filter.Func{
//	    "cents": func(v any) (any, error) {
//	        f, err := cast.ToFloat64E(v)
//	        return int64(f * 100), err
//	    },
//	})
//
// # Formats
//
// [ApplyFormat] implements the parameter "format" keyword (date-time, date,
// time, timestamp, date-time-http, boolean-string). Formats run after the
// filters of a parameter.
package filter
