package filter

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/erraggy/restcodec/internal/coerce"
	"github.com/erraggy/restcodec/internal/naming"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var builtins = map[string]Func{
	"uppercase":     upper,
	"strtoupper":    upper,
	"lowercase":     lower,
	"strtolower":    lower,
	"title":         title,
	"ucwords":       title,
	"ucfirst":       ucfirst,
	"trim":          stringFunc(strings.TrimSpace),
	"ltrim":         stringFunc(func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) }),
	"rtrim":         stringFunc(func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }),
	"int":           toInt,
	"intval":        toInt,
	"float":         toFloat,
	"floatval":      toFloat,
	"bool":          toBool,
	"boolval":       toBool,
	"string":        toString,
	"strval":        toString,
	"json_encode":   jsonEncode,
	"base64_encode": base64Encode,
	"base64_decode": base64Decode,
	"urlencode":     stringFunc(url.QueryEscape),
	"md5":           md5Hex,
	"count":         count,
	"implode":       implode,
	"explode":       explode,
	"array":         array,
	"snake_case":    stringFunc(naming.ToSnakeCase),
	"kebab_case":    stringFunc(naming.ToKebabCase),
	"camel_case":    stringFunc(naming.ToCamelCase),
	"pascal_case":   stringFunc(naming.ToPascalCase),
}

// stringFunc lifts a string transformation into a Func. Non-string scalars
// are rendered first; collections are rejected.
func stringFunc(fn func(string) string) Func {
	return func(v any) (any, error) {
		s, err := coerce.String(v)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

// cases.Caser values carry state and must not be shared across goroutines.
func upper(v any) (any, error) {
	return stringFunc(cases.Upper(language.Und).String)(v)
}

func lower(v any) (any, error) {
	return stringFunc(cases.Lower(language.Und).String)(v)
}

func title(v any) (any, error) {
	return stringFunc(cases.Title(language.Und, cases.NoLower).String)(v)
}

func ucfirst(v any) (any, error) {
	return stringFunc(func(s string) string {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}
		return string(unicode.ToUpper(r)) + s[size:]
	})(v)
}

func toInt(v any) (any, error) { return cast.ToInt64E(v) }

func toFloat(v any) (any, error) { return cast.ToFloat64E(v) }

func toBool(v any) (any, error) { return cast.ToBoolE(v) }

func toString(v any) (any, error) { return coerce.String(v) }

func jsonEncode(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func base64Encode(v any) (any, error) {
	s, err := coerce.String(v)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

func base64Decode(v any) (any, error) {
	s, err := coerce.String(v)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func md5Hex(v any) (any, error) {
	s, err := coerce.String(v)
	if err != nil {
		return nil, err
	}
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

func count(v any) (any, error) {
	if items, ok := coerce.Slice(v); ok {
		return int64(len(items)), nil
	}
	if m, ok := coerce.Map(v); ok {
		return int64(len(m)), nil
	}
	if v == nil {
		return int64(0), nil
	}
	return int64(1), nil
}

func implode(v any) (any, error) {
	items, ok := coerce.Slice(v)
	if !ok {
		return coerce.String(v)
	}
	parts, err := coerce.Strings(items)
	if err != nil {
		return nil, err
	}
	return strings.Join(parts, ","), nil
}

func explode(v any) (any, error) {
	if _, ok := coerce.Slice(v); ok {
		return v, nil
	}
	s, err := coerce.String(v)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return []any{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

func array(v any) (any, error) {
	if v == nil {
		return []any{}, nil
	}
	if items, ok := coerce.Slice(v); ok {
		return items, nil
	}
	if m, ok := coerce.Map(v); ok {
		return m, nil
	}
	return []any{v}, nil
}
