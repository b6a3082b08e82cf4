// Package naming converts identifiers between case styles. It backs the
// snake_case, kebab_case, camel_case and pascal_case filters.
package naming

import (
	"strings"
	"unicode"
)

// Words splits s into words at separators (anything that is not a letter
// or digit) and at case boundaries. A run of capitals followed by a
// lowercase letter ends one word early, so "APIClient" yields "API" and
// "Client".
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, string(runes[start:end]))
			start = -1
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

// ToSnakeCase joins the lowercased words of s with underscores.
// Example: "UserProfile" -> "user_profile", "APIClient" -> "api_client"
func ToSnakeCase(s string) string {
	return joinLower(Words(s), "_")
}

// ToKebabCase joins the lowercased words of s with hyphens.
// Example: "user profile" -> "user-profile"
func ToKebabCase(s string) string {
	return joinLower(Words(s), "-")
}

// ToPascalCase capitalizes each word of s and joins them.
// Example: "user_profile" -> "UserProfile", "api-client" -> "ApiClient"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// ToCamelCase is ToPascalCase with the first word lowercased.
// Example: "User_Profile" -> "userProfile"
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func joinLower(words []string, sep string) string {
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

func capitalize(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
