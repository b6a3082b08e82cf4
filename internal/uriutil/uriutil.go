// Package uriutil combines an expanded URI template with a base endpoint.
package uriutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Combine resolves expanded against base:
//   - an expanded URI with a scheme is used as-is;
//   - one with only an authority ("//host/path") takes base's scheme;
//   - otherwise base's scheme and authority are kept, an absolute path
//     replaces base's path and a relative path is appended to it, both
//     keeping their percent-encoding;
//   - expanded's query is appended after base's query;
//   - expanded's fragment, when present, replaces base's.
//
// A nil base yields expanded parsed on its own.
func Combine(base *url.URL, expanded string) (*url.URL, error) {
	ref, err := url.Parse(expanded)
	if err != nil {
		return nil, fmt.Errorf("uriutil: invalid expanded URI %q: %w", expanded, err)
	}
	if base == nil || ref.Scheme != "" {
		return ref, nil
	}
	if ref.Host != "" {
		ref.Scheme = base.Scheme
		return ref, nil
	}

	out := *base
	switch {
	case ref.Path == "":
	case strings.HasPrefix(ref.Path, "/"):
		out.Path = ref.Path
		out.RawPath = ref.RawPath
	default:
		escaped := JoinPath(base.EscapedPath(), ref.EscapedPath())
		path, err := url.PathUnescape(escaped)
		if err != nil {
			return nil, fmt.Errorf("uriutil: invalid path %q: %w", escaped, err)
		}
		out.Path = path
		out.RawPath = escaped
	}
	out.RawQuery = MergeQuery(base.RawQuery, ref.RawQuery)
	if ref.Fragment != "" {
		out.Fragment = ref.Fragment
		out.RawFragment = ref.RawFragment
	}
	return &out, nil
}

// JoinPath appends rel to dir with exactly one separating slash.
func JoinPath(dir, rel string) string {
	if dir == "" {
		return "/" + rel
	}
	return strings.TrimSuffix(dir, "/") + "/" + rel
}

// MergeQuery concatenates two raw query strings, keeping both.
func MergeQuery(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + "&" + second
	}
}
