// Package options holds checks shared by option-driven constructors and
// tool inputs.
package options

import (
	"fmt"
	"strings"
)

// CountSet returns how many of sources are set.
func CountSet(sources ...bool) int {
	n := 0
	for _, set := range sources {
		if set {
			n++
		}
	}
	return n
}

// RequireOne returns an error unless exactly one of sources is set. names
// labels the sources in the same order and appears in the message.
func RequireOne(names []string, sources ...bool) error {
	if n := CountSet(sources...); n != 1 {
		return fmt.Errorf("exactly one of %s must be provided (got %d)", joinNames(names), n)
	}
	return nil
}

// joinNames renders "a", "a or b", or "a, b, or c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "the inputs"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
