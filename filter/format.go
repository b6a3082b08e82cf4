package filter

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// Supported values of the parameter "format" keyword.
const (
	FormatDateTime      = "date-time"
	FormatDate          = "date"
	FormatTime          = "time"
	FormatTimestamp     = "timestamp"
	FormatDateTimeHTTP  = "date-time-http"
	FormatBooleanString = "boolean-string"
)

// ApplyFormat converts v according to format. Unknown formats and nil values
// are returned unchanged, since formats such as "email" or "uri" are
// descriptive only.
func ApplyFormat(format string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch format {
	case FormatDateTime:
		return formatTime(v, time.RFC3339)
	case FormatDate:
		return formatTime(v, time.DateOnly)
	case FormatTime:
		return formatTime(v, time.TimeOnly)
	case FormatDateTimeHTTP:
		return formatTime(v, http.TimeFormat)
	case FormatTimestamp:
		t, err := toTime(v)
		if err != nil {
			return nil, err
		}
		return t.Unix(), nil
	case FormatBooleanString:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, err
		}
		return strconv.FormatBool(b), nil
	default:
		return v, nil
	}
}

// KnownFormat reports whether format is one ApplyFormat transforms.
func KnownFormat(format string) bool {
	switch format {
	case FormatDateTime, FormatDate, FormatTime, FormatTimestamp, FormatDateTimeHTTP, FormatBooleanString:
		return true
	}
	return false
}

func formatTime(v any, layout string) (any, error) {
	t, err := toTime(v)
	if err != nil {
		return nil, err
	}
	return t.UTC().Format(layout), nil
}

// toTime accepts time.Time, unix seconds, or any string layout cast
// understands.
func toTime(v any) (time.Time, error) {
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected a time value: %w", err)
	}
	return t, nil
}
