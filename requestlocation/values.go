package requestlocation

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
)

// appendValues flattens v into values under key. Arrays repeat key (or are
// joined by delimiter when one is given), objects nest as key[sub], nil adds
// nothing.
func appendValues(values url.Values, key string, v any, delimiter string) error {
	if v == nil {
		return nil
	}
	if items, ok := coerce.Slice(v); ok {
		if delimiter != "" {
			parts, err := coerce.Strings(items)
			if err != nil {
				return err
			}
			values.Add(key, strings.Join(parts, delimiter))
			return nil
		}
		for i, item := range items {
			if coerce.IsCollection(item) {
				if err := appendValues(values, key+"["+strconv.Itoa(i)+"]", item, ""); err != nil {
					return err
				}
				continue
			}
			s, err := coerce.String(item)
			if err != nil {
				return err
			}
			values.Add(key, s)
		}
		return nil
	}
	if m, ok := coerce.Map(v); ok {
		for _, k := range coerce.SortedKeys(m) {
			if err := appendValues(values, key+"["+k+"]", m[k], delimiter); err != nil {
				return err
			}
		}
		return nil
	}
	s, err := coerce.String(v)
	if err != nil {
		return err
	}
	values.Add(key, s)
	return nil
}

// pendingValues returns the url.Values accumulated for a location.
func pendingValues(req *Request, loc description.Location) url.Values {
	if values, ok := req.Pending(loc).(url.Values); ok {
		return values
	}
	values := url.Values{}
	req.SetPending(loc, values)
	return values
}
