package requestlocation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
	"github.com/erraggy/restcodec/internal/httputil"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultXMLRoot names the document element when the operation declares no
// xmlRoot.name.
const DefaultXMLRoot = "Request"

// XML collects parameters into a single XML document body.
//
// Operation data: xmlRoot.name, xmlRoot.namespaces (prefix to URI; the empty
// prefix declares the default namespace), xmlEncoding (default UTF-8) and
// xmlAllowEmpty (write an empty root when nothing was collected).
//
// Parameter data: xmlAttribute (render as an attribute of the parent),
// xmlNamespace (element namespace) and xmlFlattened (repeat array elements
// without a wrapper).
type XML struct{}

var _ Location = XML{}

type xmlEntry struct {
	param *description.Parameter
	value any
}

type xmlBody = orderedmap.OrderedMap[string, xmlEntry]

// Visit implements Location.
func (XML) Visit(cmd *command.Command, req *Request, param *description.Parameter) error {
	v, err := prepared(cmd, param, description.LocationXML)
	if err != nil {
		return err
	}
	body, ok := req.Pending(description.LocationXML).(*xmlBody)
	if !ok {
		body = orderedmap.New[string, xmlEntry]()
		req.SetPending(description.LocationXML, body)
	}
	body.Set(param.WireName(), xmlEntry{param: param, value: v})
	return nil
}

// After implements Location.
func (x XML) After(cmd *command.Command, req *Request, op *description.Operation) error {
	if err := visitAdditional(cmd, req, op, description.LocationXML, x.Visit); err != nil {
		return err
	}
	body, _ := req.Pending(description.LocationXML).(*xmlBody)
	if body == nil && !op.DataBool("xmlAllowEmpty") {
		return nil
	}

	data, err := encodeXML(op, body)
	if err != nil {
		return handlerError("", description.LocationXML, "cannot encode XML body", err)
	}
	req.SetBody(data)
	httputil.SetDefault(req.HTTP.Header, httputil.HeaderContentType, httputil.MediaTypeXML)
	return nil
}

func encodeXML(op *description.Operation, body *xmlBody) ([]byte, error) {
	rootName := op.DataString("xmlRoot", "name")
	if rootName == "" {
		rootName = DefaultXMLRoot
	}
	encoding := op.DataString("xmlEncoding")
	if encoding == "" {
		encoding = "UTF-8"
	}

	root := xml.StartElement{Name: xml.Name{Local: rootName}}
	namespaces := op.DataMap("xmlRoot", "namespaces")
	for _, prefix := range slices.Sorted(maps.Keys(namespaces)) {
		uri, err := coerce.String(namespaces[prefix])
		if err != nil {
			return nil, fmt.Errorf("namespace %q: %w", prefix, err)
		}
		name := "xmlns"
		if prefix != "" {
			name += ":" + prefix
		}
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: uri})
	}

	var children []xmlEntry
	var names []string
	if body != nil {
		for pair := body.Oldest(); pair != nil; pair = pair.Next() {
			entry := pair.Value
			if entry.param.DataBool("xmlAttribute") {
				if entry.value == nil {
					continue
				}
				s, err := coerce.String(entry.value)
				if err != nil {
					return nil, fmt.Errorf("attribute %s: %w", pair.Key, err)
				}
				root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: pair.Key}, Value: s})
				continue
			}
			children = append(children, entry)
			names = append(names, pair.Key)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", encoding)
	enc := xml.NewEncoder(&buf)
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	for i, entry := range children {
		if err := writeXMLElement(enc, entry.param, names[i], entry.value); err != nil {
			return nil, err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeXMLElement writes v as an element called name. p may be nil for
// values with no definition.
func writeXMLElement(enc *xml.Encoder, p *description.Parameter, name string, v any) error {
	if v == nil {
		return nil
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if p != nil {
		start.Name.Space = p.DataString("xmlNamespace")
	}

	if items, ok := coerce.Slice(v); ok {
		var itemParam *description.Parameter
		itemName := "item"
		if p != nil && p.Items != nil {
			itemParam = p.Items
			if wire := p.Items.WireName(); wire != "" {
				itemName = wire
			}
		}
		if p != nil && p.DataBool("xmlFlattened") {
			for _, item := range items {
				if err := writeXMLElement(enc, flattenedItem(p, itemParam), name, item); err != nil {
					return err
				}
			}
			return nil
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, item := range items {
			if err := writeXMLElement(enc, itemParam, itemName, item); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	}

	if m, ok := coerce.Map(v); ok {
		var elements []string
		for _, key := range coerce.SortedKeys(m) {
			child := xmlChild(p, key)
			if child != nil && child.DataBool("xmlAttribute") {
				if m[key] == nil {
					continue
				}
				s, err := coerce.String(m[key])
				if err != nil {
					return fmt.Errorf("attribute %s: %w", key, err)
				}
				start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: key}, Value: s})
				continue
			}
			elements = append(elements, key)
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, key := range elements {
			if err := writeXMLElement(enc, xmlChild(p, key), key, m[key]); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	}

	s, err := coerce.String(v)
	if err != nil {
		return err
	}
	return enc.EncodeElement(s, start)
}

// flattenedItem returns the definition used for each repeated element of a
// flattened array: the items definition carrying the array's namespace.
func flattenedItem(array, items *description.Parameter) *description.Parameter {
	if items == nil {
		return &description.Parameter{Data: map[string]any{"xmlNamespace": array.DataString("xmlNamespace")}}
	}
	if items.DataString("xmlNamespace") != "" || array.DataString("xmlNamespace") == "" {
		return items
	}
	c := *items
	c.Data = maps.Clone(items.Data)
	if c.Data == nil {
		c.Data = map[string]any{}
	}
	c.Data["xmlNamespace"] = array.DataString("xmlNamespace")
	return &c
}

// xmlChild finds the definition for key of a prepared object value. Keys are
// already wire names.
func xmlChild(p *description.Parameter, key string) *description.Parameter {
	if p == nil {
		return nil
	}
	if prop, ok := p.PropertyByWireName(key); ok {
		return prop
	}
	return p.AdditionalProperties
}
