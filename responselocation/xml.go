package responselocation

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
	"golang.org/x/text/encoding/ianaindex"
)

// XML reads properties from an XML body. Properties are child elements of
// the document element named by their wire name, or attributes when the
// property sets data xmlAttribute. Array properties read the children of a
// wrapper element, or repeated elements when xmlFlattened is set. Elements
// that repeat without an array definition become lists.
type XML struct{}

var _ Location = XML{}

type xmlNode struct {
	name     string
	attrs    map[string]string
	attrKeys []string
	children []*xmlNode
	text     string
}

// Visit implements Location.
func (XML) Visit(_ *command.Command, resp *Response, param *description.Parameter, result Result) error {
	root, err := xmlDocument(resp)
	if err != nil {
		return handlerError(param.Name, description.LocationXML, "cannot decode XML body", err)
	}
	if root == nil {
		return nil
	}
	v, ok, err := xmlProperty(root, param)
	if err != nil || !ok {
		return err
	}
	result[param.Name] = v
	return nil
}

// After implements Location. Attributes and child elements of the
// document element no xml property claimed are added when the model's
// additionalProperties read from xml.
func (XML) After(_ *command.Command, resp *Response, model *description.Parameter, result Result) error {
	if AdditionalLocation(model) != description.LocationXML {
		return nil
	}
	root, err := xmlDocument(resp)
	if err != nil {
		return handlerError("", description.LocationXML, "cannot decode XML body", err)
	}
	if root == nil {
		return nil
	}
	extra, err := xmlUnclaimed(root, claimed(model, description.LocationXML), model.AdditionalProperties)
	if err != nil {
		return err
	}
	for k, v := range extra {
		result[k] = v
	}
	return nil
}

func xmlDocument(resp *Response) (*xmlNode, error) {
	if cached, ok := resp.Cached(description.LocationXML); ok {
		root, _ := cached.(*xmlNode)
		return root, nil
	}
	data, err := resp.Body()
	if err != nil {
		return nil, err
	}
	var root *xmlNode
	if len(bytes.TrimSpace(data)) > 0 {
		if root, err = parseXML(data); err != nil {
			return nil, err
		}
	}
	resp.SetCached(description.LocationXML, root)
	return root, nil
}

func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var root *xmlNode
	var stack []*xmlNode
	var text []*strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, attrs: make(map[string]string)}
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					continue
				}
				n.attrs[attr.Name.Local] = attr.Value
				n.attrKeys = append(n.attrKeys, attr.Name.Local)
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
			text = append(text, new(strings.Builder))
		case xml.EndElement:
			n := stack[len(stack)-1]
			n.text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no document element")
	}
	return root, nil
}

// charsetReader decodes non UTF-8 documents through the IANA registry.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func (n *xmlNode) childrenNamed(name string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// xmlProperty reads prop from parent. ok is false when nothing is present.
func xmlProperty(parent *xmlNode, prop *description.Parameter) (any, bool, error) {
	wire := prop.WireName()
	if prop.DataBool("xmlAttribute") {
		raw, ok := parent.attrs[wire]
		if !ok {
			return nil, false, nil
		}
		v, err := xmlScalar(prop, raw)
		return v, true, err
	}

	nodes := parent.childrenNamed(wire)
	if len(nodes) == 0 {
		return nil, false, nil
	}

	if prop.Type == "array" {
		members := nodes
		if !prop.DataBool("xmlFlattened") {
			members = nodes[0].children
		}
		items := make([]any, len(members))
		for i, m := range members {
			v, err := shapeXML(prop.Items, m)
			if err != nil {
				return nil, false, err
			}
			items[i] = v
		}
		v, err := filtered(prop, description.LocationXML, items)
		return v, true, err
	}

	if len(nodes) > 1 {
		items := make([]any, len(nodes))
		for i, n := range nodes {
			v, err := shapeXML(prop, n)
			if err != nil {
				return nil, false, err
			}
			items[i] = v
		}
		return items, true, nil
	}

	v, err := shapeXML(prop, nodes[0])
	return v, true, err
}

// shapeXML converts an element using p, which may be nil.
func shapeXML(p *description.Parameter, n *xmlNode) (any, error) {
	var v any
	if isXMLObject(p, n) {
		out := make(map[string]any)
		taken := make(map[string]bool)
		var extra *description.Parameter
		keepExtra := true
		if p != nil {
			for _, prop := range p.Properties.All() {
				taken[prop.WireName()] = true
				pv, ok, err := xmlProperty(n, prop)
				if err != nil {
					return nil, err
				}
				if ok {
					out[prop.Name] = pv
				}
			}
			extra = p.AdditionalProperties
			keepExtra = extra != nil || p.Properties.Len() == 0
		}
		if keepExtra {
			rest, err := xmlUnclaimed(n, taken, extra)
			if err != nil {
				return nil, err
			}
			for k, rv := range rest {
				out[k] = rv
			}
		}
		v = out
	} else {
		if p == nil {
			return n.text, nil
		}
		return xmlScalar(p, n.text)
	}
	if p == nil {
		return v, nil
	}
	return filtered(p, description.LocationXML, v)
}

func isXMLObject(p *description.Parameter, n *xmlNode) bool {
	if len(n.children) > 0 || len(n.attrs) > 0 {
		return true
	}
	return p != nil && (p.Type == "object" || p.Properties.Len() > 0)
}

func xmlScalar(p *description.Parameter, raw string) (any, error) {
	v, err := coerce.ToType(raw, p.Type)
	if err != nil {
		return nil, handlerError(p.Name, description.LocationXML, fmt.Sprintf("cannot convert %q to %s", raw, p.Type), err)
	}
	return filtered(p, description.LocationXML, v)
}

// xmlUnclaimed collects attributes and child elements of n whose names are
// not in taken, reading each with def (which may be nil).
func xmlUnclaimed(n *xmlNode, taken map[string]bool, def *description.Parameter) (map[string]any, error) {
	out := make(map[string]any)
	for _, key := range n.attrKeys {
		if taken[key] {
			continue
		}
		if def == nil {
			out[key] = n.attrs[key]
			continue
		}
		v, err := xmlScalar(def, n.attrs[key])
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	repeated := make(map[string]bool)
	for _, c := range n.children {
		if taken[c.name] || repeated[c.name] {
			continue
		}
		if len(n.childrenNamed(c.name)) > 1 {
			repeated[c.name] = true
			var items []any
			for _, m := range n.childrenNamed(c.name) {
				v, err := shapeXML(def, m)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			out[c.name] = items
			continue
		}
		v, err := shapeXML(def, c)
		if err != nil {
			return nil, err
		}
		out[c.name] = v
	}
	return out, nil
}
