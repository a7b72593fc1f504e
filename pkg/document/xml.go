package document

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/matzehuels/docgraph/pkg/errors"
)

// TextKey holds the text of an element that also has attributes or children.
const TextKey = "_"

// RootElement is the synthetic element ParseXML wraps input in.
const RootElement = "root"

var (
	xmlDecl = regexp.MustCompile(`^\s*<\?xml[^>]*\?>`)
	doctype = regexp.MustCompile(`^\s*<!DOCTYPE[^>\[]*(\[[^\]]*\])?\s*>`)
)

// ParseXML parses markup into the element view of a synthetic root element
// that wraps the whole input, so a fragment with several top-level elements
// is accepted. A leading XML declaration or DOCTYPE is dropped. Malformed
// markup fails with [errors.ErrCodeInvalidDocument].
func ParseXML(data []byte) (Value, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document is empty")
	}
	data = xmlDecl.ReplaceAll(data, nil)
	data = doctype.ReplaceAll(data, nil)

	var buf bytes.Buffer
	buf.Grow(len(data) + 16)
	buf.WriteString("<" + RootElement + ">")
	buf.Write(data)
	buf.WriteString("</" + RootElement + ">")

	doc, err := xmlquery.Parse(&buf)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse xml")
	}
	root := firstElement(doc)
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "no root element")
	}
	return elementValue(root), nil
}

// FromXMLNode views an already-parsed node the way [ParseXML] views markup.
// A document node becomes an object whose fields are its top-level
// elements; an element becomes an object with the element as its single
// field, so its tag survives exactly as if its markup had been parsed.
func FromXMLNode(n *xmlquery.Node) (Value, error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil xml node")
	}
	switch n.Type {
	case xmlquery.ElementNode:
		return Object(Field{Key: qualifiedName(n.Prefix, n.Data), Value: elementValue(n)}), nil
	case xmlquery.DocumentNode:
		if firstElement(n) == nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "no root element")
		}
		return elementValue(n), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "not an element node")
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// elementValue converts one element. Children are grouped by tag in order of
// first occurrence; attributes come first and the text key last.
func elementValue(el *xmlquery.Node) Value {
	var (
		order  []string
		groups = map[string][]*xmlquery.Node{}
		text   strings.Builder
	)
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			name := qualifiedName(c.Prefix, c.Data)
			if _, seen := groups[name]; !seen {
				order = append(order, name)
			}
			groups[name] = append(groups[name], c)
		case xmlquery.TextNode, xmlquery.CharDataNode:
			text.WriteString(c.Data)
		}
	}

	content := strings.TrimSpace(text.String())
	if len(el.Attr) == 0 && len(order) == 0 {
		return Scalar(content)
	}

	fields := make([]Field, 0, len(el.Attr)+len(order)+1)
	for _, a := range el.Attr {
		fields = append(fields, Field{Key: qualifiedName(a.Name.Space, a.Name.Local), Value: Scalar(a.Value)})
	}
	for _, name := range order {
		els := groups[name]
		if len(els) == 1 {
			fields = append(fields, Field{Key: name, Value: elementValue(els[0])})
			continue
		}
		items := make([]Value, len(els))
		for i, c := range els {
			items[i] = elementValue(c)
		}
		fields = append(fields, Field{Key: name, Value: Array(items...)})
	}
	if content != "" {
		fields = append(fields, Field{Key: TextKey, Value: Scalar(content)})
	}
	return Object(fields...)
}

func qualifiedName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
