// Package tei rewrites proofing blocks into the restricted TEI dialect
// used by published texts. It carries its own small element tree because
// the rewrite rules reorder, wrap, and split mixed content, and the
// output serialization must be deterministic down to attribute order.
package tei

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/sahitya-io/grantha/core/encoding"
	gerrors "github.com/sahitya-io/grantha/core/errors"
)

// Node is one item of mixed XML content: either Text or *Elem.
type Node interface {
	writeTo(b *strings.Builder)
}

// Text is a character-data node. It holds unescaped text; escaping
// happens at serialization time.
type Text string

func (t Text) writeTo(b *strings.Builder) {
	b.WriteString(encoding.EscapeXMLText(string(t)))
}

// Attr is a single attribute. Attribute order is significant: attributes
// serialize in the order they were set.
type Attr struct {
	Name  string
	Value string
}

// Elem is an element with ordered attributes and mixed-content children.
type Elem struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// NewElem returns an element with the given tag and no content.
func NewElem(tag string) *Elem {
	return &Elem{Tag: tag}
}

// Attr returns the value of the named attribute, or "".
func (e *Elem) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets an attribute, replacing an existing value in place so the
// serialized order stays stable.
func (e *Elem) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Append adds nodes to the element's content.
func (e *Elem) Append(nodes ...Node) {
	e.Children = append(e.Children, nodes...)
}

// TextContent returns the concatenated character data of the element and
// its descendants.
func (e *Elem) TextContent() string {
	var b strings.Builder
	var walk func(*Elem)
	walk = func(el *Elem) {
		for _, c := range el.Children {
			switch n := c.(type) {
			case Text:
				b.WriteString(string(n))
			case *Elem:
				walk(n)
			}
		}
	}
	walk(e)
	return b.String()
}

func (e *Elem) writeTo(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(encoding.EscapeXMLAttr(a.Value))
		b.WriteByte('"')
	}
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		c.writeTo(b)
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}

// String serializes the element, self-closing empty elements.
func (e *Elem) String() string {
	var b strings.Builder
	e.writeTo(&b)
	return b.String()
}

// ParseContent parses mixed XML content (text interleaved with elements,
// no single enclosing tag required) into a node list.
func ParseContent(content string) ([]Node, error) {
	doc, err := xmlquery.Parse(strings.NewReader("<x>" + content + "</x>"))
	if err != nil {
		return nil, &gerrors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			root = n
			break
		}
	}
	if root == nil {
		return nil, nil
	}
	return convertChildren(root), nil
}

func convertChildren(el *xmlquery.Node) []Node {
	var nodes []Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if c.Data != "" {
				nodes = append(nodes, Text(c.Data))
			}
		case xmlquery.ElementNode:
			sub := &Elem{Tag: c.Data}
			for _, a := range c.Attr {
				name := a.Name.Local
				if a.Name.Space != "" {
					name = a.Name.Space + ":" + a.Name.Local
				}
				sub.Attrs = append(sub.Attrs, Attr{Name: name, Value: a.Value})
			}
			sub.Children = convertChildren(c)
			nodes = append(nodes, sub)
		}
	}
	return nodes
}
