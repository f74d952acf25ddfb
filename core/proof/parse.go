package proof

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	gerrors "github.com/sahitya-io/grantha/core/errors"
)

// ParsePage parses a proofing XML document into a Page. The document's
// single root tag must be <page>; anything else fails with a SchemaError
// carrying one terminal violation.
//
// ParsePage does not validate block tags or attributes; use Validate for
// the full schema check.
func ParsePage(content string, pageID int) (*Page, error) {
	root, err := parseRoot(content)
	if err != nil {
		return nil, err
	}

	page := &Page{ID: pageID}
	for el := root.FirstChild; el != nil; el = el.NextSibling {
		if el.Type != xmlquery.ElementNode {
			continue
		}
		page.Blocks = append(page.Blocks, blockFromElement(el))
	}
	return page, nil
}

// parseRoot parses content and returns the root element, enforcing the
// <page> root contract.
func parseRoot(content string) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return nil, gerrors.NewSchemaError([]string{fmt.Sprintf("XML parse error: %v", err)})
	}
	root := firstElement(doc)
	if root == nil {
		return nil, gerrors.NewSchemaError([]string{"document has no root element"})
	}
	if root.Data != "page" {
		return nil, gerrors.NewSchemaError([]string{
			fmt.Sprintf("root tag must be 'page', got '%s'", root.Data),
		})
	}
	return root, nil
}

func firstElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

func blockFromElement(el *xmlquery.Node) Block {
	return Block{
		Type:      BlockType(el.Data),
		Content:   InnerXML(el),
		Lang:      attr(el, "lang"),
		Text:      attr(el, "text"),
		N:         attr(el, "n"),
		Mark:      attr(el, "mark"),
		MergeNext: mergeNext(el),
	}
}

// mergeNext reads the merge-next flag, honoring the legacy merge-text
// spelling still present in old revisions.
func mergeNext(el *xmlquery.Node) bool {
	for _, name := range []string{AttrMergeNext, AttrMergeText} {
		if strings.EqualFold(attr(el, name), "true") {
			return true
		}
	}
	return false
}

func attr(el *xmlquery.Node, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// InnerXML serializes an element's content: its text interleaved with any
// child elements, without the element's own tag.
func InnerXML(el *xmlquery.Node) string {
	var b strings.Builder
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(child.OutputXML(true))
	}
	return b.String()
}
