package proof

import (
	"strings"

	"github.com/sahitya-io/grantha/core/encoding"
)

// XML renders the page back to a proofing XML document. Rendering and
// parsing round-trip: for a page without inline marks,
// ParsePage(page.XML()) reproduces the page.
func (p *Page) XML() string {
	var b strings.Builder
	b.WriteString("<page>\n")
	for _, bl := range p.Blocks {
		writeBlock(&b, bl)
		b.WriteString("\n")
	}
	b.WriteString("</page>")
	return b.String()
}

func writeBlock(b *strings.Builder, bl Block) {
	tag := string(bl.Type)
	b.WriteString("<")
	b.WriteString(tag)
	writeAttr(b, "lang", bl.Lang)
	writeAttr(b, "text", bl.Text)
	writeAttr(b, "n", bl.N)
	writeAttr(b, "mark", bl.Mark)
	if bl.MergeNext {
		writeAttr(b, AttrMergeNext, "true")
	}
	content := strings.TrimSpace(bl.Content)
	if content == "" {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
	b.WriteString(escapeBareAmpersands(content))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(encoding.EscapeXMLAttr(value))
	b.WriteString(`"`)
}

// escapeBareAmpersands escapes '&' characters that do not already start an
// entity reference. Block content is inner markup, so '<' and '>' must
// survive as-is, but raw ampersands from OCR would break reparsing.
func escapeBareAmpersands(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			continue
		}
		if isEntityStart(s[i+1:]) {
			b.WriteByte(c)
		} else {
			b.WriteString("&amp;")
		}
	}
	return b.String()
}

// isEntityStart reports whether s begins with the remainder of an entity
// reference: a name or character code followed by ';'.
func isEntityStart(s string) bool {
	end := strings.IndexByte(s, ';')
	if end <= 0 || end > 10 {
		return false
	}
	body := s[:end]
	if strings.HasPrefix(body, "#x") || strings.HasPrefix(body, "#X") {
		return len(body) > 2 && isHex(body[2:])
	}
	if strings.HasPrefix(body, "#") {
		return len(body) > 1 && isDigits(body[1:])
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
