package tei

import (
	"regexp"
	"strings"

	"github.com/sahitya-io/grantha/core/proof"
)

// Attribute names fixed by the output dialect.
const (
	attrN    = "n"
	attrRend = "rend"
	attrLang = "xml:lang"
	attrType = "type"
)

var (
	hyphenBreakRE  = regexp.MustCompile(`-[ \t]*\n\s*`)
	lineBreakRE    = regexp.MustCompile(`\s*\n\s*`)
	speakerTrimRE  = regexp.MustCompile(`[\s\-–]+$`)
	whitespaceOnly = regexp.MustCompile(`^\s*$`)
)

// FromBlock builds the rewrite input element for one proofing block: the
// block's tag wrapping its parsed content, keeping only the ordering key
// attribute.
func FromBlock(b proof.Block) (*Elem, error) {
	children, err := ParseContent(b.Content)
	if err != nil {
		return nil, err
	}
	el := NewElem(string(b.Type))
	if b.N != "" {
		el.SetAttr(attrN, b.N)
	}
	el.Children = children
	return el, nil
}

// Rewrite converts one proofing block element into its published form.
// The returned element may have a different root than the input: a block
// containing a speaker mark is promoted to a speech wrapper.
//
// Rewrite mutates its argument.
func Rewrite(block *Elem) *Elem {
	speaker := extractSpeaker(block)
	rewriteMarks(block)

	switch block.Tag {
	case "p":
		joinLines(block)
	case "verse":
		block = toLineGroup(block)
	case "heading":
		block.Tag = "head"
	case "subtitle":
		block.Tag = "head"
		block.SetAttr(attrType, "subtitle")
	case "footnote":
		block.Tag = "note"
	}

	if speaker != nil {
		sp := NewElem("sp")
		sp.Append(speaker)
		trimEdges(&block.Children)
		if len(block.Children) > 0 {
			sp.Append(block)
		}
		return sp
	}
	return block
}

// extractSpeaker removes a direct <speaker> child from the block and
// returns it with its text normalized: surrounding whitespace and any
// trailing dash separator are stripped.
func extractSpeaker(block *Elem) *Elem {
	for i, c := range block.Children {
		el, ok := c.(*Elem)
		if !ok || el.Tag != "speaker" {
			continue
		}
		block.Children = append(block.Children[:i], block.Children[i+1:]...)
		name := strings.TrimSpace(el.TextContent())
		name = speakerTrimRE.ReplaceAllString(name, "")
		el.Children = []Node{Text(name)}
		return el
	}
	return nil
}

// rewriteMarks applies the inline-mark rules to the block's direct
// children: error/fix pairing, chaya segmentation, stage and flag
// renaming, and the standalone error and fix fallbacks.
func rewriteMarks(block *Elem) {
	pairCorrections(block)
	applyChaya(block)

	for i, c := range block.Children {
		el, ok := c.(*Elem)
		if !ok {
			continue
		}
		switch el.Tag {
		case "error":
			choice := NewElem("choice")
			sic := NewElem("sic")
			sic.Children = el.Children
			choice.Append(sic, NewElem("corr"))
			block.Children[i] = choice
		case "fix":
			el.Tag = "supplied"
		case "flag":
			el.Tag = "unclear"
		case "stage":
			rewriteStage(el)
		case "prakrit":
			el.Tag = "seg"
			el.SetAttr(attrLang, "pra")
		case "ref":
			// A proofed anchor carries its marker as content; the
			// published form carries it as a target.
			if el.Attr("target") == "" {
				el.SetAttr("target", strings.TrimSpace(el.TextContent()))
				el.Children = nil
			}
		}
	}
}

// pairCorrections collapses each error mark and its adjacent fix mark
// (in either order, ignoring interleaving whitespace) into a single
// choice element. Unpaired marks are left for rewriteMarks to handle.
func pairCorrections(block *Elem) {
	var out []Node
	ch := block.Children
	for i := 0; i < len(ch); i++ {
		el, ok := ch[i].(*Elem)
		if ok && (el.Tag == "error" || el.Tag == "fix") {
			if j := nextSignificant(ch, i+1); j >= 0 {
				partner, ok := ch[j].(*Elem)
				if ok && partner.Tag != el.Tag &&
					(partner.Tag == "error" || partner.Tag == "fix") {
					errEl, fixEl := el, partner
					if el.Tag == "fix" {
						errEl, fixEl = partner, el
					}
					choice := NewElem("choice")
					sic := NewElem("sic")
					sic.Children = errEl.Children
					corr := NewElem("corr")
					corr.Children = fixEl.Children
					choice.Append(sic, corr)
					out = append(out, choice)
					i = j
					continue
				}
			}
		}
		out = append(out, ch[i])
	}
	block.Children = out
}

// nextSignificant returns the index of the first child at or after start
// that is not whitespace-only text, or -1.
func nextSignificant(ch []Node, start int) int {
	for i := start; i < len(ch); i++ {
		if t, ok := ch[i].(Text); ok && whitespaceOnly.MatchString(string(t)) {
			continue
		}
		return i
	}
	return -1
}

// applyChaya rewrites a chaya mark into a bilingual choice: everything
// before the mark becomes the Prakrit segment and the mark's own content
// the Sanskrit segment. Bracket delimiters around the gloss are stripped
// into a rend hint.
func applyChaya(block *Elem) {
	for i, c := range block.Children {
		el, ok := c.(*Elem)
		if !ok || el.Tag != "chaya" {
			continue
		}

		pra := NewElem("seg")
		pra.SetAttr(attrLang, "pra")
		pra.Children = append(pra.Children, block.Children[:i]...)
		trimEdges(&pra.Children)

		sa := NewElem("seg")
		sa.SetAttr(attrLang, "sa")
		sa.Children = el.Children
		trimEdges(&sa.Children)
		if stripDelimiters(&sa.Children, "[", "]") {
			sa.SetAttr(attrRend, "brackets")
		}

		choice := NewElem("choice")
		choice.SetAttr(attrType, "chaya")
		choice.Append(pra, sa)

		rest := block.Children[i+1:]
		block.Children = append([]Node{choice}, rest...)
		return
	}
}

// rewriteStage strips enclosing parentheses from a stage direction into
// a rend hint. A stage mark without parentheses is left untouched.
func rewriteStage(el *Elem) {
	text := strings.TrimSpace(el.TextContent())
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return
	}
	inner := strings.TrimSpace(text[1 : len(text)-1])
	el.SetAttr(attrRend, "parentheses")
	el.Children = []Node{Text(inner)}
}

// stripDelimiters removes a leading open delimiter from the first text
// node and a trailing close delimiter from the last, reporting whether
// both were present. Edges are re-trimmed after stripping.
func stripDelimiters(nodes *[]Node, open, close string) bool {
	ch := *nodes
	if len(ch) == 0 {
		return false
	}
	first, fok := ch[0].(Text)
	last, lok := ch[len(ch)-1].(Text)
	if !fok || !lok {
		return false
	}
	if !strings.HasPrefix(string(first), open) || !strings.HasSuffix(string(last), close) {
		return false
	}
	ch[0] = Text(strings.TrimPrefix(string(first), open))
	last, _ = ch[len(ch)-1].(Text)
	ch[len(ch)-1] = Text(strings.TrimSuffix(string(last), close))
	trimEdges(&ch)
	*nodes = ch
	return true
}

// trimEdges strips leading whitespace from the first text node and
// trailing whitespace from the last, dropping nodes that become empty.
func trimEdges(nodes *[]Node) {
	ch := *nodes
	for len(ch) > 0 {
		t, ok := ch[0].(Text)
		if !ok {
			break
		}
		trimmed := strings.TrimLeft(string(t), " \t\n\r")
		if trimmed == "" {
			ch = ch[1:]
			continue
		}
		ch[0] = Text(trimmed)
		break
	}
	for len(ch) > 0 {
		t, ok := ch[len(ch)-1].(Text)
		if !ok {
			break
		}
		trimmed := strings.TrimRight(string(t), " \t\n\r")
		if trimmed == "" {
			ch = ch[:len(ch)-1]
			continue
		}
		ch[len(ch)-1] = Text(trimmed)
		break
	}
	*nodes = ch
}

// joinLines fuses a paragraph's internal line breaks into one logical
// line. A hyphen at the end of a line marks a hyphenated continuation:
// both the hyphen and the break are removed. Any other break becomes a
// single space.
func joinLines(block *Elem) {
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for i, c := range nodes {
			switch n := c.(type) {
			case Text:
				s := hyphenBreakRE.ReplaceAllString(string(n), "")
				s = lineBreakRE.ReplaceAllString(s, " ")
				nodes[i] = Text(s)
			case *Elem:
				walk(n.Children)
			}
		}
	}
	walk(block.Children)
}

// toLineGroup converts a verse block into a line group with one line
// element per input line. Inline marks are atomic at line breaks: a mark
// never splits across two line elements.
func toLineGroup(block *Elem) *Elem {
	lg := NewElem("lg")
	lg.Attrs = block.Attrs

	var line []Node
	flush := func() {
		trimEdges(&line)
		if len(line) > 0 {
			l := NewElem("l")
			l.Children = line
			lg.Append(l)
		}
		line = nil
	}

	for _, c := range block.Children {
		t, ok := c.(Text)
		if !ok {
			line = append(line, c)
			continue
		}
		parts := strings.Split(string(t), "\n")
		for i, part := range parts {
			if i > 0 {
				flush()
			}
			if part != "" {
				line = append(line, Text(part))
			}
		}
	}
	flush()
	return lg
}
