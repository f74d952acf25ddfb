package align

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/sahitya-io/grantha/core/encoding"
)

// TextOp is one region of a grapheme-level text diff.
type TextOp struct {
	Op  OpType
	Old string
	New string
}

// graphemes splits s into user-perceived characters per UAX #29, so a
// diff never cuts through a combining sequence.
func graphemes(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

// TextOps returns a structured grapheme-level diff between two strings.
func TextOps(old, new string) []TextOp {
	a, b := graphemes(old), graphemes(new)
	var ops []TextOp
	for _, op := range Opcodes(a, b) {
		ops = append(ops, TextOp{
			Op:  op.Type,
			Old: strings.Join(a[op.A0:op.A1], ""),
			New: strings.Join(b[op.B0:op.B1], ""),
		})
	}
	return ops
}

// DiffHTML renders a grapheme-level diff with additions and removals
// wrapped in ins/del tags. Pure newline changes get a block class so
// they stay visible in the rendered diff.
func DiffHTML(old, new string) string {
	var b strings.Builder
	for _, op := range TextOps(old, new) {
		switch op.Op {
		case OpEqual:
			b.WriteString(encoding.EscapeHTML(op.Old))
		case OpInsert:
			writeMarkup(&b, "ins", op.New)
		case OpDelete:
			writeMarkup(&b, "del", op.Old)
		case OpReplace:
			writeMarkup(&b, "del", op.Old)
			writeMarkup(&b, "ins", op.New)
		}
	}
	return b.String()
}

func writeMarkup(b *strings.Builder, tag, s string) {
	attr := ""
	if s == "\n" || s == "\r\n" {
		attr = ` class="block"`
	}
	b.WriteString("<" + tag + attr + ">")
	b.WriteString(encoding.EscapeHTML(s))
	b.WriteString("</" + tag + ">")
}
