package publish

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/sahitya-io/grantha/core/tei"
)

// PlainText renders the document as a UTF-8 text file: a comment header,
// then each block under a `# slug` line with verse lines broken onto
// separate lines.
func (d *Document) PlainText(meta Meta, exportedAt time.Time) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", meta.Title)
	fmt.Fprintf(&b, "# Exported on %s\n\n", exportedAt.UTC().Format(time.RFC3339))

	first := true
	for _, section := range d.Sections {
		for _, block := range section.Blocks {
			if !first {
				b.WriteString("\n\n")
			}
			first = false

			fmt.Fprintf(&b, "# %s\n", block.Slug)
			nodes, err := tei.ParseContent(block.XML)
			if err != nil {
				return "", err
			}
			var text strings.Builder
			flattenText(nodes, &text)
			b.WriteString(strings.TrimSpace(text.String()))
		}
	}
	return b.String(), nil
}

// flattenText extracts character data from a TEI fragment, terminating
// each verse line with a newline.
func flattenText(nodes []tei.Node, out *strings.Builder) {
	for _, n := range nodes {
		switch node := n.(type) {
		case tei.Text:
			out.WriteString(string(node))
		case *tei.Elem:
			flattenText(node.Children, out)
			if node.Tag == "l" {
				out.WriteByte('\n')
			}
		}
	}
}

// WriteXZ writes data to w as an xz stream, for compressed archive
// exports.
func WriteXZ(w io.Writer, data []byte) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadXZ decompresses an xz stream produced by WriteXZ.
func ReadXZ(r io.Reader) ([]byte, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(zr)
}
