package publish

import (
	"github.com/sahitya-io/grantha/core/tei"
)

// Meta carries the document-level metadata stamped into the TEI header.
type Meta struct {
	Title  string
	Author string
	// FromProofing distinguishes texts published from the proofing
	// pipeline from third-party imports.
	FromProofing bool
}

const teiNamespace = "http://www.tei-c.org/ns/1.0"

// TEI renders the document as a complete TEI file with header and body.
// Sections with a title become div elements; untitled sections flatten
// into the body.
func (d *Document) TEI(meta Meta) (string, error) {
	root := tei.NewElem("TEI")
	root.SetAttr("xmlns", teiNamespace)

	header := tei.NewElem("teiHeader")
	root.Append(header)

	fileDesc := tei.NewElem("fileDesc")
	header.Append(fileDesc)
	fileDesc.Append(textElem("title", meta.Title))
	author := meta.Author
	if author == "" {
		author = "(missing)"
	}
	fileDesc.Append(textElem("author", author))

	publication := tei.NewElem("publicationStmt")
	header.Append(publication)
	publication.Append(textElem("publisher", "Grantha"))
	publication.Append(textElem("availability", "Unrestricted"))

	notes := tei.NewElem("notesStmt")
	header.Append(notes)
	if meta.FromProofing {
		notes.Append(textElem("note",
			"This text has been created by direct export from the proofing system."))
	} else {
		notes.Append(textElem("note",
			"This text has been created by third-party import from another site."))
	}

	encodingDesc := tei.NewElem("encodingDesc")
	header.Append(encodingDesc)
	projectDesc := tei.NewElem("projectDesc")
	encodingDesc.Append(projectDesc)
	projectDesc.Append(textElem("p",
		"Grantha is an online library of Sanskrit literature."))

	text := tei.NewElem("text")
	root.Append(text)
	body := tei.NewElem("body")
	text.Append(body)

	for _, section := range d.Sections {
		container := body
		if section.Title != "" {
			div := tei.NewElem("div")
			div.SetAttr("n", section.Slug)
			div.Append(textElem("head", section.Title))
			body.Append(div)
			container = div
		}
		for _, block := range section.Blocks {
			nodes, err := tei.ParseContent(block.XML)
			if err != nil {
				return "", err
			}
			container.Append(nodes...)
		}
	}

	return `<?xml version="1.0" encoding="utf-8"?>` + "\n" + root.String() + "\n", nil
}

func textElem(tag, text string) *tei.Elem {
	el := tei.NewElem(tag)
	el.Append(tei.Text(text))
	return el
}
