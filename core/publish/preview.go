package publish

import (
	"github.com/sahitya-io/grantha/core/align"
)

// DiffKind classifies one entry of a republish preview.
type DiffKind string

const (
	DiffAdded   DiffKind = "added"
	DiffRemoved DiffKind = "removed"
	DiffChanged DiffKind = "changed"
)

// Diff is one block-level change a republish would make.
type Diff struct {
	Kind DiffKind
	// HTML is the rendered change: the new fragment for additions, the
	// old fragment for removals, and an inline ins/del diff for changes.
	HTML string
}

// Preview compares previously published block fragments against a fresh
// publish run and reports what would change. Unchanged blocks produce no
// entry.
func Preview(oldXMLs []string, doc *Document) []Diff {
	var newXMLs []string
	for _, section := range doc.Sections {
		for _, block := range section.Blocks {
			newXMLs = append(newXMLs, block.XML)
		}
	}

	var diffs []Diff
	for _, pair := range align.Pairs(oldXMLs, newXMLs) {
		switch {
		case pair.Old < 0:
			diffs = append(diffs, Diff{Kind: DiffAdded, HTML: align.DiffHTML("", newXMLs[pair.New])})
		case pair.New < 0:
			diffs = append(diffs, Diff{Kind: DiffRemoved, HTML: align.DiffHTML(oldXMLs[pair.Old], "")})
		case oldXMLs[pair.Old] != newXMLs[pair.New]:
			diffs = append(diffs, Diff{
				Kind: DiffChanged,
				HTML: align.DiffHTML(oldXMLs[pair.Old], newXMLs[pair.New]),
			})
		}
	}
	return diffs
}
