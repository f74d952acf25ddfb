// Package segment turns unstructured page text into a best-guess sequence
// of typed proofing blocks. The heuristics are deliberately approximate:
// their output is always subject to human review, so segmentation never
// fails; it only varies in quality.
package segment

import (
	"regexp"
	"strings"

	"github.com/sahitya-io/grantha/core/proof"
)

// Devanagari sentence-final punctuation, used as verse-boundary signals.
const (
	danda       = "।"
	doubleDanda = "॥"
)

var footnoteMarkerRE = regexp.MustCompile(`^\[\^([^\]]+)\]\s*`)

// Page segments raw page text into a proof.Page.
//
// If the text already parses as a <page> document it is returned
// structured as-is. Otherwise the text is split on blank lines into
// candidate blocks, and each candidate is classified by the danda and
// language heuristics.
func Page(text string, pageID int) *proof.Page {
	text = strings.TrimSpace(text)
	if page, err := proof.ParsePage(text, pageID); err == nil {
		return page
	}

	page := &proof.Page{ID: pageID}
	if text == "" {
		return page
	}

	for _, content := range splitOnBlankLines(text) {
		page.Blocks = append(page.Blocks, classify(content))
	}
	return page
}

// splitOnBlankLines groups non-empty lines into blank-line-delimited
// candidate blocks, trimming each line.
func splitOnBlankLines(text string) []string {
	var blocks []string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cur = append(cur, line)
			continue
		}
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	if len(cur) > 0 {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return blocks
}

// classify assigns a block type to one candidate group.
func classify(content string) proof.Block {
	lang := DetectLanguage(content)

	if m := footnoteMarkerRE.FindStringSubmatch(content); m != nil {
		return proof.Block{
			Type:    proof.BlockFootnote,
			Content: content[len(m[0]):],
			Lang:    lang,
			Mark:    m[1],
		}
	}
	if lang == "sa" && isVerse(content) {
		return proof.Block{Type: proof.BlockVerse, Content: content, Lang: lang}
	}
	return proof.Block{Type: proof.BlockParagraph, Content: content, Lang: lang}
}

// isVerse applies the danda placement test: a two-line candidate is a
// verse when the first line contains a danda and the second a double
// danda; a four-line candidate when the second line contains a danda and
// the fourth a double danda.
func isVerse(text string) bool {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	switch len(lines) {
	case 2:
		return strings.Contains(lines[0], danda) && strings.Contains(lines[1], doubleDanda)
	case 4:
		return strings.Contains(lines[1], danda) && strings.Contains(lines[3], doubleDanda)
	default:
		return false
	}
}
