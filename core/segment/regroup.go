package segment

import (
	"regexp"
	"strings"

	"github.com/sahitya-io/grantha/core/proof"
)

// Options controls the optional inline-mark heuristics applied by Regroup.
type Options struct {
	// MatchStage wraps parenthesized spans in <stage> marks.
	MatchStage bool
	// MatchSpeaker wraps a leading dash-terminated token in a <speaker> mark.
	MatchSpeaker bool
	// MatchChaya wraps bracketed spans in <chaya> marks.
	MatchChaya bool
}

var (
	footnoteStartRE = regexp.MustCompile(`^[०-९]+\.`)
	stageRE         = regexp.MustCompile(`(\(.*?\))`)
	speakerRE       = regexp.MustCompile(`^(\S+\s*[-–])(.+)`)
	chayaRE         = regexp.MustCompile(`(?s)(\[.*?\])`)
)

// Regroup restructures already-once-split text into typed blocks with no
// blank-line requirement. A line starting with a Devanagari numeral plus
// period opens a footnote run that continues until the next footnote-start
// line; danda-terminated line runs form two- or four-line verses; every
// other line becomes its own paragraph.
func Regroup(text string, opts Options) []proof.Block {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	type group struct {
		typ   proof.BlockType
		lines []string
	}

	keys := make([]int, len(lines)) // group index per line, -1 = unassigned
	for i := range keys {
		keys[i] = -1
	}
	types := map[int]proof.BlockType{}
	next := 0

	for i, line := range lines {
		switch {
		case footnoteStartRE.MatchString(line):
			for j := i; j < len(lines); j++ {
				keys[j] = next
			}
			types[next] = proof.BlockFootnote
			next++
		case isVerseFinalLine(line):
			if i > 0 && isVerseHalfLine(lines[i-1]) {
				for _, j := range []int{i - 1, i} {
					keys[j] = next
				}
				types[next] = proof.BlockVerse
				next++
			} else if i >= 3 &&
				!strings.Contains(lines[i-3], danda) &&
				isVerseHalfLine(lines[i-2]) &&
				!strings.Contains(lines[i-1], danda) {
				for j := i - 3; j <= i; j++ {
					keys[j] = next
				}
				types[next] = proof.BlockVerse
				next++
			}
		}
	}

	var groups []group
	index := map[int]int{} // heuristic group key -> position in groups
	for i, line := range lines {
		key := keys[i]
		if key < 0 {
			// Uncaptured lines each become their own paragraph.
			groups = append(groups, group{typ: proof.BlockParagraph, lines: []string{line}})
			continue
		}
		if at, ok := index[key]; ok {
			groups[at].lines = append(groups[at].lines, line)
		} else {
			index[key] = len(groups)
			groups = append(groups, group{typ: types[key], lines: []string{line}})
		}
	}

	blocks := make([]proof.Block, 0, len(groups))
	for _, g := range groups {
		content := strings.Join(g.lines, "\n")
		if opts.MatchStage {
			content = stageRE.ReplaceAllString(content, "<stage>$1</stage>")
		}
		if opts.MatchSpeaker {
			content = speakerRE.ReplaceAllString(content, "<speaker>$1</speaker>$2")
		}
		if opts.MatchChaya {
			content = chayaRE.ReplaceAllString(content, "<chaya>$1</chaya>")
		}
		blocks = append(blocks, proof.Block{Type: g.typ, Content: content})
	}
	return blocks
}

// isVerseHalfLine matches a line ending in exactly one danda.
func isVerseHalfLine(line string) bool {
	return strings.HasSuffix(line, danda) && strings.Count(line, danda) == 1
}

// isVerseFinalLine matches a line ending in a double danda with no single
// danda before it.
func isVerseFinalLine(line string) bool {
	return strings.HasSuffix(line, doubleDanda) && !strings.Contains(line, danda)
}
