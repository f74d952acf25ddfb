package filter

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	gerrors "github.com/sahitya-io/grantha/core/errors"
	"github.com/sahitya-io/grantha/core/proof"
)

func mustFilter(t *testing.T, expr string) *Filter {
	t.Helper()
	f, err := New(expr)
	if err != nil {
		t.Fatalf("New(%q) error: %v", expr, err)
	}
	return f
}

func candidate(t *testing.T, image, index int, pageXML string) Candidate {
	t.Helper()
	page, err := proof.ParsePage(pageXML, 0)
	if err != nil {
		t.Fatalf("ParsePage(%q) error: %v", pageXML, err)
	}
	return Candidate{ImageNumber: image, BlockIndex: index, Blocks: page.Blocks}
}

func TestNewRejectsBadExpressions(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		message string // regex matched against the error
	}{
		{"missing open paren", "image 1", "must start with"},
		{"missing close paren", "(image 1", "missing closing parenthesis"},
		{"unbalanced close paren", "(image 1))", "unbalanced closing parenthesis"},
		{"too deep", strings.Repeat("(", 50) + "and" + strings.Repeat(")", 50), "depth"},
		{"unknown operation", "(frob 1)", "unknown operation"},
		{"bad image number", "(image x)", "bad image number"},
		{"not with atom", "(not 1)", "exactly one subexpression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.expr)
			if err == nil {
				t.Fatalf("New(%q) should fail", tt.expr)
			}
			if !errors.Is(err, gerrors.ErrFilterSyntax) {
				t.Errorf("New(%q) error should wrap ErrFilterSyntax, got %v", tt.expr, err)
			}
			if !regexp.MustCompile(tt.message).MatchString(err.Error()) {
				t.Errorf("New(%q) error = %q, want match for %q", tt.expr, err, tt.message)
			}
		})
	}
}

func TestMatchesImageSingle(t *testing.T) {
	f := mustFilter(t, "(image 3)")
	for image, want := range map[int]bool{2: false, 3: true, 4: false} {
		c := candidate(t, image, 0, "<page><p>a</p></page>")
		if got := f.Matches(c); got != want {
			t.Errorf("image %d: Matches = %v, want %v", image, got, want)
		}
	}
}

func TestMatchesImageRange(t *testing.T) {
	f := mustFilter(t, "(image 2 4)")
	for image, want := range map[int]bool{1: false, 2: true, 3: true, 4: true, 5: false} {
		c := candidate(t, image, 0, "<page><p>a</p></page>")
		if got := f.Matches(c); got != want {
			t.Errorf("image %d: Matches = %v, want %v", image, got, want)
		}
	}
}

func TestMatchesPageAlias(t *testing.T) {
	f := mustFilter(t, "(page 3)")
	if !f.Matches(candidate(t, 3, 0, "<page><p>a</p></page>")) {
		t.Error("(page 3) should match image 3")
	}
}

func TestMatchesLabel(t *testing.T) {
	f := mustFilter(t, "(label foo)")
	tests := []struct {
		name string
		c    Candidate
		want bool
	}{
		{"match", candidate(t, 1, 0, `<page><p text="foo">a</p></page>`), true},
		{"wrong label", candidate(t, 1, 0, `<page><p text="bar">a</p></page>`), false},
		{"no label", candidate(t, 1, 0, "<page><p>a</p></page>"), false},
	}
	for _, tt := range tests {
		if got := f.Matches(tt.c); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMatchesLabelSecondBlock(t *testing.T) {
	f := mustFilter(t, "(label bar)")
	c := candidate(t, 1, 1, `<page><p text="foo">a</p><p text="bar">b</p></page>`)
	if !f.Matches(c) {
		t.Error("label should match the candidate block, not just the first block")
	}
}

func TestMatchesTag(t *testing.T) {
	f := mustFilter(t, "(tag p)")
	if !f.Matches(candidate(t, 1, 0, "<page><p>a</p></page>")) {
		t.Error("(tag p) should match a paragraph")
	}
	if f.Matches(candidate(t, 1, 0, "<page><verse>a</verse></page>")) {
		t.Error("(tag p) should not match a verse")
	}
}

func TestMatchesAnd(t *testing.T) {
	f := mustFilter(t, "(and (image 2 4) (tag p))")
	if !f.Matches(candidate(t, 3, 0, "<page><p>a</p></page>")) {
		t.Error("matching block rejected")
	}
	if f.Matches(candidate(t, 3, 0, "<page><verse>a</verse></page>")) {
		t.Error("wrong tag accepted")
	}
	if f.Matches(candidate(t, 1, 0, "<page><p>a</p></page>")) {
		t.Error("wrong image accepted")
	}
}

func TestMatchesOr(t *testing.T) {
	f := mustFilter(t, "(or (image 1) (image 3))")
	for image, want := range map[int]bool{1: true, 2: false, 3: true} {
		if got := f.Matches(candidate(t, image, 0, "<page><p>a</p></page>")); got != want {
			t.Errorf("image %d: Matches = %v, want %v", image, got, want)
		}
	}
}

func TestMatchesNot(t *testing.T) {
	f := mustFilter(t, "(not (image 2))")
	for image, want := range map[int]bool{1: true, 2: false, 3: true} {
		if got := f.Matches(candidate(t, image, 0, "<page><p>a</p></page>")); got != want {
			t.Errorf("image %d: Matches = %v, want %v", image, got, want)
		}
	}
}

func TestMatchesEmptyAnd(t *testing.T) {
	f := mustFilter(t, "(and)")
	if !f.Matches(candidate(t, 1, 0, "<page><p>a</p></page>")) {
		t.Error("(and) should match everything")
	}
}

func TestMatchesImageSingleWithLabel(t *testing.T) {
	f := mustFilter(t, "(image 3:foo)")
	page := `<page><p text="foo">a</p><p text="bar">b</p></page>`
	if !f.Matches(candidate(t, 3, 0, page)) {
		t.Error("labeled block itself should match")
	}
	if f.Matches(candidate(t, 3, 1, page)) {
		t.Error("blocks after the labeled block should not match a single bound")
	}
	if f.Matches(candidate(t, 2, 0, `<page><p text="foo">a</p></page>`)) {
		t.Error("other images should not match")
	}
}

func TestMatchesImageRangeWithLabels(t *testing.T) {
	f := mustFilter(t, "(image 2:start 4:end)")
	if f.Matches(candidate(t, 1, 0, `<page><p text="x">a</p></page>`)) {
		t.Error("image before the range should not match")
	}
	page2 := `<page><p text="before">a</p><p text="start">b</p><p text="after">c</p></page>`
	if f.Matches(candidate(t, 2, 0, page2)) {
		t.Error("block before the start label should not match")
	}
	if !f.Matches(candidate(t, 2, 1, page2)) || !f.Matches(candidate(t, 2, 2, page2)) {
		t.Error("blocks from the start label onward should match")
	}
	if !f.Matches(candidate(t, 3, 0, "<page><p>a</p></page>")) {
		t.Error("interior pages match in full")
	}
	page4 := `<page><p text="end">a</p><p text="after">b</p></page>`
	if !f.Matches(candidate(t, 4, 0, page4)) {
		t.Error("block at the end label should match")
	}
	if f.Matches(candidate(t, 4, 1, page4)) {
		t.Error("blocks after the end label should not match")
	}
	if f.Matches(candidate(t, 5, 0, "<page><p>a</p></page>")) {
		t.Error("image after the range should not match")
	}
}

func TestMatchesImageLabelStartPlainEnd(t *testing.T) {
	f := mustFilter(t, "(image 2:mid 4)")
	page2 := `<page><p text="before">a</p><p text="mid">b</p></page>`
	if f.Matches(candidate(t, 2, 0, page2)) {
		t.Error("block before the start label should not match")
	}
	if !f.Matches(candidate(t, 2, 1, page2)) {
		t.Error("labeled block should match")
	}
	if !f.Matches(candidate(t, 4, 0, "<page><p>a</p></page>")) {
		t.Error("plain end bound should cover the whole page")
	}
}

func TestMatchesImagePlainStartLabelEnd(t *testing.T) {
	f := mustFilter(t, "(image 2 4:mid)")
	if !f.Matches(candidate(t, 2, 0, "<page><p>a</p></page>")) {
		t.Error("plain start bound should cover the whole page")
	}
	page4 := `<page><p text="mid">a</p><p text="after">b</p></page>`
	if !f.Matches(candidate(t, 4, 0, page4)) {
		t.Error("block at the end label should match")
	}
	if f.Matches(candidate(t, 4, 1, page4)) {
		t.Error("blocks after the end label should not match")
	}
}

func TestMatchesImageLabelNotFound(t *testing.T) {
	f := mustFilter(t, "(image 3:nonexistent)")
	if f.Matches(candidate(t, 3, 0, `<page><p text="other">a</p></page>`)) {
		t.Error("missing label should match nothing on its image")
	}
}

func TestMatchesImageLabelPicksFirst(t *testing.T) {
	f := mustFilter(t, "(image 3:dup)")
	page := `<page><p text="dup">a</p><p text="dup">b</p><p>c</p></page>`
	if !f.Matches(candidate(t, 3, 0, page)) {
		t.Error("first occurrence of the label should match")
	}
	if f.Matches(candidate(t, 3, 1, page)) || f.Matches(candidate(t, 3, 2, page)) {
		t.Error("only the first occurrence of the label should match")
	}
}
