package proof

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	gerrors "github.com/sahitya-io/grantha/core/errors"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Page
	}{
		{
			name:  "empty page",
			input: "<page></page>",
			want:  &Page{ID: 0},
		},
		{
			name:  "verse",
			input: "<page><verse>अ</verse></page>",
			want:  &Page{Blocks: []Block{{Type: BlockVerse, Content: "अ"}}},
		},
		{
			name:  "paragraph",
			input: "<page><p>अ</p></page>",
			want:  &Page{Blocks: []Block{{Type: BlockParagraph, Content: "अ"}}},
		},
		{
			name:  "inline markup preserved",
			input: "<page><p>अ<fix>अ</fix></p></page>",
			want:  &Page{Blocks: []Block{{Type: BlockParagraph, Content: "अ<fix>अ</fix>"}}},
		},
		{
			name:  "merge-next true",
			input: `<page><p merge-next="true">अ</p></page>`,
			want:  &Page{Blocks: []Block{{Type: BlockParagraph, Content: "अ", MergeNext: true}}},
		},
		{
			name:  "merge-next false",
			input: `<page><p merge-next="false">अ</p></page>`,
			want:  &Page{Blocks: []Block{{Type: BlockParagraph, Content: "अ"}}},
		},
		{
			name:  "legacy merge-text",
			input: `<page><p merge-text="true">अ</p></page>`,
			want:  &Page{Blocks: []Block{{Type: BlockParagraph, Content: "अ", MergeNext: true}}},
		},
		{
			name:  "attributes",
			input: `<page><footnote lang="sa" mark="1">क</footnote></page>`,
			want: &Page{Blocks: []Block{{
				Type: BlockFootnote, Content: "क", Lang: "sa", Mark: "1",
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.input, 0)
			if err != nil {
				t.Fatalf("ParsePage(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePage(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePageWrongRoot(t *testing.T) {
	_, err := ParsePage("<foo></foo>", 0)
	if err == nil {
		t.Fatal("ParsePage should reject a non-page root")
	}
	var schemaErr *gerrors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("want SchemaError, got %T", err)
	}
	if len(schemaErr.Violations) != 1 {
		t.Errorf("wrong root is a single terminal violation, got %v", schemaErr.Violations)
	}
	if !strings.Contains(schemaErr.Violations[0], "page") {
		t.Errorf("violation should name the required root: %s", schemaErr.Violations[0])
	}
}

func TestRenderRoundTrip(t *testing.T) {
	page := &Page{
		ID: 7,
		Blocks: []Block{
			{Type: BlockTitle, Content: "शाकुन्तलम्", Lang: "sa"},
			{Type: BlockParagraph, Content: "अथ प्रथमोऽङ्कः", N: "1"},
			{Type: BlockVerse, Content: "क ।\nख ॥", N: "1.1", MergeNext: true},
			{Type: BlockFootnote, Content: "पाठभेदः", Mark: "१"},
		},
	}
	rendered := page.XML()
	reparsed, err := ParsePage(rendered, 7)
	if err != nil {
		t.Fatalf("reparse failed: %v\nrendered: %s", err, rendered)
	}
	if got := reparsed.XML(); got != rendered {
		t.Errorf("render→parse→render not idempotent:\nfirst:  %s\nsecond: %s", rendered, got)
	}
	if !reflect.DeepEqual(reparsed, page) {
		t.Errorf("round trip changed page:\nin:  %+v\nout: %+v", page, reparsed)
	}
}

func TestRenderEscapesBareAmpersand(t *testing.T) {
	page := &Page{Blocks: []Block{{Type: BlockParagraph, Content: "a & b &amp; c"}}}
	rendered := page.XML()
	if !strings.Contains(rendered, "a &amp; b &amp; c") {
		t.Errorf("bare ampersand should be escaped exactly once: %s", rendered)
	}
	if _, err := ParsePage(rendered, 0); err != nil {
		t.Errorf("rendered page should reparse: %v", err)
	}
}

func TestRenderAttributeOrder(t *testing.T) {
	page := &Page{Blocks: []Block{{
		Type: BlockParagraph, Content: "x", Lang: "sa", Text: "mula", N: "2", MergeNext: true,
	}}}
	want := `<p lang="sa" text="mula" n="2" merge-next="true">x</p>`
	if got := page.XML(); !strings.Contains(got, want) {
		t.Errorf("rendered block = %s, want to contain %s", got, want)
	}
}
