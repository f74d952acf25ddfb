package align

import (
	"reflect"
	"strings"
	"testing"
)

func TestOpcodes(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []Op
	}{
		{
			name: "identical",
			a:    []string{"a", "b"},
			b:    []string{"a", "b"},
			want: []Op{{OpEqual, 0, 2, 0, 2}},
		},
		{
			name: "replace in the middle",
			a:    []string{"a", "b", "c"},
			b:    []string{"a", "x", "c"},
			want: []Op{
				{OpEqual, 0, 1, 0, 1},
				{OpReplace, 1, 2, 1, 2},
				{OpEqual, 2, 3, 2, 3},
			},
		},
		{
			name: "insert",
			a:    []string{"a", "c"},
			b:    []string{"a", "b", "c"},
			want: []Op{
				{OpEqual, 0, 1, 0, 1},
				{OpInsert, 1, 1, 1, 2},
				{OpEqual, 1, 2, 2, 3},
			},
		},
		{
			name: "delete",
			a:    []string{"a", "b", "c"},
			b:    []string{"a", "c"},
			want: []Op{
				{OpEqual, 0, 1, 0, 1},
				{OpDelete, 1, 2, 1, 1},
				{OpEqual, 2, 3, 1, 2},
			},
		},
		{
			name: "all new",
			a:    nil,
			b:    []string{"x"},
			want: []Op{{OpInsert, 0, 0, 0, 1}},
		},
		{
			name: "all gone",
			a:    []string{"x"},
			b:    nil,
			want: []Op{{OpDelete, 0, 1, 0, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Opcodes(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Opcodes(%v, %v) = %+v, want %+v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPairs(t *testing.T) {
	tests := []struct {
		name     string
		old, new []string
		want     []Pair
	}{
		{
			name: "replace pairs positionally",
			old:  []string{"a", "b", "c"},
			new:  []string{"a", "x", "c"},
			want: []Pair{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			name: "uneven replace spills into inserts",
			old:  []string{"a", "b", "z"},
			new:  []string{"a", "x", "y", "z"},
			want: []Pair{{0, 0}, {1, 1}, {-1, 2}, {2, 3}},
		},
		{
			name: "uneven replace spills into deletes",
			old:  []string{"a", "b", "c", "z"},
			new:  []string{"a", "x", "z"},
			want: []Pair{{0, 0}, {1, 1}, {2, -1}, {3, 2}},
		},
		{
			name: "pure insert",
			old:  []string{"a"},
			new:  []string{"a", "b"},
			want: []Pair{{0, 0}, {-1, 1}},
		},
		{
			name: "pure delete",
			old:  []string{"a", "b"},
			new:  []string{"a"},
			want: []Pair{{0, 0}, {1, -1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pairs(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pairs(%v, %v) = %+v, want %+v", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

func TestTextOpsGraphemes(t *testing.T) {
	// की is one grapheme (consonant plus vowel sign); a diff must never
	// split it.
	ops := TextOps("की", "के")
	if len(ops) != 1 || ops[0].Op != OpReplace {
		t.Fatalf("ops = %+v, want a single replace", ops)
	}
	if ops[0].Old != "की" || ops[0].New != "के" {
		t.Errorf("replace = %+v, want whole graphemes", ops[0])
	}
}

func TestDiffHTML(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want string
	}{
		{"equal", "abc", "abc", "abc"},
		{"insert", "ac", "abc", "a<ins>b</ins>c"},
		{"delete", "abc", "ac", "a<del>b</del>c"},
		{"replace", "abc", "axc", "a<del>b</del><ins>x</ins>c"},
		{"newline gets block class", "a", "a\n", `a<ins class="block">` + "\n" + "</ins>"},
		{"escapes markup", "a<b", "a<c", "a&lt;<del>b</del><ins>c</ins>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiffHTML(tt.old, tt.new); got != tt.want {
				t.Errorf("DiffHTML(%q, %q) = %q, want %q", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

func TestDiffHTMLLongCommonPrefix(t *testing.T) {
	old := strings.Repeat("x", 20) + "a"
	new := strings.Repeat("x", 20) + "b"
	got := DiffHTML(old, new)
	want := strings.Repeat("x", 20) + "<del>a</del><ins>b</ins>"
	if got != want {
		t.Errorf("DiffHTML = %q, want %q", got, want)
	}
}
