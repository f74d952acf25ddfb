package encoding

import "testing"

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{`say "hi"`, `say "hi"`},
		{"अ < क", "अ &lt; क"},
	}
	for _, tt := range tests {
		if got := EscapeXMLText(tt.input); got != tt.want {
			t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	got := EscapeXMLAttr(`a "b" & <c>`)
	want := "a &quot;b&quot; &amp; &lt;c&gt;"
	if got != want {
		t.Errorf("EscapeXMLAttr = %q, want %q", got, want)
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<ins class="x">`)
	want := "&lt;ins class=&quot;x&quot;&gt;"
	if got != want {
		t.Errorf("EscapeHTML = %q, want %q", got, want)
	}
}
