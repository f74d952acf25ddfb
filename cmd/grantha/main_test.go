package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPageIDFromName(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"page_043.xml", 43},
		{"/data/book/12.xml", 12},
		{"7.xml", 7},
		{"cover.xml", 0},
	}
	for _, tt := range tests {
		if got := pageIDFromName(tt.path); got != tt.want {
			t.Errorf("pageIDFromName(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}

func TestLoadPages(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("2.xml", `<page><p>second</p></page>`)
	write("1.xml", `<page><p>first</p></page>`)
	write("notes.txt", "ignored")

	pages, err := loadPages(dir)
	if err != nil {
		t.Fatalf("loadPages error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if pages[0].Page.ID != 1 || pages[1].Page.ID != 2 {
		t.Errorf("page order = %d, %d", pages[0].Page.ID, pages[1].Page.ID)
	}
	if pages[0].ImageNumber != 1 || pages[1].ImageNumber != 2 {
		t.Errorf("image numbers = %d, %d", pages[0].ImageNumber, pages[1].ImageNumber)
	}
	if pages[0].Page.Blocks[0].Content != "first" {
		t.Errorf("block content = %q", pages[0].Page.Blocks[0].Content)
	}
}

func TestLoadPagesRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.xml")
	if err := os.WriteFile(path, []byte(`<page><bogus>x</bogus></page>`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadPages(dir); err == nil {
		t.Error("invalid page should abort loading")
	}
}
