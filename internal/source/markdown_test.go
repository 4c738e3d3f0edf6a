package source

import (
	"os"
	"path/filepath"
	"testing"
)

const markdownDoc = `# Chapter One

First chapter text here.
More of the first chapter.

## A Subsection

Subsection text.

# Chapter Two

Second chapter text.
`

func writeMarkdown(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestMarkdownChapters(t *testing.T) {
	s := &MarkdownSource{}
	chapters, err := s.Chapters(writeMarkdown(t, markdownDoc))
	if err != nil {
		t.Fatalf("Chapters: %v", err)
	}

	wantTitles := []string{"Chapter One", "A Subsection", "Chapter Two"}
	if len(chapters) != len(wantTitles) {
		t.Fatalf("got %d chapters, want %d", len(chapters), len(wantTitles))
	}
	for i, want := range wantTitles {
		if chapters[i].Title != want {
			t.Errorf("chapter %d title = %q, want %q", i, chapters[i].Title, want)
		}
	}
	if chapters[0].WordEstimate() != 9 {
		t.Errorf("chapter 0 words = %d, want 9", chapters[0].WordEstimate())
	}
}

func TestMarkdownChaptersNoHeaders(t *testing.T) {
	s := &MarkdownSource{}
	chapters, err := s.Chapters(writeMarkdown(t, "no headers at all\njust text\n"))
	if err != nil {
		t.Fatalf("Chapters: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if chapters[0].Title != "Document" {
		t.Errorf("title = %q, want Document", chapters[0].Title)
	}
}

func TestMarkdownChaptersPreamble(t *testing.T) {
	s := &MarkdownSource{}
	chapters, err := s.Chapters(writeMarkdown(t, "preamble text\n\n# Real Chapter\n\nbody\n"))
	if err != nil {
		t.Fatalf("Chapters: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if chapters[0].Title != "Document" || chapters[1].Title != "Real Chapter" {
		t.Errorf("titles = %q, %q", chapters[0].Title, chapters[1].Title)
	}
}

func TestMarkdownTOC(t *testing.T) {
	s := &MarkdownSource{}
	entries, err := s.TOC(writeMarkdown(t, markdownDoc))
	if err != nil {
		t.Fatalf("TOC: %v", err)
	}

	want := []TOCEntry{
		{Title: "Chapter One", Chapter: 0, Level: 0},
		{Title: "A Subsection", Chapter: 1, Level: 1},
		{Title: "Chapter Two", Chapter: 2, Level: 0},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestMarkdownTOCBodylessHeader(t *testing.T) {
	s := &MarkdownSource{}
	path := writeMarkdown(t, "# Empty Heading\n# Full Heading\n\ntext\n")

	chapters, err := s.Chapters(path)
	if err != nil {
		t.Fatalf("Chapters: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}

	entries, err := s.TOC(path)
	if err != nil {
		t.Fatalf("TOC: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for i, e := range entries {
		if e.Chapter != 0 {
			t.Errorf("entry %d chapter = %d, want 0", i, e.Chapter)
		}
	}
}
