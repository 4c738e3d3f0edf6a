// Package source loads books and splits them into chapters for the engine.
// A chapter carries plain text and, when the format has it, the raw chapter
// markup so the tokenizer can use block structure for paragraph and page
// breaks.
package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Chapter is one unit of reading as delivered to the processing pipeline.
// HTML is empty for formats without markup.
type Chapter struct {
	Title string
	Text  string
	HTML  string
}

// WordEstimate is a cheap whitespace word count used for book-level ETA
// before a chapter has been tokenized.
func (c Chapter) WordEstimate() int {
	return len(strings.Fields(c.Text))
}

// TOCEntry points at a chapter by index.
type TOCEntry struct {
	Title   string
	Preview string
	Chapter int
	Level   int
}

// Source defines a file format loader.
type Source interface {
	Name() string
	Extensions() []string
	Chapters(filename string) ([]Chapter, error)
}

// TOCProvider is an optional interface for formats that support TOC
// extraction.
type TOCProvider interface {
	TOC(filename string) ([]TOCEntry, error)
}

var registry []Source

// Register adds a format loader to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// Load splits a file into chapters, using a registered format or a plain
// text fallback (the whole file as one chapter).
func Load(filename string) ([]Chapter, error) {
	if s := lookup(filename); s != nil {
		return s.Chapters(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return []Chapter{FromText(filepath.Base(filename), string(data))}, nil
}

// LoadTOC returns the table of contents when the file's format provides
// one, otherwise the chapter titles.
func LoadTOC(filename string) ([]TOCEntry, error) {
	if p, ok := lookup(filename).(TOCProvider); ok {
		return p.TOC(filename)
	}
	chapters, err := Load(filename)
	if err != nil {
		return nil, err
	}
	var entries []TOCEntry
	for i, c := range chapters {
		entries = append(entries, TOCEntry{Title: c.Title, Chapter: i, Preview: preview(c.Text)})
	}
	return entries, nil
}

// FromText wraps raw text as a single chapter, for stdin and plain files.
func FromText(title, text string) Chapter {
	return Chapter{Title: title, Text: text}
}

// Supported returns registered format names with their extensions.
func Supported() []string {
	var out []string
	for _, s := range registry {
		out = append(out, s.Name()+" ("+strings.Join(s.Extensions(), ", ")+")")
	}
	return out
}

func lookup(filename string) Source {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range registry {
		for _, e := range s.Extensions() {
			if ext == e {
				return s
			}
		}
	}
	return nil
}

// preview returns the first few words of a chapter for TOC display.
func preview(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if len(words) > 10 {
		return strings.Join(words[:10], " ") + "..."
	}
	return strings.Join(words, " ")
}
