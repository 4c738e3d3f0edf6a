package source

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// MarkdownSource implements Source for Markdown files: headers start new
// chapters.
type MarkdownSource struct{}

func init() {
	Register(&MarkdownSource{})
}

func (s *MarkdownSource) Name() string         { return "Markdown" }
func (s *MarkdownSource) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Chapters splits the document at headers. Text before the first header,
// or a document with no headers at all, becomes a "Document" chapter.
func (s *MarkdownSource) Chapters(filename string) ([]Chapter, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var chapters []Chapter
	title := "Document"
	var body strings.Builder

	flush := func() {
		if strings.TrimSpace(body.String()) != "" {
			chapters = append(chapters, Chapter{Title: title, Text: body.String()})
		}
		body.Reset()
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			title = strings.TrimSpace(match[2])
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return chapters, scanner.Err()
}

// TOC lists the document's headers, each resolved to the chapter index it
// opens. Runs the same pass as Chapters so indices line up even when a
// header has no body text of its own.
func (s *MarkdownSource) TOC(filename string) ([]TOCEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []TOCEntry
	produced := 0 // chapters flushed so far
	hasBody := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			if hasBody {
				produced++
				hasBody = false
			}
			entries = append(entries, TOCEntry{
				Title:   strings.TrimSpace(match[2]),
				Chapter: produced,
				Level:   len(match[1]) - 1, // h1 = level 0
			})
			continue
		}
		if strings.TrimSpace(line) != "" {
			hasBody = true
		}
	}
	if hasBody {
		produced++
	}

	// A trailing bodyless header would point one past the end.
	for i := range entries {
		if entries[i].Chapter >= produced && produced > 0 {
			entries[i].Chapter = produced - 1
		}
	}

	return entries, scanner.Err()
}
