package source

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBSource implements Source for EPUB files. Every spine item becomes a
// chapter, keeping its raw XHTML so the tokenizer sees block structure and
// inline image markers.
type EPUBSource struct{}

func init() {
	Register(&EPUBSource{})
}

func (s *EPUBSource) Name() string         { return "EPUB" }
func (s *EPUBSource) Extensions() []string { return []string{".epub"} }

// Chapters extracts one chapter per spine item. Items with no readable
// words are skipped. Titles come from the NCX when it names the item,
// otherwise a positional fallback.
func (s *EPUBSource) Chapters(filename string) ([]Chapter, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	book := rc.Rootfiles[0]

	titleByHref := buildTitleHrefMap(filename, book)

	var chapters []Chapter
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		text := textFromHTML(string(data))
		if len(strings.Fields(text)) == 0 {
			continue
		}

		title := fmt.Sprintf("Section %d", i+1)
		if ref.Item.HREF != "" {
			if t, ok := titleByHref[ref.Item.HREF]; ok {
				title = t
			} else if t, ok := titleByHref[path.Base(ref.Item.HREF)]; ok {
				title = t
			}
		}

		chapters = append(chapters, Chapter{
			Title: title,
			Text:  text,
			HTML:  string(data),
		})
	}
	return chapters, nil
}

// textFromHTML flattens markup to whitespace-joined plain text.
func textFromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out.String()
}
