package token

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// blockTags are HTML elements whose boundaries become paragraph breaks.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "pre": true, "tr": true, "br": true,
	"figcaption": true, "dt": true, "dd": true,
}

// pageTags are HTML elements that force a page break. Inline images and
// horizontal rules mark structural cuts in chapter content.
var pageTags = map[string]bool{
	"img": true, "hr": true, "svg": true,
}

// skipTags are subtrees with no readable text.
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "noscript": true,
}

// TokenizeHTML tokenizes a chapter using its HTML for structural markers:
// block-level element boundaries become ParagraphBreak tokens and
// image/rule elements become PageBreak tokens. When chapterHTML is empty it
// falls back to Tokenize on the plain text.
func TokenizeHTML(text, chapterHTML string) []Token {
	if strings.TrimSpace(chapterHTML) == "" {
		return Tokenize(text)
	}

	doc, err := html.Parse(strings.NewReader(chapterHTML))
	if err != nil {
		return Tokenize(text)
	}

	var acc accumulator
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTags[n.Data] {
				return
			}
			if pageTags[n.Data] {
				acc.pageBreak()
				return
			}
			if blockTags[n.Data] {
				acc.paragraphBreak()
			}
		}
		if n.Type == html.TextNode {
			data := norm.NFC.String(n.Data)
			for _, field := range strings.Fields(data) {
				acc.field(field)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			acc.paragraphBreak()
		}
	}
	walk(doc)
	return acc.tokens
}
