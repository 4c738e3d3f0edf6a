// Package chapter runs the tokenize → paginate → index pipeline and caches
// the results per chapter, so navigation never recomputes a recently read
// chapter.
package chapter

import (
	"github.com/foveareader/fovea/internal/pagination"
	"github.com/foveareader/fovea/internal/token"
)

// Data is everything derived from one chapter's text. Immutable once
// produced; rebuilt from scratch on chapter reload.
type Data struct {
	Tokens           []token.Token
	Paragraphs       []token.Paragraph
	Pages            []pagination.Page
	WordCountByToken []int
	FirstWordIndex   int
}

// WordCount returns the chapter's total word count.
func (d *Data) WordCount() int {
	if len(d.WordCountByToken) == 0 {
		return 0
	}
	return d.WordCountByToken[len(d.WordCountByToken)-1]
}

// Empty reports whether the chapter has no displayable content. The
// presentation layer shows an explicit empty state for these.
func (d *Data) Empty() bool {
	return d.FirstWordIndex == token.NoWord
}

// Process derives all chapter structures from raw text, using chapterHTML
// for structural markers when available. Degenerate input produces empty
// collections and FirstWordIndex == token.NoWord, never an error.
func Process(text, chapterHTML string, wordsPerPage int) *Data {
	tokens := token.TokenizeHTML(text, chapterHTML)
	return &Data{
		Tokens:           tokens,
		Paragraphs:       token.Paragraphs(tokens),
		Pages:            pagination.BuildChapterPages(tokens, wordsPerPage),
		WordCountByToken: token.WordCountPrefix(tokens),
		FirstWordIndex:   token.FirstWordIndex(tokens),
	}
}
