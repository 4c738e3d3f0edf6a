// Package progress derives percent-complete and time-remaining estimates
// from token, page, and book-level word counts.
package progress

import (
	"math"

	"github.com/foveareader/fovea/internal/pagination"
)

// Calculator holds the per-chapter and per-book inputs for progress
// queries. Prefix is the chapter's word-count-by-token array; BookWords
// holds each chapter's total word count (may be nil for single-chapter
// reading); Chapter is the current chapter's index into BookWords.
type Calculator struct {
	Prefix    []int
	Pages     []pagination.Page
	BookWords []int
	Chapter   int
	WPM       int
}

// Report is a snapshot of reading progress at a token position. ETA fields
// are only meaningful when their ok flag is set; missing word counts or a
// zero WPM degrade to absent estimates rather than zeros.
type Report struct {
	Percent int

	PageIndex        int
	WordsLeftPage    int
	WordsLeftChapter int
	WordsLeftBook    int

	PageMinutes    int
	PageETAOK      bool
	ChapterMinutes int
	ChapterETAOK   bool
	BookMinutes    int
	BookETAOK      bool
}

// At computes the progress report for the given token index. Out-of-range
// indices are clamped.
func (c *Calculator) At(tokenIndex int) Report {
	var r Report

	total := 0
	if len(c.Prefix) > 0 {
		total = c.Prefix[len(c.Prefix)-1]
	}
	read := wordsRead(c.Prefix, tokenIndex)

	r.Percent = Percent(read, total)
	r.WordsLeftChapter = total - read

	r.PageIndex = c.pageAt(tokenIndex)
	if r.PageIndex >= 0 {
		page := c.Pages[r.PageIndex]
		pageRead := read - wordsRead(c.Prefix, page.StartTokenIndex-1)
		r.WordsLeftPage = page.WordCount - pageRead
		if r.WordsLeftPage < 0 {
			r.WordsLeftPage = 0
		}
	}

	r.WordsLeftBook = r.WordsLeftChapter
	bookKnown := len(c.BookWords) > 0
	for i := c.Chapter + 1; i < len(c.BookWords); i++ {
		if c.BookWords[i] <= 0 {
			bookKnown = false
			break
		}
		r.WordsLeftBook += c.BookWords[i]
	}

	r.PageMinutes, r.PageETAOK = MinutesLeft(r.WordsLeftPage, c.WPM)
	r.ChapterMinutes, r.ChapterETAOK = MinutesLeft(r.WordsLeftChapter, c.WPM)
	if bookKnown {
		r.BookMinutes, r.BookETAOK = MinutesLeft(r.WordsLeftBook, c.WPM)
	}
	return r
}

// Percent returns words read over total as a whole percentage, rounded and
// clamped to [0, 100]. A zero total reports 0.
func Percent(read, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(read) / float64(total) * 100))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// MinutesLeft estimates reading time as words/wpm rounded to the nearest
// minute, with a minimum of 1 while any words remain. Returns ok=false when
// wpm is missing or words is negative.
func MinutesLeft(words, wpm int) (int, bool) {
	if wpm <= 0 || words < 0 {
		return 0, false
	}
	if words == 0 {
		return 0, true
	}
	m := int(math.Round(float64(words) / float64(wpm)))
	if m < 1 {
		m = 1
	}
	return m, true
}

// wordsRead counts words in tokens[0..tokenIndex] via the prefix array.
func wordsRead(prefix []int, tokenIndex int) int {
	if len(prefix) == 0 || tokenIndex < 0 {
		return 0
	}
	if tokenIndex >= len(prefix) {
		tokenIndex = len(prefix) - 1
	}
	return prefix[tokenIndex]
}

// pageAt returns the index of the page containing tokenIndex, or -1.
func (c *Calculator) pageAt(tokenIndex int) int {
	for _, p := range c.Pages {
		if tokenIndex >= p.StartTokenIndex && tokenIndex <= p.EndTokenIndex {
			return p.Index
		}
	}
	if n := len(c.Pages); n > 0 {
		if tokenIndex < c.Pages[0].StartTokenIndex {
			return 0
		}
		return n - 1
	}
	return -1
}
