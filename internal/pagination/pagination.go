// Package pagination groups a chapter's tokens into fixed-target-size pages
// using sentence and paragraph boundary search, for progress display and
// page-based navigation.
package pagination

import "github.com/foveareader/fovea/internal/token"

// Page is a derived pagination unit. Start and End are inclusive indices
// into the chapter's token list. Pages partition the chapter's word tokens
// in ascending order; they are rebuilt whenever the token list changes.
type Page struct {
	Index           int
	StartTokenIndex int
	EndTokenIndex   int
	WordCount       int
}

// Band ratios around the target word count. A page cuts at the best
// boundary at or past minRatio, prefers boundaries past nearRatio, and
// never runs past maxRatio except to finish a trailing punctuation run.
const (
	minRatio  = 0.75
	maxRatio  = 1.25
	nearRatio = 0.9
)

// BuildChapterPages scans tokens into pages of roughly wordsPerPage words,
// cutting at paragraph breaks or sentence-ending punctuation where
// possible, and never inside unbalanced brackets. PageBreak tokens force an
// immediate cut. Empty input yields no pages.
func BuildChapterPages(tokens []token.Token, wordsPerPage int) []Page {
	if len(tokens) == 0 || wordsPerPage <= 0 {
		return nil
	}

	minWords := int(float64(wordsPerPage) * minRatio)
	maxWords := int(float64(wordsPerPage) * maxRatio)
	targetWords := wordsPerPage
	minTargetWords := int(float64(targetWords) * nearRatio)
	maxExtraWords := clampInt(wordsPerPage/5, 10, 60)

	var pages []Page
	start := 0
	for start < len(tokens) {
		end, words := scanPage(tokens, start, minWords, maxWords, targetWords, minTargetWords, maxExtraWords)
		pages = append(pages, Page{
			Index:           len(pages),
			StartTokenIndex: start,
			EndTokenIndex:   end,
			WordCount:       words,
		})
		start = end + 1
	}
	return pages
}

// scanPage finds the end index (inclusive) of the page starting at start.
func scanPage(tokens []token.Token, start, minWords, maxWords, targetWords, minTargetWords, maxExtraWords int) (int, int) {
	wordCount := 0
	parenDepth := 0
	boundary := -1
	boundaryWords := 0
	targetIdx := -1
	targetIdxWords := 0
	hitMax := false

	i := start
	for ; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.Type == token.PageBreak {
			// Structural break always wins, regardless of word count.
			return i, wordCount
		}

		switch tok.Type {
		case token.Word:
			wordCount++
			if wordCount == targetWords {
				targetIdx = i
				targetIdxWords = wordCount
			}
		case token.Punctuation:
			parenDepth = adjustDepth(parenDepth, tok.Text)
		}

		if wordCount >= minWords && parenDepth == 0 && isBoundary(tokens, i) {
			boundary = i
			boundaryWords = wordCount
		}

		if wordCount >= maxWords {
			hitMax = true
			i++
			break
		}
		if wordCount >= targetWords && boundaryWords >= minTargetWords {
			break
		}
	}

	if i >= len(tokens) {
		return len(tokens) - 1, wordCount
	}

	if boundary >= 0 && (boundaryWords >= minTargetWords || hitMax) {
		return extendThroughPunctuation(tokens, boundary), boundaryWords
	}

	// No good boundary yet: search a little further before hard-cutting.
	extra := 0
	for j := i; j < len(tokens) && extra <= maxExtraWords; j++ {
		tok := tokens[j]
		if tok.Type == token.PageBreak {
			return j, wordCount + extra
		}
		switch tok.Type {
		case token.Word:
			extra++
		case token.Punctuation:
			parenDepth = adjustDepth(parenDepth, tok.Text)
		}
		if parenDepth == 0 && isBoundary(tokens, j) {
			return extendThroughPunctuation(tokens, j), wordCount + extra
		}
	}

	if boundary >= 0 {
		return extendThroughPunctuation(tokens, boundary), boundaryWords
	}

	// Hard cut at the target position when we tracked one, else right
	// before the scan stopped.
	if targetIdx >= 0 {
		return extendThroughPunctuation(tokens, targetIdx), targetIdxWords
	}
	end := i - 1
	if end < start {
		end = start
	}
	return extendThroughPunctuation(tokens, end), countWords(tokens, start, end)
}

// isBoundary reports whether a cut after tokens[i] lands on a readability
// boundary: a paragraph break or sentence-ending punctuation.
func isBoundary(tokens []token.Token, i int) bool {
	tok := tokens[i]
	if tok.Type == token.ParagraphBreak {
		return true
	}
	if tok.Type != token.Punctuation {
		return false
	}
	switch tok.Text {
	case ".", "!", "?", "…":
		return true
	}
	return false
}

// extendThroughPunctuation moves end forward through a trailing run of
// non-bracket punctuation so a page never ends mid-run ("..." or .").
func extendThroughPunctuation(tokens []token.Token, end int) int {
	for end+1 < len(tokens) && tokens[end+1].Type == token.Punctuation && !isBracket(tokens[end+1].Text) {
		end++
	}
	return end
}

func isBracket(s string) bool {
	switch s {
	case "(", ")", "[", "]", "{", "}":
		return true
	}
	return false
}

func adjustDepth(depth int, s string) int {
	switch s {
	case "(", "[", "{":
		return depth + 1
	case ")", "]", "}":
		if depth > 0 {
			return depth - 1
		}
	}
	return depth
}

func countWords(tokens []token.Token, start, end int) int {
	n := 0
	for i := start; i <= end && i < len(tokens); i++ {
		if tokens[i].IsWord() {
			n++
		}
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
