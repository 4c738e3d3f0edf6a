package token

import "strings"

// NoWord is the sentinel returned by index lookups when a token list has no
// Word tokens. Presentation layers treat it as the empty state.
const NoWord = -1

// NearestWordIndex snaps any index, including out-of-range ones, to the
// nearest Word token index. Ties prefer the earlier token. Returns NoWord
// when the list contains no words. Idempotent for valid results.
func NearestWordIndex(tokens []Token, i int) int {
	if len(tokens) == 0 {
		return NoWord
	}
	if i < 0 {
		i = 0
	}
	if i >= len(tokens) {
		i = len(tokens) - 1
	}
	for d := 0; d < len(tokens); d++ {
		if j := i - d; j >= 0 && tokens[j].IsWord() {
			return j
		}
		if j := i + d; j < len(tokens) && tokens[j].IsWord() {
			return j
		}
	}
	return NoWord
}

// FirstWordIndex returns the index of the first Word token, or NoWord.
func FirstWordIndex(tokens []Token) int {
	for i, t := range tokens {
		if t.IsWord() {
			return i
		}
	}
	return NoWord
}

// WordCountPrefix builds a prefix array where entry i holds the number of
// Word tokens in tokens[0..i]. Monotonically non-decreasing; supports O(1)
// word counts over any token range.
func WordCountPrefix(tokens []Token) []int {
	prefix := make([]int, len(tokens))
	count := 0
	for i, t := range tokens {
		if t.IsWord() {
			count++
		}
		prefix[i] = count
	}
	return prefix
}

// WordsInRange counts Word tokens in the inclusive token range [start, end]
// using a prefix array from WordCountPrefix.
func WordsInRange(prefix []int, start, end int) int {
	if len(prefix) == 0 || end < start {
		return 0
	}
	if end >= len(prefix) {
		end = len(prefix) - 1
	}
	if start <= 0 {
		return prefix[end]
	}
	return prefix[end] - prefix[start-1]
}

// Paragraph is a contiguous run of tokens between structural breaks.
// StartIndex is the run's offset into the parent token list.
type Paragraph struct {
	StartIndex int
	Tokens     []Token
}

// Paragraphs splits a token list into paragraphs. Break tokens delimit
// paragraphs and belong to none of them.
func Paragraphs(tokens []Token) []Paragraph {
	var paras []Paragraph
	start := -1
	for i, t := range tokens {
		if t.IsBreak() {
			if start >= 0 {
				paras = append(paras, Paragraph{StartIndex: start, Tokens: tokens[start:i]})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		paras = append(paras, Paragraph{StartIndex: start, Tokens: tokens[start:]})
	}
	return paras
}

// openingPunct attaches forward to the following word when rendering.
func openingPunct(s string) bool {
	switch s {
	case "(", "[", "{", "“", "‘", "«", "¿", "¡":
		return true
	}
	return false
}

// Render joins token texts back into display text using the spacing rules:
// opening punctuation attaches forward, closing punctuation attaches
// backward, paragraph breaks become a single blank line separator. Straight
// quotes alternate open/close by parity, tracked per call.
func Render(tokens []Token) string {
	var sb strings.Builder
	quoteOpen := map[string]bool{}
	glue := true // no separator before the first token or after a break/opener

	for _, t := range tokens {
		switch t.Type {
		case ParagraphBreak, PageBreak:
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			glue = true
			continue
		}

		opening := openingPunct(t.Text)
		if t.Type == Punctuation && (t.Text == `"` || t.Text == "'") {
			opening = !quoteOpen[t.Text]
			quoteOpen[t.Text] = opening
		}

		if !glue && !(t.Type == Punctuation && !opening) {
			sb.WriteString(" ")
		}
		sb.WriteString(t.Text)
		glue = t.Type == Punctuation && opening
	}
	return sb.String()
}
