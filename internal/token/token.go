// Package token converts raw chapter text into a typed token stream used by
// the pacing, pagination, and layout packages. Tokens are immutable once
// produced; every derived structure references original token indices.
package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Type classifies a token.
type Type int

const (
	Word Type = iota
	Punctuation
	ParagraphBreak
	PageBreak
)

func (t Type) String() string {
	switch t {
	case Word:
		return "WORD"
	case Punctuation:
		return "PUNCTUATION"
	case ParagraphBreak:
		return "PARAGRAPH_BREAK"
	case PageBreak:
		return "PAGE_BREAK"
	}
	return "UNKNOWN"
}

// Token is the atomic display unit. ORPIndex is a rune offset into Text and
// is only meaningful for Word tokens. A highlight span is present when
// HighlightEnd > HighlightStart (rune offsets, end exclusive).
type Token struct {
	Text           string
	Type           Type
	ORPIndex       int
	HighlightStart int
	HighlightEnd   int
}

// IsWord reports whether the token carries a readable word.
func (t Token) IsWord() bool { return t.Type == Word }

// IsBreak reports whether the token is a structural break.
func (t Token) IsBreak() bool { return t.Type == ParagraphBreak || t.Type == PageBreak }

// pageMarker forces a page boundary in plain text input.
const pageMarker = '\f'

// Tokenize splits chapter plain text into Word and Punctuation tokens with
// ParagraphBreak tokens at blank-line boundaries and PageBreak tokens at
// form-feed markers. Empty input yields no tokens.
func Tokenize(text string) []Token {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var acc accumulator
	for _, block := range splitBlocks(text) {
		switch block.kind {
		case blockParagraph:
			acc.paragraphBreak()
		case blockPage:
			acc.pageBreak()
		default:
			for _, field := range strings.Fields(block.text) {
				acc.field(field)
			}
		}
	}
	return acc.tokens
}

type blockKind int

const (
	blockText blockKind = iota
	blockParagraph
	blockPage
)

type block struct {
	kind blockKind
	text string
}

// splitBlocks carves text into runs of content separated by blank lines and
// page markers, preserving their order.
func splitBlocks(text string) []block {
	var blocks []block
	var cur strings.Builder
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			blocks = append(blocks, block{kind: blockText, text: cur.String()})
		}
		cur.Reset()
	}

	lines := strings.Split(text, "\n")
	blank := false
	for _, line := range lines {
		if i := strings.IndexRune(line, pageMarker); i >= 0 {
			cur.WriteString(strings.ReplaceAll(line[:i], string(pageMarker), " "))
			flush()
			blocks = append(blocks, block{kind: blockPage})
			rest := strings.ReplaceAll(line[i+1:], string(pageMarker), " ")
			cur.WriteString(rest)
			blank = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			blank = true
			continue
		}
		if blank && cur.Len() > 0 {
			flush()
			blocks = append(blocks, block{kind: blockParagraph})
		}
		blank = false
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush()
	return blocks
}

// accumulator threads tokenizer state through a single Tokenize call so that
// nothing leaks between chapters. Breaks collapse: a break token is only
// emitted between word-bearing content, never leading, trailing, or doubled.
type accumulator struct {
	tokens       []Token
	pendingBreak Type
	hasPending   bool
	hasContent   bool
}

func (a *accumulator) paragraphBreak() {
	if !a.hasContent {
		return
	}
	if !a.hasPending {
		a.pendingBreak = ParagraphBreak
		a.hasPending = true
	}
}

func (a *accumulator) pageBreak() {
	if !a.hasContent {
		return
	}
	// A page break outranks a pending paragraph break.
	a.pendingBreak = PageBreak
	a.hasPending = true
}

func (a *accumulator) flushBreak() {
	if a.hasPending {
		a.tokens = append(a.tokens, Token{Type: a.pendingBreak})
		a.hasPending = false
	}
}

// field splits one whitespace-delimited field into leading punctuation
// tokens, a word token, and trailing punctuation tokens. Each isolated
// punctuation rune becomes its own token.
func (a *accumulator) field(field string) {
	runes := []rune(field)

	start := 0
	for start < len(runes) && !isWordRune(runes[start]) {
		start++
	}
	end := len(runes)
	for end > start && !isWordRune(runes[end-1]) {
		end--
	}
	// Apostrophes and hyphens survive inside runes[start:end]; dangling
	// ones at either end were peeled above.

	var out []Token
	for _, r := range runes[:start] {
		out = append(out, Token{Text: string(r), Type: Punctuation})
	}
	if end > start {
		word := string(runes[start:end])
		out = append(out, Token{Text: word, Type: Word, ORPIndex: ORPIndex(word)})
	}
	for _, r := range runes[end:] {
		out = append(out, Token{Text: string(r), Type: Punctuation})
	}
	if len(out) == 0 {
		return
	}

	a.flushBreak()
	a.tokens = append(a.tokens, out...)
	a.hasContent = true
}

// isWordRune reports whether r can begin or end a word. Apostrophes and
// hyphens are kept when word-internal but peeled when they dangle.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ORPIndex returns the optimal recognition point for a word as a rune
// offset. The rule: start at floor((len-1)/2) — center with a slight left
// bias — then shift one rune left if that lands on a non-vowel whose left
// neighbor is a vowel. Always clamped into the word.
func ORPIndex(word string) int {
	runes := []rune(word)
	n := len(runes)
	if n <= 1 {
		return 0
	}
	i := (n - 1) / 2
	if !isVowel(runes[i]) && i > 0 && isVowel(runes[i-1]) {
		i--
	}
	return i
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
