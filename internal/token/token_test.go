package token

import (
	"strings"
	"testing"
)

func typesOf(tokens []Token) []Type {
	out := make([]Type, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func textsOf(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		texts []string
		types []Type
	}{
		{
			name:  "hello world",
			input: "Hello, world!",
			texts: []string{"Hello", ",", "world", "!"},
			types: []Type{Word, Punctuation, Word, Punctuation},
		},
		{
			name:  "empty",
			input: "",
			texts: []string{},
			types: []Type{},
		},
		{
			name:  "whitespace only",
			input: "  \n\t  ",
			texts: []string{},
			types: []Type{},
		},
		{
			name:  "paragraph break",
			input: "First paragraph.\n\nSecond paragraph.",
			texts: []string{"First", "paragraph", ".", "", "Second", "paragraph", "."},
			types: []Type{Word, Word, Punctuation, ParagraphBreak, Word, Word, Punctuation},
		},
		{
			name:  "page marker",
			input: "Before.\fAfter.",
			texts: []string{"Before", ".", "", "After", "."},
			types: []Type{Word, Punctuation, PageBreak, Word, Punctuation},
		},
		{
			name:  "quoted dialogue",
			input: `"Stop," she said.`,
			texts: []string{`"`, "Stop", ",", `"`, "she", "said", "."},
			types: []Type{Punctuation, Word, Punctuation, Punctuation, Word, Word, Punctuation},
		},
		{
			name:  "parenthetical",
			input: "A word (aside) here",
			texts: []string{"A", "word", "(", "aside", ")", "here"},
			types: []Type{Word, Word, Punctuation, Word, Punctuation, Word},
		},
		{
			name:  "internal apostrophe and hyphen kept",
			input: "don't well-known",
			texts: []string{"don't", "well-known"},
			types: []Type{Word, Word},
		},
		{
			name:  "dangling hyphen peeled",
			input: "wait -",
			texts: []string{"wait", "-"},
			types: []Type{Word, Punctuation},
		},
		{
			name:  "no leading or trailing breaks",
			input: "\n\nmiddle\n\n",
			texts: []string{"middle"},
			types: []Type{Word},
		},
		{
			name:  "ellipsis run",
			input: "Well...",
			texts: []string{"Well", ".", ".", "."},
			types: []Type{Word, Punctuation, Punctuation, Punctuation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.texts) {
				t.Fatalf("Tokenize(%q) = %v tokens, want %v\n%v", tt.input, len(got), len(tt.texts), textsOf(got))
			}
			for i := range got {
				if got[i].Text != tt.texts[i] || got[i].Type != tt.types[i] {
					t.Errorf("token[%d] = %q/%v, want %q/%v", i, got[i].Text, got[i].Type, tt.texts[i], tt.types[i])
				}
			}
		})
	}
}

func TestTokenizeIsStateless(t *testing.T) {
	// Unbalanced quotes in one chapter must not affect the next call.
	first := Tokenize(`"an unterminated quote`)
	second := Tokenize(`plain text`)
	if len(first) == 0 || len(second) != 2 {
		t.Fatalf("unexpected token counts: %d, %d", len(first), len(second))
	}
	for _, tok := range second {
		if tok.Type != Word {
			t.Errorf("second call produced %v token %q", tok.Type, tok.Text)
		}
	}
}

func TestORPIndex(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"", 0},
		{"a", 0},
		{"ab", 0},     // center 0 is a vowel
		{"to", 0},     // center 0 't', no left neighbor
		{"the", 1},    // center 1 'h', left 't' not vowel
		{"Hello", 1},  // center 2 'l', left 'e' vowel, shift
		{"world", 1},  // center 2 'r', left 'o' vowel, shift
		{"reading", 2}, // center 3 'd', left 'a' vowel, shift
		{"extraordinary", 5},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := ORPIndex(tt.word); got != tt.want {
				t.Errorf("ORPIndex(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}

func TestORPIndexInBounds(t *testing.T) {
	words := []string{"a", "it", "dog", "word", "supercalifragilisticexpialidocious", "Ärger"}
	for _, w := range words {
		orp := ORPIndex(w)
		if orp < 0 || orp >= len([]rune(w)) {
			t.Errorf("ORPIndex(%q) = %d out of bounds", w, orp)
		}
	}
}

func TestNearestWordIndex(t *testing.T) {
	tokens := Tokenize(`"Stop," she said.`)
	// Tokens: " Stop , " she said .
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"negative snaps to first word", -5, 1},
		{"beyond length snaps back", 100, 5},
		{"on punctuation snaps left first", 2, 1},
		{"on word stays", 4, 4},
		{"leading punctuation snaps right", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NearestWordIndex(tokens, tt.in)
			if got != tt.want {
				t.Errorf("NearestWordIndex(%d) = %d, want %d", tt.in, got, tt.want)
			}
			if again := NearestWordIndex(tokens, got); again != got {
				t.Errorf("not idempotent: NearestWordIndex(%d) = %d", got, again)
			}
		})
	}
}

func TestNearestWordIndexNoWords(t *testing.T) {
	if got := NearestWordIndex(nil, 0); got != NoWord {
		t.Errorf("empty list: got %d, want %d", got, NoWord)
	}
	punctOnly := []Token{{Text: "!", Type: Punctuation}, {Text: "?", Type: Punctuation}}
	if got := NearestWordIndex(punctOnly, 1); got != NoWord {
		t.Errorf("punctuation only: got %d, want %d", got, NoWord)
	}
}

func TestFirstWordIndex(t *testing.T) {
	if got := FirstWordIndex(nil); got != NoWord {
		t.Errorf("FirstWordIndex(nil) = %d, want %d", got, NoWord)
	}
	tokens := Tokenize(`"Hello!"`)
	if got := FirstWordIndex(tokens); got != 1 {
		t.Errorf("FirstWordIndex = %d, want 1", got)
	}
}

func TestWordCountPrefix(t *testing.T) {
	tokens := Tokenize("One two, three.\n\nFour!")
	prefix := WordCountPrefix(tokens)
	if len(prefix) != len(tokens) {
		t.Fatalf("prefix length %d, want %d", len(prefix), len(tokens))
	}
	last := 0
	for i, p := range prefix {
		if p < last {
			t.Errorf("prefix[%d] = %d decreases from %d", i, p, last)
		}
		last = p
	}
	if prefix[len(prefix)-1] != 4 {
		t.Errorf("total words = %d, want 4", prefix[len(prefix)-1])
	}
	if got := WordsInRange(prefix, 0, len(tokens)-1); got != 4 {
		t.Errorf("WordsInRange full = %d, want 4", got)
	}
	if got := WordsInRange(prefix, 2, 1); got != 0 {
		t.Errorf("WordsInRange inverted = %d, want 0", got)
	}
}

func TestParagraphs(t *testing.T) {
	tokens := Tokenize("First one here.\n\nSecond one.\n\nThird.")
	paras := Paragraphs(tokens)
	if len(paras) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(paras))
	}
	for _, p := range paras {
		if p.StartIndex < 0 || p.StartIndex >= len(tokens) {
			t.Errorf("paragraph start %d out of range", p.StartIndex)
		}
		if tokens[p.StartIndex].Text != p.Tokens[0].Text {
			t.Errorf("StartIndex does not translate: %q vs %q",
				tokens[p.StartIndex].Text, p.Tokens[0].Text)
		}
		for _, tok := range p.Tokens {
			if tok.IsBreak() {
				t.Error("paragraph contains a break token")
			}
		}
	}
}

func TestRenderRoundTrip(t *testing.T) {
	tests := []string{
		"Hello, world!",
		`"Stop," she said.`,
		"A word (aside) here",
		"One two, three; four: five.",
		"don't stop believing",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got := Render(Tokenize(input))
			if got != input {
				t.Errorf("Render(Tokenize(%q)) = %q", input, got)
			}
		})
	}
}

func TestRenderNormalizesWhitespace(t *testing.T) {
	got := Render(Tokenize("Spaced   out\ntext."))
	if got != "Spaced out text." {
		t.Errorf("got %q", got)
	}
}

func TestTokenizeHTML(t *testing.T) {
	text := "First paragraph. Second paragraph."
	htmlSrc := `<html><body><p>First paragraph.</p><p>Second paragraph.</p><img src="x.png"/><p>Third.</p></body></html>`

	tokens := TokenizeHTML(text, htmlSrc)
	var breaks, pages int
	for _, tok := range tokens {
		switch tok.Type {
		case ParagraphBreak:
			breaks++
		case PageBreak:
			pages++
		}
	}
	if breaks != 1 {
		t.Errorf("paragraph breaks = %d, want 1", breaks)
	}
	if pages != 1 {
		t.Errorf("page breaks = %d, want 1", pages)
	}
	if tokens[0].Text != "First" {
		t.Errorf("first token = %q", tokens[0].Text)
	}
}

func TestTokenizeHTMLFallsBack(t *testing.T) {
	tokens := TokenizeHTML("Plain words here.", "")
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4: %v", len(tokens), textsOf(tokens))
	}
}

func TestTokenizeHTMLSkipsScripts(t *testing.T) {
	tokens := TokenizeHTML("", `<html><body><script>var x = 1;</script><p>Visible</p></body></html>`)
	joined := strings.Join(textsOf(tokens), " ")
	if strings.Contains(joined, "var") {
		t.Errorf("script text leaked into tokens: %q", joined)
	}
	if !strings.Contains(joined, "Visible") {
		t.Errorf("visible text missing: %q", joined)
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("The quick brown fox, jumping over lazy dogs! ", 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Tokenize(text)
	}
}
