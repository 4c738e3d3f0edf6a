package pacing

import (
	"math"
	"strings"

	"github.com/foveareader/fovea/internal/token"
)

// Frame is one timed RSVP display unit: one or more tokens shown together.
// OriginalTokenIndex is the anchor word's index in the source token list,
// used to map playback position back to text. DurationMs is the base
// display time before live tempo scaling.
type Frame struct {
	Text               string
	Tokens             []token.Token
	OriginalTokenIndex int
	DurationMs         float64
	Blink              bool
}

// GenerateFrames converts tokens[startIndex:] into a frame list under cfg.
// Pure and deterministic: identical inputs always produce identical output.
// Break tokens produce no frame but add the paragraph pause to the
// preceding frame. Callers clamp cfg before passing it in.
func GenerateFrames(tokens []token.Token, startIndex int, cfg Config) []Frame {
	if len(tokens) == 0 {
		return nil
	}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(tokens) {
		return nil
	}

	pauseScale := pauseScaleFor(cfg)
	chunkLimit := 1
	if cfg.EnablePhraseChunking {
		chunkLimit = cfg.WordsPerFrame
		if chunkLimit < 2 {
			chunkLimit = 2
		}
	}

	var (
		frames        []Frame
		prefix        []token.Token
		prefixPause   float64
		parenDepth    int
		inDialogue    bool
		clausePending bool
		ema           float64
		emaSet        bool
	)

	i := startIndex
	for i < len(tokens) {
		tok := tokens[i]

		switch tok.Type {
		case token.ParagraphBreak, token.PageBreak:
			if len(frames) > 0 {
				frames[len(frames)-1].DurationMs += cfg.ParagraphPauseMs * pauseScale
			}
			clausePending = false
			i++
			continue

		case token.Punctuation:
			if isOpening(tok.Text, inDialogue) {
				parenDepth, inDialogue = applyPunct(tok.Text, parenDepth, inDialogue)
				prefix = append(prefix, tok)
				prefixPause += pauseFor(tok.Text, cfg)
				i++
				continue
			}
			// Closing punctuation with no word in flight (after a break,
			// or at the very start) attaches to the previous frame.
			parenDepth, inDialogue = applyPunct(tok.Text, parenDepth, inDialogue)
			if len(frames) > 0 {
				last := &frames[len(frames)-1]
				last.Text += tok.Text
				last.Tokens = append(last.Tokens, tok)
				last.DurationMs += pauseFor(tok.Text, cfg) * pauseScale
			}
			i++
			continue
		}

		// Word: start a frame, possibly chunked with following short words.
		anchor := i
		var words []token.Token
		duration := 0.0
		startedClause := clausePending
		clausePending = false

		for {
			w := tokens[i]
			words = append(words, w)
			duration += wordDuration(w.Text, cfg, parenDepth, inDialogue, startedClause)
			startedClause = false
			i++

			if len(words) >= chunkLimit {
				break
			}
			if runeLen(w.Text) > cfg.ChunkMaxWordLen {
				break
			}
			if i >= len(tokens) || !tokens[i].IsWord() || runeLen(tokens[i].Text) > cfg.ChunkMaxWordLen {
				break
			}
		}

		// Smooth the word portion across frames, then re-apply the floor so
		// smoothing can never dip below it.
		if cfg.SmoothingAlpha > 0 && cfg.SmoothingAlpha < 1 && emaSet {
			duration = cfg.SmoothingAlpha*duration + (1-cfg.SmoothingAlpha)*ema
		}
		ema = duration
		emaSet = true
		if duration < cfg.MinWordMs {
			duration = cfg.MinWordMs
		}

		// Trailing punctuation attaches to this frame and compounds its
		// pauses additively before scaling.
		var trailing []token.Token
		rawPause := prefixPause
		for i < len(tokens) && tokens[i].Type == token.Punctuation && !isOpening(tokens[i].Text, inDialogue) {
			p := tokens[i]
			parenDepth, inDialogue = applyPunct(p.Text, parenDepth, inDialogue)
			trailing = append(trailing, p)
			rawPause += pauseFor(p.Text, cfg)
			if isClausePunct(p.Text) {
				clausePending = true
			}
			i++
		}
		duration += rawPause * pauseScale

		frame := Frame{
			Text:               frameText(prefix, words, trailing),
			Tokens:             concatTokens(prefix, words, trailing),
			OriginalTokenIndex: anchor,
			DurationMs:         duration,
		}
		if cfg.HighlightSyllables && len(words) == 1 {
			markFirstSyllable(&frame)
		}
		switch cfg.BlinkMode {
		case BlinkSubtle:
			frame.Blink = true
		case BlinkAdaptive:
			frame.Blink = duration >= cfg.BlinkThresholdMs
		}

		frames = append(frames, frame)
		prefix = nil
		prefixPause = 0
	}

	return frames
}

// ScaledDuration applies a live tempo change to a frame duration without
// regenerating frames: duration scales linearly with the tempo ratio,
// floored at minFrameMs. This is the only config change applied live.
func ScaledDuration(durationMs, originalTempoMs, currentTempoMs, minFrameMs float64) float64 {
	scaled := durationMs
	if originalTempoMs > 0 && currentTempoMs > 0 {
		scaled = durationMs * currentTempoMs / originalTempoMs
	}
	if scaled < minFrameMs {
		scaled = minFrameMs
	}
	return scaled
}

// wordDuration implements the per-word difficulty model: base tempo, long
// word floor, syllable and rarity boosts, contextual multipliers, clause
// pause, and the MinWordMs floor.
func wordDuration(word string, cfg Config, parenDepth int, inDialogue, clauseStart bool) float64 {
	d := cfg.TempoMsPerWord

	if runeLen(word) >= cfg.LongWordChars && d < cfg.LongWordMinMs {
		d = cfg.LongWordMinMs
	}
	if s := Syllables(word); s > 1 {
		d += cfg.SyllableExtraMs * float64(s-1)
	}
	d += cfg.RarityExtraMaxMs * Rarity(word) * cfg.ComplexityStrength

	if parenDepth > 0 {
		d *= cfg.ParentheticalMultiplier
	}
	if inDialogue {
		d *= cfg.DialogueMultiplier
	}
	if cfg.UseClausePausing && clauseStart {
		d += cfg.TempoMsPerWord * cfg.ClausePauseFactor
	}

	if d < cfg.MinWordMs {
		d = cfg.MinWordMs
	}
	return d
}

// pauseScaleFor compresses pauses at speed without letting them vanish:
// max(MinPauseScale, tempoRatio^PauseScaleExponent).
func pauseScaleFor(cfg Config) float64 {
	if cfg.ReferenceTempoMsPerWord <= 0 {
		return 1
	}
	ratio := cfg.TempoMsPerWord / cfg.ReferenceTempoMsPerWord
	scale := math.Pow(ratio, cfg.PauseScaleExponent)
	if scale < cfg.MinPauseScale {
		scale = cfg.MinPauseScale
	}
	return scale
}

func pauseFor(p string, cfg Config) float64 {
	switch p {
	case ",":
		return cfg.CommaPauseMs
	case "-", "–", "—":
		return cfg.DashPauseMs
	case ";":
		return cfg.SemicolonPauseMs
	case ":":
		return cfg.ColonPauseMs
	case ".", "!", "?", "…":
		return cfg.SentenceEndPauseMs
	case "(", ")", "[", "]", "{", "}":
		return cfg.ParenthesesPauseMs
	case `"`, "'", "“", "”", "‘", "’", "«", "»":
		return cfg.QuotePauseMs
	}
	return 0
}

// isOpening reports whether punctuation attaches forward to the next word.
// Straight double quotes alternate via the running dialogue parity.
func isOpening(p string, inDialogue bool) bool {
	switch p {
	case "(", "[", "{", "“", "‘", "«", "¿", "¡":
		return true
	case `"`:
		return !inDialogue
	}
	return false
}

// applyPunct updates bracket depth and dialogue parity for one punctuation
// token. Straight single quotes are ambiguous with apostrophes and never
// toggle dialogue.
func applyPunct(p string, parenDepth int, inDialogue bool) (int, bool) {
	switch p {
	case "(", "[", "{":
		parenDepth++
	case ")", "]", "}":
		if parenDepth > 0 {
			parenDepth--
		}
	case "“", "«":
		inDialogue = true
	case "”", "»":
		inDialogue = false
	case `"`:
		inDialogue = !inDialogue
	}
	return parenDepth, inDialogue
}

func isClausePunct(p string) bool {
	switch p {
	case ",", ";", ":", "-", "–", "—":
		return true
	}
	return false
}

// frameText assembles display text: prefix punctuation glued before the
// first word, words space-separated, trailing punctuation glued after.
func frameText(prefix, words, trailing []token.Token) string {
	var sb strings.Builder
	for _, p := range prefix {
		sb.WriteString(p.Text)
	}
	for i, w := range words {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(w.Text)
	}
	for _, p := range trailing {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func concatTokens(prefix, words, trailing []token.Token) []token.Token {
	out := make([]token.Token, 0, len(prefix)+len(words)+len(trailing))
	out = append(out, prefix...)
	out = append(out, words...)
	out = append(out, trailing...)
	return out
}

// markFirstSyllable sets the highlight span on a single-word frame's word
// token to its first vowel-group syllable.
func markFirstSyllable(f *Frame) {
	for i := range f.Tokens {
		if !f.Tokens[i].IsWord() {
			continue
		}
		runes := []rune(strings.ToLower(f.Tokens[i].Text))
		start, end := -1, -1
		for j, r := range runes {
			if isVowelRune(r) {
				if start < 0 {
					start = j
				}
				end = j + 1
			} else if start >= 0 {
				break
			}
		}
		if start >= 0 {
			f.Tokens[i].HighlightStart = 0
			f.Tokens[i].HighlightEnd = end
		}
		return
	}
}

func runeLen(s string) int { return len([]rune(s)) }
