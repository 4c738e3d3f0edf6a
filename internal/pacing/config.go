// Package pacing implements the RSVP timing model: a pure function from a
// token sequence and a numeric configuration to a list of display frames.
package pacing

import "math"

// BlinkMode controls whether frames carry a visual-gap flag for the
// renderer. The engine only marks frames; it never inserts timing itself.
type BlinkMode int

const (
	BlinkOff BlinkMode = iota
	BlinkSubtle
	BlinkAdaptive
)

// Config is an immutable snapshot of the pacing model. A new config
// produces a new frame list; only TempoMsPerWord may be applied live via
// ScaledDuration without regenerating frames.
type Config struct {
	// Tempo.
	TempoMsPerWord          float64
	ReferenceTempoMsPerWord float64
	MinWordMs               float64
	MinFrameMs              float64

	// Word difficulty.
	LongWordChars      int
	LongWordMinMs      float64
	SyllableExtraMs    float64
	RarityExtraMaxMs   float64
	ComplexityStrength float64

	// Punctuation pauses, each independently configured.
	CommaPauseMs       float64
	DashPauseMs        float64
	SemicolonPauseMs   float64
	ColonPauseMs       float64
	SentenceEndPauseMs float64
	ParenthesesPauseMs float64
	QuotePauseMs       float64
	ParagraphPauseMs   float64

	// Pause compression at speed.
	PauseScaleExponent float64
	MinPauseScale      float64

	// Context.
	ParentheticalMultiplier float64
	DialogueMultiplier      float64
	UseClausePausing        bool
	ClausePauseFactor       float64

	// Flow.
	SmoothingAlpha       float64
	EnablePhraseChunking bool
	ChunkMaxWordLen      int
	WordsPerFrame        int
	BlinkMode            BlinkMode
	BlinkThresholdMs     float64
	HighlightSyllables   bool
}

// DefaultConfig returns the baseline pacing model (250 wpm).
func DefaultConfig() Config {
	return Config{
		TempoMsPerWord:          240,
		ReferenceTempoMsPerWord: 240,
		MinWordMs:               60,
		MinFrameMs:              30,

		LongWordChars:      9,
		LongWordMinMs:      300,
		SyllableExtraMs:    25,
		RarityExtraMaxMs:   80,
		ComplexityStrength: 0.5,

		CommaPauseMs:       150,
		DashPauseMs:        120,
		SemicolonPauseMs:   200,
		ColonPauseMs:       180,
		SentenceEndPauseMs: 320,
		ParenthesesPauseMs: 120,
		QuotePauseMs:       100,
		ParagraphPauseMs:   500,

		PauseScaleExponent: 0.7,
		MinPauseScale:      0.3,

		ParentheticalMultiplier: 0.9,
		DialogueMultiplier:      1.0,
		UseClausePausing:        true,
		ClausePauseFactor:       0.5,

		SmoothingAlpha:       0.6,
		EnablePhraseChunking: false,
		ChunkMaxWordLen:      3,
		WordsPerFrame:        1,
		BlinkMode:            BlinkOff,
		BlinkThresholdMs:     600,
		HighlightSyllables:   false,
	}
}

// Clamp returns a copy with every field forced into its documented range.
// The model itself does not re-validate; this is the configuration
// boundary.
func (c Config) Clamp() Config {
	c.TempoMsPerWord = clampF(c.TempoMsPerWord, 30, 2000)
	c.ReferenceTempoMsPerWord = clampF(c.ReferenceTempoMsPerWord, 30, 2000)
	c.MinWordMs = clampF(c.MinWordMs, 0, 1000)
	c.MinFrameMs = clampF(c.MinFrameMs, 0, 500)

	c.LongWordChars = clampI(c.LongWordChars, 4, 30)
	c.LongWordMinMs = clampF(c.LongWordMinMs, 0, 2000)
	c.SyllableExtraMs = clampF(c.SyllableExtraMs, 0, 300)
	c.RarityExtraMaxMs = clampF(c.RarityExtraMaxMs, 0, 500)
	c.ComplexityStrength = clampF(c.ComplexityStrength, 0, 1)

	c.CommaPauseMs = clampF(c.CommaPauseMs, 0, 2000)
	c.DashPauseMs = clampF(c.DashPauseMs, 0, 2000)
	c.SemicolonPauseMs = clampF(c.SemicolonPauseMs, 0, 2000)
	c.ColonPauseMs = clampF(c.ColonPauseMs, 0, 2000)
	c.SentenceEndPauseMs = clampF(c.SentenceEndPauseMs, 0, 3000)
	c.ParenthesesPauseMs = clampF(c.ParenthesesPauseMs, 0, 2000)
	c.QuotePauseMs = clampF(c.QuotePauseMs, 0, 2000)
	c.ParagraphPauseMs = clampF(c.ParagraphPauseMs, 0, 5000)

	c.PauseScaleExponent = clampF(c.PauseScaleExponent, 0, 3)
	c.MinPauseScale = clampF(c.MinPauseScale, 0, 1)

	c.ParentheticalMultiplier = clampF(c.ParentheticalMultiplier, 0.25, 4)
	c.DialogueMultiplier = clampF(c.DialogueMultiplier, 0.25, 4)
	c.ClausePauseFactor = clampF(c.ClausePauseFactor, 0, 2)

	c.SmoothingAlpha = clampF(c.SmoothingAlpha, 0, 1)
	c.ChunkMaxWordLen = clampI(c.ChunkMaxWordLen, 1, 8)
	c.WordsPerFrame = clampI(c.WordsPerFrame, 1, 4)
	c.BlinkThresholdMs = clampF(c.BlinkThresholdMs, 0, 5000)
	if c.BlinkMode < BlinkOff || c.BlinkMode > BlinkAdaptive {
		c.BlinkMode = BlinkOff
	}
	return c
}

// ChunkingEquivalent reports whether two configs produce identical frame
// lists, so consumers know a tempo-only change does not require
// regeneration.
func (c Config) ChunkingEquivalent(o Config) bool {
	a, b := c, o
	a.TempoMsPerWord, b.TempoMsPerWord = 0, 0
	return a == b
}

func clampF(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
