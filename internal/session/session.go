// Package session owns the mutable playback state for one RSVP reading
// session: the frame list, the current frame, tempo, and an explicit state
// machine. Each session belongs to exactly one logical reader; nothing here
// is shared across goroutines, so no locks are needed. Navigation works by
// re-anchoring rather than cancelling in-flight waits: the driver checks
// State on every tick.
package session

import (
	"time"

	"github.com/foveareader/fovea/internal/pacing"
	"github.com/foveareader/fovea/internal/token"
)

// State is the playback state machine.
type State int

const (
	Paused State = iota
	Playing
	Positioning // mid-seek; the next tick re-anchors and resumes Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	case Positioning:
		return "positioning"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Session drives frame-by-frame playback over a chapter's tokens.
type Session struct {
	tokens []token.Token
	cfg    pacing.Config
	frames []pacing.Frame

	// originalTempo is the tempo the frames were generated with; tempo is
	// the live dial. Durations scale linearly between them, so tempo
	// changes never regenerate frames.
	originalTempo float64
	tempo         float64

	index int
	state State
}

// New creates a session positioned at the first word. cfg is clamped at
// this boundary; the pacing model itself does not re-validate. A chapter
// with no words starts Completed.
func New(tokens []token.Token, cfg pacing.Config) *Session {
	cfg = cfg.Clamp()
	s := &Session{
		tokens:        tokens,
		cfg:           cfg,
		originalTempo: cfg.TempoMsPerWord,
		tempo:         cfg.TempoMsPerWord,
		state:         Paused,
	}
	s.regenerate(token.FirstWordIndex(tokens))
	return s
}

func (s *Session) regenerate(startIndex int) {
	if startIndex == token.NoWord {
		s.frames = nil
		s.index = 0
		s.state = Completed
		return
	}
	s.frames = pacing.GenerateFrames(s.tokens, startIndex, s.cfg)
	s.originalTempo = s.cfg.TempoMsPerWord
	s.index = 0
	if len(s.frames) == 0 {
		s.state = Completed
	}
}

// State returns the current playback state.
func (s *Session) State() State { return s.state }

// Frames exposes the generated frame list.
func (s *Session) Frames() []pacing.Frame { return s.frames }

// Current returns the frame under the cursor, with ok=false when the
// session has no frames.
func (s *Session) Current() (pacing.Frame, bool) {
	if s.index < 0 || s.index >= len(s.frames) {
		return pacing.Frame{}, false
	}
	return s.frames[s.index], true
}

// TokenIndex returns the current frame's anchor token index, or
// token.NoWord for an empty session.
func (s *Session) TokenIndex() int {
	f, ok := s.Current()
	if !ok {
		return token.NoWord
	}
	return f.OriginalTokenIndex
}

// Play starts or resumes playback. Completed sessions restart from the
// beginning.
func (s *Session) Play() {
	switch s.state {
	case Completed:
		if len(s.frames) == 0 {
			return
		}
		s.index = 0
		s.state = Playing
	case Paused, Positioning:
		s.state = Playing
	}
}

// Pause suspends playback, keeping the cursor in place.
func (s *Session) Pause() {
	if s.state == Playing || s.state == Positioning {
		s.state = Paused
	}
}

// Toggle flips between playing and paused.
func (s *Session) Toggle() {
	if s.state == Playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// Delay returns how long the current frame should stay on screen under the
// live tempo. The driver sleeps this long, then calls Advance if still
// Playing.
func (s *Session) Delay() time.Duration {
	f, ok := s.Current()
	if !ok {
		return 0
	}
	ms := pacing.ScaledDuration(f.DurationMs, s.originalTempo, s.tempo, s.cfg.MinFrameMs)
	return time.Duration(ms * float64(time.Millisecond))
}

// Advance moves to the next frame. Returns false when playback completed.
func (s *Session) Advance() bool {
	if s.state == Completed || len(s.frames) == 0 {
		return false
	}
	if s.index+1 >= len(s.frames) {
		s.state = Completed
		return false
	}
	s.index++
	return true
}

// AtEnd reports whether the cursor is on the final frame or past it.
func (s *Session) AtEnd() bool {
	return len(s.frames) == 0 || s.index >= len(s.frames)-1
}

// SeekToken re-anchors playback at the frame whose anchor is nearest to
// the requested token index. Any index is accepted; it is snapped to the
// nearest word first. The session lands in Positioning when it was
// playing, so the driver pauses one tick before resuming.
func (s *Session) SeekToken(tokenIndex int) {
	if len(s.frames) == 0 {
		return
	}
	snapped := token.NearestWordIndex(s.tokens, tokenIndex)
	if snapped == token.NoWord {
		return
	}
	s.index = s.frameFor(snapped)
	if s.state == Playing {
		s.state = Positioning
	} else if s.state == Completed {
		s.state = Paused
	}
}

// frameFor finds the frame containing the given token index: the last
// frame whose anchor is at or before it. Frames are anchor-ordered, so
// binary search applies.
func (s *Session) frameFor(tokenIndex int) int {
	lo, hi := 0, len(s.frames)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if s.frames[mid].OriginalTokenIndex <= tokenIndex {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

// SeekRelativeSentence jumps to the start of the previous or next sentence
// (direction -1 or +1), pausing positioning like SeekToken.
func (s *Session) SeekRelativeSentence(direction int) {
	cur := s.TokenIndex()
	if cur == token.NoWord {
		return
	}
	if direction >= 0 {
		for i := cur; i < len(s.tokens); i++ {
			if isSentenceEnd(s.tokens[i]) {
				s.SeekToken(nextWordIndex(s.tokens, i+1))
				return
			}
		}
		s.SeekToken(len(s.tokens) - 1)
		return
	}
	ends := 0
	for i := cur - 1; i >= 0; i-- {
		if isSentenceEnd(s.tokens[i]) {
			ends++
			if ends >= 2 {
				s.SeekToken(nextWordIndex(s.tokens, i+1))
				return
			}
		}
	}
	s.SeekToken(0)
}

// nextWordIndex finds the first word at or after from, falling back to the
// last token when the tail holds no words (SeekToken snaps it to a word).
func nextWordIndex(tokens []token.Token, from int) int {
	for i := from; i < len(tokens); i++ {
		if tokens[i].IsWord() {
			return i
		}
	}
	return len(tokens) - 1
}

func isSentenceEnd(t token.Token) bool {
	if t.Type != token.Punctuation {
		return false
	}
	switch t.Text {
	case ".", "!", "?", "…":
		return true
	}
	return false
}

// SetTempo applies a live tempo change (ms per word). Frames are never
// regenerated for tempo; Delay scales linearly instead.
func (s *Session) SetTempo(msPerWord float64) {
	if msPerWord <= 0 {
		return
	}
	s.tempo = msPerWord
}

// Tempo returns the live tempo in ms per word.
func (s *Session) Tempo() float64 { return s.tempo }

// WPM reports the live tempo as words per minute.
func (s *Session) WPM() int {
	if s.tempo <= 0 {
		return 0
	}
	return int(60000/s.tempo + 0.5)
}

// Apply installs a new config. Tempo-only changes take the live path; any
// chunking-affecting change regenerates frames, re-anchored at the current
// position.
func (s *Session) Apply(cfg pacing.Config) {
	cfg = cfg.Clamp()
	if s.cfg.ChunkingEquivalent(cfg) {
		s.cfg = cfg
		s.SetTempo(cfg.TempoMsPerWord)
		return
	}
	anchor := s.TokenIndex()
	wasPlaying := s.state == Playing
	s.cfg = cfg
	s.tempo = cfg.TempoMsPerWord
	s.regenerate(token.FirstWordIndex(s.tokens))
	if s.state == Completed {
		return
	}
	if anchor != token.NoWord {
		s.index = s.frameFor(anchor)
	}
	if wasPlaying {
		s.state = Playing
	} else {
		s.state = Paused
	}
}
