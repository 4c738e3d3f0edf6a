// Package layout places a word's optimal recognition point at a stable
// horizontal anchor inside a constrained-width, single-line display. All
// geometry is expressed in measured text-width units; callers supply the
// measurement function, so nothing here touches a rendering API.
package layout

import "math"

// MeasureFunc returns the rendered width of a string in abstract units
// (pixels, terminal cells, anything monotonic under concatenation).
type MeasureFunc func(string) float64

// Ellipsis marks truncated context when the text is windowed to fit.
const Ellipsis = "…"

// Options tunes the fitting behavior. Zero values get sensible defaults
// from DefaultOptions.
type Options struct {
	SafeLeft  float64 // left margin the text block must not cross
	SafeRight float64 // right margin
	PivotBias float64 // target pivot position as a fraction of usable width
	MinScale  float64 // smallest uniform font scale before windowing
}

// DefaultOptions returns the standard margins and pivot bias: the pivot
// sits slightly left of center, where RSVP readers fixate.
func DefaultOptions() Options {
	return Options{
		SafeLeft:  2,
		SafeRight: 2,
		PivotBias: 0.35,
		MinScale:  0.6,
	}
}

// Result describes where to draw the text. OffsetX is the horizontal
// translation of the (possibly windowed) text block; PivotX is the pivot
// character's resulting screen position. Scale is 1 unless the text only
// fit after uniform downscaling. Windowed is set when Text is an
// ellipsis-truncated slice of the input.
type Result struct {
	Text       string
	PivotIndex int
	OffsetX    float64
	PivotX     float64
	Scale      float64
	Windowed   bool
}

// Fit computes the placement of text so its pivot character lands as close
// as possible to the bias point while the whole block stays inside
// [0, width]. pivotIndex is a rune offset (the ideal ORP). Fitting tries,
// in order: direct placement with the best in-word pivot candidate, uniform
// downscaling to MinScale, then an ellipsis window around the pivot.
func Fit(text string, pivotIndex int, width float64, opts Options, measure MeasureFunc) Result {
	if opts.PivotBias <= 0 {
		opts.PivotBias = DefaultOptions().PivotBias
	}
	if opts.MinScale <= 0 {
		opts.MinScale = DefaultOptions().MinScale
	}

	runes := []rune(text)
	if len(runes) == 0 || width <= opts.SafeLeft+opts.SafeRight {
		return Result{Text: text, Scale: 1}
	}
	pivotIndex = clampIndex(pivotIndex, len(runes))

	usable := width - opts.SafeLeft - opts.SafeRight
	full := measure(text)

	if full <= usable {
		return place(runes, pivotIndex, width, opts, measure, 1, false)
	}

	// Too wide: try uniform downscaling first.
	scale := usable / full
	if scale >= opts.MinScale {
		scaled := func(s string) float64 { return measure(s) * scale }
		r := place(runes, pivotIndex, width, opts, scaled, scale, false)
		return r
	}

	// Still too wide at minimum scale: window the text around the pivot.
	windowText, windowPivot := window(runes, pivotIndex, usable, measure)
	return place([]rune(windowText), windowPivot, width, opts, measure, 1, true)
}

// place chooses the pivot candidate and translation for text that fits.
// Candidates are ranked by clamping error, then margin imbalance, then
// distance from the ideal pivot; ties resolve to the lower index.
func place(runes []rune, ideal int, width float64, opts Options, measure MeasureFunc, scale float64, windowed bool) Result {
	text := string(runes)
	full := measure(text)
	target := opts.SafeLeft + (width-opts.SafeLeft-opts.SafeRight)*opts.PivotBias

	best := Result{Text: text, PivotIndex: ideal, Scale: scale, Windowed: windowed}

	// When the ideal pivot reaches the target without clamping, it wins
	// outright; the candidate search below only matters near the edges.
	if offset, pivotX, clampErr := placeAt(runes, ideal, full, target, width, opts, measure); clampErr == 0 {
		best.OffsetX = offset
		best.PivotX = pivotX
		return best
	}

	bestKey := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}

	for i := range runes {
		offset, pivotX, clampErr := placeAt(runes, i, full, target, width, opts, measure)
		leftGap := offset
		rightGap := width - (offset + full)
		imbalance := math.Abs(leftGap - rightGap)
		distance := math.Abs(float64(i - ideal))

		key := [3]float64{clampErr, imbalance, distance}
		if less(key, bestKey) {
			bestKey = key
			best.PivotIndex = i
			best.OffsetX = offset
			best.PivotX = pivotX
		}
	}
	return best
}

// placeAt computes the clamped translation putting rune i's center on the
// target, and the residual clamping error.
func placeAt(runes []rune, i int, full, target, width float64, opts Options, measure MeasureFunc) (offset, pivotX, clampErr float64) {
	prefix := measure(string(runes[:i]))
	runeW := measure(string(runes[i : i+1]))
	pivotCenter := prefix + runeW/2

	offset = target - pivotCenter
	offset = clampF(offset, opts.SafeLeft, width-opts.SafeRight-full)

	pivotX = offset + pivotCenter
	clampErr = math.Abs(pivotX - target)
	return offset, pivotX, clampErr
}

// window slices runes around the pivot, bracketing with ellipses, shrinking
// until the result fits in usable width and then expanding outward while it
// still fits, to show as much context as possible.
func window(runes []rune, pivot int, usable float64, measure MeasureFunc) (string, int) {
	lo, hi := pivot, pivot+1 // [lo, hi) always contains the pivot

	build := func(lo, hi int) (string, int) {
		s := string(runes[lo:hi])
		p := pivot - lo
		if lo > 0 {
			s = Ellipsis + s
			p++
		}
		if hi < len(runes) {
			s += Ellipsis
		}
		return s, p
	}

	fits := func(lo, hi int) bool {
		s, _ := build(lo, hi)
		return measure(s) <= usable
	}

	if !fits(lo, hi) {
		// Not even the pivot rune plus ellipses fits; give up on margins
		// and show the bare pivot.
		return string(runes[pivot : pivot+1]), 0
	}

	// Grow outward, alternating sides, while the window still fits.
	for {
		grew := false
		if hi < len(runes) && fits(lo, hi+1) {
			hi++
			grew = true
		}
		if lo > 0 && fits(lo-1, hi) {
			lo--
			grew = true
		}
		if !grew {
			break
		}
	}

	return build(lo, hi)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func clampF(v, lo, hi float64) float64 {
	if hi < lo {
		// Block wider than the safe span; pin to the left margin.
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func less(a, b [3]float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
