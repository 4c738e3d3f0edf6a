package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/foveareader/fovea/internal/chapter"
	"github.com/foveareader/fovea/internal/layout"
	"github.com/foveareader/fovea/internal/pacing"
	"github.com/foveareader/fovea/internal/progress"
	"github.com/foveareader/fovea/internal/session"
	"github.com/foveareader/fovea/internal/source"
	"github.com/foveareader/fovea/internal/state"
	"github.com/foveareader/fovea/internal/token"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	pivotStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Bold(true)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	minWPM  = 100
	maxWPM  = 1200
	wpmStep = 25
)

// cellMeasure measures text in terminal cells, the abstract width unit the
// layout package wants.
func cellMeasure(s string) float64 {
	return float64(runewidth.StringWidth(s))
}

type tickMsg time.Time

// chapterMsg delivers a processed chapter from the worker queue.
type chapterMsg struct {
	index int
	data  *chapter.Data
}

type model struct {
	book      []source.Chapter
	bookWords []int
	hash      string
	store     *state.Store

	cfg pacing.Config
	wpm int

	queue   *chapter.Queue
	results chan chapterMsg

	chapterIdx   int
	pendingToken int
	autoplay     bool
	loading      bool

	data *chapter.Data
	sess *session.Session
	calc *progress.Calculator

	bar progressbar.Model

	width    int
	height   int
	quitting bool
	finished bool
}

func newModel(book []source.Chapter, hash string, store *state.Store, queue *chapter.Queue, cfg pacing.Config, wpm int) model {
	bookWords := make([]int, len(book))
	for i, c := range book {
		bookWords[i] = c.WordEstimate()
	}
	return model{
		book:      book,
		bookWords: bookWords,
		hash:      hash,
		store:     store,
		cfg:       cfg,
		wpm:       wpm,
		queue:     queue,
		results:   make(chan chapterMsg, 4),
		bar:       progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage()),
		width:     80,
		height:    24,
	}
}

// openChapter schedules a chapter for processing; the result arrives as a
// chapterMsg. tokenIndex is where playback should land once it does.
func (m *model) openChapter(index, tokenIndex int) {
	if index < 0 || index >= len(m.book) {
		return
	}
	m.chapterIdx = index
	m.pendingToken = tokenIndex
	m.loading = true

	c := m.book[index]
	results := m.results
	m.queue.Submit(chapter.Request{
		Index: index,
		Text:  c.Text,
		HTML:  c.HTML,
		Done: func(d *chapter.Data) {
			results <- chapterMsg{index: index, data: d}
		},
	})
}

func waitForChapter(results chan chapterMsg) tea.Cmd {
	return func() tea.Msg {
		return <-results
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return waitForChapter(m.results)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chapterMsg:
		if msg.index != m.chapterIdx {
			// Stale result from rapid navigation; keep waiting.
			return m, waitForChapter(m.results)
		}
		m.loading = false
		m.data = msg.data
		m.sess = session.New(m.data.Tokens, m.cfg)
		m.sess.SetTempo(60000 / float64(m.wpm))
		m.bookWords[msg.index] = m.data.WordCount()
		m.calc = &progress.Calculator{
			Prefix:    m.data.WordCountByToken,
			Pages:     m.data.Pages,
			BookWords: m.bookWords,
			Chapter:   msg.index,
			WPM:       m.wpm,
		}
		if m.pendingToken > 0 {
			m.sess.SeekToken(m.pendingToken)
		}
		if m.autoplay && !m.data.Empty() {
			m.autoplay = false
			m.sess.Play()
			return m, tea.Batch(waitForChapter(m.results), tick(m.sess.Delay()))
		}
		return m, waitForChapter(m.results)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width / 3
		return m, nil

	case tickMsg:
		if m.sess == nil {
			return m, nil
		}
		switch m.sess.State() {
		case session.Playing:
			if m.sess.Advance() {
				return m, tick(m.sess.Delay())
			}
			return m.chapterDone()
		case session.Positioning:
			m.sess.Play()
			return m, tick(m.sess.Delay())
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.sess == nil {
			return m, nil
		}
		m.sess.Toggle()
		if m.sess.State() == session.Playing {
			return m, tick(m.sess.Delay())
		}
		return m, nil

	case "+", "=", "up":
		m.setWPM(m.wpm + wpmStep)
		return m, nil

	case "-", "down":
		m.setWPM(m.wpm - wpmStep)
		return m, nil

	case "left":
		if m.sess != nil {
			m.sess.SeekRelativeSentence(-1)
		}
		return m, nil

	case "right":
		if m.sess != nil {
			m.sess.SeekRelativeSentence(1)
		}
		return m, nil

	case "pgup":
		return m.seekPage(-1), nil

	case "pgdown":
		return m.seekPage(1), nil

	case "[", "p":
		if m.chapterIdx > 0 {
			m.openChapter(m.chapterIdx-1, 0)
		}
		return m, nil

	case "]", "n":
		if m.chapterIdx+1 < len(m.book) {
			m.openChapter(m.chapterIdx+1, 0)
		}
		return m, nil

	case "q", "Q", "ctrl+c":
		m.savePosition()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// setWPM applies a live tempo change. Frames are never regenerated for
// tempo; the session scales durations instead.
func (m *model) setWPM(wpm int) {
	if wpm < minWPM {
		wpm = minWPM
	}
	if wpm > maxWPM {
		wpm = maxWPM
	}
	m.wpm = wpm
	if m.sess != nil {
		m.sess.SetTempo(60000 / float64(wpm))
	}
	if m.calc != nil {
		m.calc.WPM = wpm
	}
}

// seekPage jumps to the start of the previous or next page.
func (m model) seekPage(direction int) model {
	if m.sess == nil || m.calc == nil || len(m.data.Pages) == 0 {
		return m
	}
	pi := m.calc.At(m.sess.TokenIndex()).PageIndex + direction
	if pi < 0 || pi >= len(m.data.Pages) {
		return m
	}
	m.sess.SeekToken(m.data.Pages[pi].StartTokenIndex)
	return m
}

// chapterDone advances to the next chapter when playback completes, or ends
// the program on the last one.
func (m model) chapterDone() (tea.Model, tea.Cmd) {
	if m.chapterIdx+1 < len(m.book) {
		m.autoplay = true
		m.openChapter(m.chapterIdx+1, 0)
		return m, nil
	}
	m.finished = true
	m.quitting = true
	if m.store != nil {
		m.store.Clear(m.hash)
	}
	return m, tea.Quit
}

func (m model) savePosition() {
	if m.store == nil || m.sess == nil {
		return
	}
	idx := m.sess.TokenIndex()
	if idx == token.NoWord {
		idx = 0
	}
	m.store.SetPosition(m.hash, state.Position{
		Chapter:    m.chapterIdx,
		TokenIndex: idx,
	})
}

func (m model) View() string {
	if m.quitting {
		if m.finished {
			return completeStyle.Render("\n  Reading complete!\n")
		}
		return ""
	}

	if m.loading || m.data == nil {
		return statusStyle.Render("Processing chapter...")
	}

	var center string
	if m.data.Empty() {
		center = emptyStyle.Render("This chapter has no readable text.")
	} else {
		center = m.renderFrame()
	}

	status := m.renderStatus()
	controls := controlsStyle.Render("SPACE: pause/play  ↑/↓: speed  ←/→: sentence  PgUp/PgDn: page  [/]: chapter  Q: quit")

	// Reserve 2 lines: 1 for status at top, 1 for controls at bottom
	avail := m.height - 2
	if avail < 1 {
		avail = 1
	}
	vPad := avail / 2

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteString("\n")
	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(center)
	for i := 0; i < avail-vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(controls)
	return sb.String()
}

func (m model) renderStatus() string {
	report := m.calc.At(m.sess.TokenIndex())

	pause := ""
	switch m.sess.State() {
	case session.Paused, session.Positioning:
		pause = pausedStyle.Render(" [PAUSED]")
	case session.Completed:
		pause = completeStyle.Render(" [DONE]")
	}

	title := m.book[m.chapterIdx].Title
	if title != "" {
		title = titleStyle.Render(title) + "  "
	}

	eta := ""
	if report.ChapterETAOK {
		eta = fmt.Sprintf(" | ~%dm left", report.ChapterMinutes)
	}

	page := ""
	if n := len(m.data.Pages); n > 0 && report.PageIndex >= 0 {
		page = fmt.Sprintf(" | Page %d/%d", report.PageIndex+1, n)
	}

	return statusStyle.Render(fmt.Sprintf("%sChapter %d/%d%s | %d%% %s | %d WPM%s%s",
		title,
		m.chapterIdx+1,
		len(m.book),
		page,
		report.Percent,
		m.bar.ViewAs(float64(report.Percent)/100),
		m.wpm,
		eta,
		pause,
	))
}

// renderFrame lays the current frame out with the pivot at the bias point
// and styles the pivot character.
func (m model) renderFrame() string {
	frame, ok := m.sess.Current()
	if !ok {
		return ""
	}

	res := layout.Fit(frame.Text, framePivot(frame), float64(m.width), layout.DefaultOptions(), cellMeasure)
	return strings.Repeat(" ", int(res.OffsetX+0.5)) + styleFrameText(res.Text, res.PivotIndex)
}

// framePivot maps the anchor word's ORP index to a rune offset in the
// frame's display text. Prefix punctuation is glued directly before the
// first word, so its rune widths shift the pivot right.
func framePivot(frame pacing.Frame) int {
	offset := 0
	for _, t := range frame.Tokens {
		if t.IsWord() {
			return offset + t.ORPIndex
		}
		offset += len([]rune(t.Text))
	}
	return 0
}

// styleFrameText highlights the pivot rune.
func styleFrameText(text string, pivot int) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	if pivot < 0 {
		pivot = 0
	}
	if pivot >= len(runes) {
		pivot = len(runes) - 1
	}
	return wordStyle.Render(string(runes[:pivot])) +
		pivotStyle.Render(string(runes[pivot])) +
		wordStyle.Render(string(runes[pivot+1:]))
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute (default: 300)")
	wordsPerPage := flag.Int("p", 250, "Words per page for progress display")
	chunk := flag.Bool("chunk", false, "Merge short adjacent words into one frame")
	fresh := flag.Bool("fresh", false, "Ignore any saved reading position")
	debug := flag.Bool("debug", false, "Write debug logs to fovea-debug.log")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Fovea - Terminal Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  fovea [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		fmt.Fprintf(os.Stderr, "  %s, plain text fallback\n", strings.Join(source.Supported(), ", "))
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fovea book.epub           Read an EPUB at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  fovea -w 500 file.txt     Read from file at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | fovea      Read from stdin\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  SPACE       Pause/play\n")
		fmt.Fprintf(os.Stderr, "  +/- or ↑/↓  Speed by %d WPM\n", wpmStep)
		fmt.Fprintf(os.Stderr, "  ←/→         Previous/next sentence\n")
		fmt.Fprintf(os.Stderr, "  PgUp/PgDn   Previous/next page\n")
		fmt.Fprintf(os.Stderr, "  [/]         Previous/next chapter\n")
		fmt.Fprintf(os.Stderr, "  Q           Quit (position is saved)\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("fovea %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *debug {
		f, err := os.Create("fovea-debug.log")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	var (
		book []source.Chapter
		hash string
	)

	if flag.NArg() > 0 {
		filename := flag.Arg(0)
		var err error
		book, err = source.Load(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load '%s': %v\n", filename, err)
			os.Exit(1)
		}
		hash, err = state.ComputeHash(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe text to stdin.")
			fmt.Fprintln(os.Stderr, "Try: fovea -h")
			os.Exit(1)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		text := string(data)
		book = []source.Chapter{source.FromText("stdin", text)}
		hash = state.HashText(text)
	}

	if len(book) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No text to read.")
		os.Exit(1)
	}

	store, err := state.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: positions will not be saved: %v\n", err)
		store = nil
	}

	cfg := pacing.DefaultConfig()
	cfg.TempoMsPerWord = 60000 / float64(*wpm)
	cfg.EnablePhraseChunking = *chunk
	cfg = cfg.Clamp()

	ctx := context.Background()
	cache := chapter.NewCache(chapter.DefaultCacheSize)
	queue := chapter.NewQueue(ctx, cache, *wordsPerPage)
	defer queue.Close()

	m := newModel(book, hash, store, queue, cfg, *wpm)

	startChapter, startToken := 0, 0
	if store != nil && !*fresh {
		if pos, ok := store.Position(hash); ok && pos.Chapter >= 0 && pos.Chapter < len(book) {
			startChapter, startToken = pos.Chapter, pos.TokenIndex
		}
	}
	m.openChapter(startChapter, startToken)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
