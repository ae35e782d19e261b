package ui

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/olivier-w/reelswipe/internal/card"
	"github.com/olivier-w/reelswipe/internal/config"
	"github.com/olivier-w/reelswipe/internal/deck"
	"github.com/olivier-w/reelswipe/internal/gesture"
	"github.com/olivier-w/reelswipe/internal/motion"
	"github.com/olivier-w/reelswipe/internal/swipe"
)

const (
	headerRows = 2
	footerRows = 5
)

// Option customizes a Model.
type Option func(*Model)

// WithClock sets the time source shared by the model and its cards.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithRand sets the random source used for card drift and tilt.
func WithRand(r *rand.Rand) Option {
	return func(m *Model) { m.rand = r }
}

// Result summarizes a finished session.
type Result struct {
	Choices   []deck.Choice
	Selection deck.Selection
	SavedTo   string
	SaveErr   error
}

// leftScreen is queued by a card callback and consumed on the next frame.
type leftScreen struct {
	movie deck.Movie
	dir   swipe.Direction
}

// events is written by card callbacks and drained by Update. It is shared
// between Model copies.
type events struct {
	left   []leftScreen
	status string
}

// judged is a swiped card kept around so it can be brought back.
type judged struct {
	movie deck.Movie
	card  *card.Card
}

// Model is the Bubbletea model for the reelswipe TUI.
type Model struct {
	cfg     config.Config
	opts    card.Options
	deck    *deck.Deck
	choices *deck.Recorder
	card    *card.Card
	history []judged
	events  *events

	keys keyMap
	help help.Model
	log  zerolog.Logger
	now  func() time.Time
	rand *rand.Rand

	width, height int
	ticking       bool
	quitting      bool
	saving        bool
	savedTo       string
	saveErr       error
}

// New creates a Model that deals cards from d.
func New(cfg config.Config, d *deck.Deck, log zerolog.Logger, opts ...Option) Model {
	m := Model{
		cfg:     cfg,
		deck:    d,
		choices: deck.NewRecorder(),
		events:  &events{},
		keys:    defaultKeyMap(),
		help:    help.New(),
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.rand == nil {
		m.rand = rand.New(rand.NewSource(m.now().UnixNano()))
	}

	m.opts = cfg.CardOptions()
	m.opts.Clock = m.now
	m.opts.Rand = m.rand
	m.opts.Logger = log
	m.card = m.deal()
	return m
}

// deal creates a card for the top movie, or nil when the deck is empty.
func (m *Model) deal() *card.Card {
	top := m.deck.Current()
	if top == nil {
		return nil
	}
	movie := *top
	ev, log := m.events, m.log
	c := card.New(m.opts, card.Callbacks{
		OnSwipe: func(d swipe.Direction) {
			ev.status = fmt.Sprintf("%s  %s", deck.VerdictFor(d).Label(), movie.Title)
		},
		OnCardLeftScreen: func(d swipe.Direction) {
			ev.left = append(ev.left, leftScreen{movie: movie, dir: d})
		},
		OnRequirementFulfilled: func(d swipe.Direction) {
			log.Debug().Int("movie", movie.ID).Stringer("direction", d).Msg("swipe intent")
		},
		OnRequirementUnfulfilled: func() {
			log.Debug().Int("movie", movie.ID).Msg("swipe intent cleared")
		},
	})
	if m.width > 0 && m.height > 0 {
		c.SetViewport(m.viewport())
	}
	return c
}

func (m Model) viewport() (float64, float64) {
	return float64(m.width) * m.cfg.UI.CellWidth, float64(m.height) * m.cfg.UI.CellHeight
}

func (m Model) stage() (int, int) {
	return max(m.width, 0), max(m.height-headerRows-footerRows, 0)
}

func (m Model) geometry() geometry {
	w, h := m.stage()
	return layoutCard(w, h, m.cfg.UI.CellWidth, m.cfg.UI.CellHeight)
}

// Result returns the choices made so far and the outcome of the last save.
func (m Model) Result() Result {
	return Result{
		Choices:   m.choices.Choices(),
		Selection: m.choices.Selection(),
		SavedTo:   m.savedTo,
		SaveErr:   m.saveErr,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("reelswipe")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.animate()

	case frameMsg:
		m.ticking = false
		m.tick(time.Time(msg))
		if cmd := m.drain(); cmd != nil {
			return m, cmd
		}
		return m, m.animate()

	case choicesSavedMsg:
		m.saving = false
		m.savedTo, m.saveErr = msg.path, msg.err
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("path", msg.path).Msg("save choices")
			m.events.status = fmt.Sprintf("Save failed: %v", msg.err)
		} else {
			m.log.Info().
				Str("session", m.choices.SessionID()).
				Str("path", msg.path).
				Int("choices", m.choices.Len()).
				Msg("choices saved")
			m.events.status = fmt.Sprintf("Saved to %s", msg.path)
		}
		if m.quitting {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		vw, vh := m.viewport()
		if m.card != nil {
			m.card.SetViewport(vw, vh)
		}
		for _, j := range m.history {
			j.card.SetViewport(vw, vh)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if cmd := m.save(); cmd != nil {
			return m, cmd
		}
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Undo):
		m.undo()
		return m, m.animate()
	}

	if dir := m.keys.swipeFor(msg); dir != swipe.None && m.card != nil {
		if _, err := m.card.Swipe(dir); err != nil && !errors.Is(err, card.ErrBusy) {
			m.log.Warn().Err(err).Msg("swipe")
		}
		return m, m.animate()
	}
	return m, nil
}

// handleMouse converts terminal mouse reports into pointer events measured
// from the center of each cell.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.card == nil {
		return
	}
	ev := gesture.Event{
		Source: gesture.Mouse,
		X:      (float64(msg.X) + 0.5) * m.cfg.UI.CellWidth,
		Y:      (float64(msg.Y) + 0.5) * m.cfg.UI.CellHeight,
		Time:   m.now(),
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.geometry().contains(msg.X, msg.Y-headerRows) {
			return
		}
		ev.Kind = gesture.Press
	case tea.MouseActionMotion:
		ev.Kind = gesture.Move
	case tea.MouseActionRelease:
		ev.Kind = gesture.Release
	default:
		return
	}
	m.card.HandleEvent(ev)
}

func (m *Model) tick(now time.Time) {
	if m.card != nil {
		m.card.Tick(now)
	}
}

// drain records cards that finished leaving and deals the next one.
func (m *Model) drain() tea.Cmd {
	if len(m.events.left) == 0 {
		return nil
	}
	for _, l := range m.events.left {
		m.choices.Record(l.movie, l.dir, m.now())
		m.deck.Remove(l.movie.ID)
		m.history = append(m.history, judged{movie: l.movie, card: m.card})
		m.log.Info().
			Int("movie", l.movie.ID).
			Str("title", l.movie.Title).
			Stringer("direction", l.dir).
			Msg("card judged")
	}
	m.events.left = m.events.left[:0]
	m.card = m.deal()
	if m.card == nil {
		return m.save()
	}
	return nil
}

// undo brings the last judged card back onto the top of the deck.
func (m *Model) undo() {
	if len(m.history) == 0 {
		return
	}
	if m.card != nil && m.card.State() != card.Idle {
		return
	}
	last := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.choices.Undo()
	m.deck.PutBack(last.movie)
	m.card = last.card
	m.card.RestoreCard()
	m.events.status = "Undo  " + last.movie.Title
}

// animate schedules the next frame while anything is moving.
func (m *Model) animate() tea.Cmd {
	if m.ticking || !m.animating() {
		return nil
	}
	m.ticking = true
	return frameCmd(m.cfg.UI.FPS)
}

func (m Model) animating() bool {
	return m.card != nil && m.card.Animating()
}

func (m *Model) save() tea.Cmd {
	path := m.cfg.Deck.Output
	if path == "" || m.saving || m.choices.Len() == 0 {
		return nil
	}
	m.saving = true
	snap := m.choices.Clone()
	return func() tea.Msg {
		return choicesSavedMsg{path: path, err: snap.Save(path)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	count := fmt.Sprintf("%d/%d", m.deck.Total()-m.deck.Len(), m.deck.Total())
	gap := max(m.width-len("reelswipe")-len(count)-4, 2)
	b.WriteString("  " + headerStyle.Render("reelswipe") + spaces(gap) + statusStyle.Render(count) + "\n")

	w, h := m.stage()
	if w > 0 && h > 0 {
		b.WriteString(m.renderStage(w, h))
	}
	b.WriteString("\n\n")

	barWidth := max(m.width-4, 10)
	b.WriteString("  " + helpStyle.Render(renderProgressBar(m.deck.Progress(), barWidth)) + "\n")
	b.WriteString("  " + m.renderStatus() + "\n")
	b.WriteString("\n")
	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderStage(w, h int) string {
	c := newCanvas(w, h)
	g := m.geometry()

	if next := m.deck.Peek(1); len(next) > 0 {
		back := g
		back.y++
		c.drawCard(back, motion.Transform{}, cardFace{movie: next[0], back: true})
	}

	top := m.deck.Current()
	if top == nil || m.card == nil {
		msg := "All done!"
		c.text((w-len(msg))/2, h/2, msg, styleTitle)
		return c.String()
	}
	face := cardFace{movie: *top}
	if d := stampDirection(m.card); d != swipe.None {
		face.stamp = deck.VerdictFor(d)
	}
	c.drawCard(g, m.card.Transform(), face)
	return c.String()
}

// stampDirection is the verdict preview for c: the live intent while it is
// dragged and the exit direction while it leaves.
func stampDirection(c *card.Card) swipe.Direction {
	switch c.State() {
	case card.Dragging:
		return c.Intent()
	case card.FlyingOut:
		return c.Leaving()
	}
	return swipe.None
}

func (m Model) renderStatus() string {
	if m.saveErr != nil {
		return errorStyle.Render(m.events.status)
	}
	liked := m.choices.Count(deck.Liked)
	nope := m.choices.Count(deck.Disliked)
	line := fmt.Sprintf("♥ %d  ✕ %d", liked, nope)
	if m.events.status != "" {
		line += "   " + m.events.status
	}
	return statusStyle.Render(line)
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
