// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrain/internal/model"
	"github.com/verte-zerg/typetrain/internal/session"
	"github.com/verte-zerg/typetrain/internal/stats"
	"github.com/verte-zerg/typetrain/internal/textsource"
)

// Phase is the input loop state.
type Phase int

const (
	PhaseAwaitingFirstKey Phase = iota
	PhaseTyping
	PhaseFinished
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
	minFooterRows  = 3
)

// ScoreRecorder persists a finished session.
type ScoreRecorder interface {
	Append(ctx context.Context, rec model.ScoreRecord) error
}

// Result is the outcome of a typing run once the program has exited.
type Result struct {
	TextID   string
	Finished bool
	Aborted  bool
	Metrics  stats.Metrics
	SaveErr  error
}

type keyMap struct {
	Fix  key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Fix:  key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "fix")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	sample   textsource.Sample
	state    *session.State
	recorder ScoreRecorder

	keys keyMap
	help help.Model

	width  int
	height int

	phase   Phase
	aborted bool
	metrics stats.Metrics
	saveErr error
}

// NewModel constructs a typing TUI model for sample. A nil clock uses
// time.Now; a nil recorder skips persistence.
func NewModel(cfg model.Config, sample textsource.Sample, recorder ScoreRecorder, clock session.Clock) *Model {
	m := &Model{
		config:   cfg,
		sample:   sample,
		state:    session.New(sample.Text, clock),
		recorder: recorder,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if m.state.IsComplete() {
		m.phase = PhaseFinished
		m.metrics = stats.Compute(m.state)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.phase == PhaseFinished {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyCtrlC {
			m.aborted = true
			return m, tea.Quit
		}
		for _, code := range keyCodes(msg) {
			m.apply(code)
		}
		return m, nil
	default:
		return m, nil
	}
}

func keyCodes(msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		return msg.Runes
	case tea.KeySpace:
		return []rune{' '}
	case tea.KeyBackspace:
		return []rune{session.CodeDEL}
	case tea.KeyCtrlH:
		return []rune{session.CodeCtrlH}
	default:
		return nil
	}
}

func (m *Model) apply(code rune) {
	if m.phase == PhaseFinished || !m.state.Apply(code) {
		return
	}
	if m.phase == PhaseAwaitingFirstKey {
		m.phase = PhaseTyping
	}
	if m.state.IsComplete() {
		m.finish()
	}
}

func (m *Model) finish() {
	m.phase = PhaseFinished
	m.metrics = stats.Compute(m.state)
	if m.recorder == nil {
		return
	}
	m.saveErr = m.recorder.Append(context.Background(), m.metrics.Record(m.sample.ID))
}

// Phase returns the current input loop state.
func (m *Model) Phase() Phase {
	return m.phase
}

// Result reports how the run ended.
func (m *Model) Result() Result {
	return Result{
		TextID:   m.sample.ID,
		Finished: m.phase == PhaseFinished,
		Aborted:  m.aborted,
		Metrics:  m.metrics,
		SaveErr:  m.saveErr,
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = fallbackWidth, fallbackHeight
	}
	if m.phase == PhaseFinished {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.renderResults())
	}

	bodyHeight := height
	showFooter := height >= minFooterRows
	if showFooter {
		bodyHeight--
	}
	frame := Render(m.sample.Text, m.state, Viewport{
		Width:  width,
		Height: bodyHeight,
		Mode:   m.config.Mode,
		Margin: m.config.Margin,
	})
	vertical := lipgloss.Center
	if m.config.Mode == model.ModeWrap {
		vertical = lipgloss.Top
	}
	body := lipgloss.Place(width, bodyHeight, lipgloss.Left, vertical, frame.Paint())
	if !showFooter {
		return body
	}
	return body + "\n" + lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
}

func (m *Model) renderFooter() string {
	n := m.sample.Text.Len()
	progress := 100
	if n > 0 {
		progress = m.state.Cursor() * 100 / n
	}
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if m.config.Debug {
		segments = append(segments, fmt.Sprintf("cursor %d/%d keys %d errors %d",
			m.state.Cursor(), n, m.state.TotalKeystrokes(), m.state.ErrorCount()))
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	return footer + "  " + m.help.ShortHelpView([]key.Binding{m.keys.Fix, m.keys.Quit})
}

func (m *Model) renderResults() string {
	rows := []struct {
		label string
		value string
	}{
		{"WPM", fmt.Sprintf("%.2f", m.metrics.WPM)},
		{"CPM", fmt.Sprintf("%.2f", m.metrics.CPM)},
		{"Accuracy", fmt.Sprintf("%.2f%%", m.metrics.Accuracy)},
		{"Consistency", fmt.Sprintf("%.2f%%", m.metrics.Consistency)},
		{"Time", m.metrics.Elapsed.Round(100 * time.Millisecond).String()},
	}
	lines := []string{titleStyle.Render("Results for " + m.sample.ID), ""}
	for _, row := range rows {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-12s", row.label))+valueStyle.Render(row.value))
	}
	if m.saveErr != nil {
		lines = append(lines, "", errorStyle.Render("Failed to save score: "+m.saveErr.Error()))
	}
	lines = append(lines, "", "Press any key to exit...")
	return strings.Join(lines, "\n")
}
