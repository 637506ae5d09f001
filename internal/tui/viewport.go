package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrain/internal/model"
	"github.com/verte-zerg/typetrain/internal/session"
	"github.com/verte-zerg/typetrain/internal/textsource"
)

// DefaultMargin is the look-ahead kept to the right of the cursor in scroll mode.
const DefaultMargin = 20

// CellStyle is the display class of a single frame cell.
type CellStyle int

const (
	StyleBlank CellStyle = iota
	StyleCorrect
	StyleError
	StylePending
)

// Cell is one character position on screen.
type Cell struct {
	Ch     byte
	Style  CellStyle
	Cursor bool
}

// Frame is a fully drawn grid of cells. It is rebuilt on every tick.
type Frame struct {
	Width  int
	Height int
	Rows   [][]Cell
}

// Viewport describes the drawable area and layout.
type Viewport struct {
	Width  int
	Height int
	Mode   model.RenderMode
	Margin int
}

var (
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle  = pendingStyle.Underline(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Render projects the session onto vp. It has no side effects, so equal
// inputs always yield equal frames.
func Render(ref textsource.ReferenceText, state *session.State, vp Viewport) Frame {
	if vp.Width <= 0 || vp.Height <= 0 {
		return Frame{}
	}
	if vp.Mode == model.ModeWrap {
		return renderWrap(ref, state, vp)
	}
	return renderScroll(ref, state, vp)
}

func renderScroll(ref textsource.ReferenceText, state *session.State, vp Viewport) Frame {
	offset := ScrollOffset(state.Cursor(), ref.Len(), vp.Width, vp.Margin)
	row := make([]Cell, vp.Width)
	for col := range row {
		row[col] = cellAt(ref, state, offset+col)
	}
	return Frame{Width: vp.Width, Height: 1, Rows: [][]Cell{row}}
}

func renderWrap(ref textsource.ReferenceText, state *session.State, vp Viewport) Frame {
	n := ref.Len()
	totalRows := (n + vp.Width - 1) / vp.Width
	if totalRows == 0 {
		totalRows = 1
	}
	first := 0
	if totalRows > vp.Height {
		cursorRow := clamp(state.Cursor()/vp.Width, 0, totalRows-1)
		first = max(0, cursorRow-vp.Height+1)
	}
	visible := min(totalRows-first, vp.Height)
	rows := make([][]Cell, visible)
	for r := range rows {
		row := make([]Cell, vp.Width)
		for col := range row {
			row[col] = cellAt(ref, state, (first+r)*vp.Width+col)
		}
		rows[r] = row
	}
	return Frame{Width: vp.Width, Height: visible, Rows: rows}
}

// cellAt styles text index i. Mistakes show the expected character.
func cellAt(ref textsource.ReferenceText, state *session.State, i int) Cell {
	if i < 0 || i >= ref.Len() {
		return Cell{Ch: ' ', Style: StyleBlank}
	}
	expected := ref.At(i)
	if _, typed := state.Typed(i); typed {
		if state.Matches(i) {
			return Cell{Ch: expected, Style: StyleCorrect}
		}
		return Cell{Ch: expected, Style: StyleError}
	}
	return Cell{Ch: expected, Style: StylePending, Cursor: i == state.Cursor()}
}

// ScrollOffset returns the first text index shown in scroll mode. Text that
// fits the width never scrolls; otherwise the cursor is kept margin columns
// from the right edge.
func ScrollOffset(cursor, n, width, margin int) int {
	if width <= 0 || n <= width {
		return 0
	}
	m := clamp(margin, 0, width-1)
	if cursor+m < width {
		return 0
	}
	return clamp(cursor-width+m+1, 0, cursor)
}

// Paint renders the frame as styled terminal rows. Trailing blank cells are
// dropped.
func (f Frame) Paint() string {
	lines := make([]string, len(f.Rows))
	for r, row := range f.Rows {
		end := len(row)
		for end > 0 && row[end-1].Style == StyleBlank {
			end--
		}
		var b strings.Builder
		start := 0
		for start < end {
			stop := start + 1
			for stop < end && sameLook(row[start], row[stop]) {
				stop++
			}
			run := make([]byte, 0, stop-start)
			for _, c := range row[start:stop] {
				run = append(run, c.Ch)
			}
			b.WriteString(paintRun(row[start], string(run)))
			start = stop
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

func sameLook(a, b Cell) bool {
	return a.Style == b.Style && a.Cursor == b.Cursor
}

func paintRun(c Cell, s string) string {
	switch {
	case c.Cursor:
		return cursorStyle.Render(s)
	case c.Style == StyleCorrect:
		return correctStyle.Render(s)
	case c.Style == StyleError:
		return errorStyle.Render(s)
	case c.Style == StylePending:
		return pendingStyle.Render(s)
	default:
		return s
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
