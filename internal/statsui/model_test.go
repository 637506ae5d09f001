package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typetrain/internal/model"
)

type fakeSource struct {
	records []model.ScoreRecord
	err     error
}

func (s fakeSource) List(context.Context) ([]model.ScoreRecord, error) {
	return s.records, s.err
}

func sampleSource() fakeSource {
	return fakeSource{records: []model.ScoreRecord{
		{WPM: 40, CPM: 200, Accuracy: 95, Consistency: 90, TextID: "moby-dick.txt"},
		{WPM: 45, CPM: 225, Accuracy: 96, Consistency: 91, TextID: "alice.txt"},
		{WPM: 50, CPM: 250, Accuracy: 97, Consistency: 92, TextID: "moby-dick.txt"},
	}}
}

func newSizedModel(src fakeSource) *Model {
	m := NewModel(src, model.StatsConfig{CurveWindow: 20})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestViewShowsTabsAndSummary(t *testing.T) {
	m := newSizedModel(sampleSource())
	view := m.View()
	for _, want := range []string{"Overview", "History", "By Text", "sessions=3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := newSizedModel(sampleSource())
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabTexts {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "moby-dick.txt") {
		t.Fatalf("expected per-text table in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to first tab, got %d", m.activeTab)
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m := newSizedModel(sampleSource())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.cfg.CurveWindow != 25 {
		t.Fatalf("expected window 25, got %d", m.cfg.CurveWindow)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.cfg.CurveWindow != 15 {
		t.Fatalf("expected window 15, got %d", m.cfg.CurveWindow)
	}
}

func TestFilterAppliesTextQuery(t *testing.T) {
	m := newSizedModel(sampleSource())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[fieldText].SetValue("moby")
	m.filterInputs[fieldLast].SetValue("1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter to be applied")
	}
	if len(m.report.Records) != 1 || m.report.Records[0].WPM != 50 {
		t.Fatalf("unexpected records %+v", m.report.Records)
	}
}

func TestFilterRejectsInvalidWindow(t *testing.T) {
	m := newSizedModel(sampleSource())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.filterInputs[fieldWindow].SetValue("0")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected filter error to keep the form open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode {
		t.Fatalf("expected esc to close the form")
	}
}

func TestLoadErrorShownInFooter(t *testing.T) {
	m := newSizedModel(fakeSource{err: errors.New("broken log")})
	view := m.View()
	if !strings.Contains(view, "broken log") || !strings.Contains(view, "Failed to load stats.") {
		t.Fatalf("expected load error in view:\n%s", view)
	}
}

func TestQuitKey(t *testing.T) {
	m := newSizedModel(sampleSource())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	if nextCurveWindow(3) != 5 || nextCurveWindow(5) != 10 || nextCurveWindow(7) != 10 {
		t.Fatalf("unexpected next window steps")
	}
	if prevCurveWindow(5) != 1 || prevCurveWindow(10) != 5 || prevCurveWindow(7) != 5 {
		t.Fatalf("unexpected prev window steps")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("short lines must be kept, got %q", got)
	}
}
