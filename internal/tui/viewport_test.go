package tui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/verte-zerg/typetrain/internal/model"
	"github.com/verte-zerg/typetrain/internal/session"
	"github.com/verte-zerg/typetrain/internal/textsource"
)

func newSession(text string, keys ...rune) (textsource.ReferenceText, *session.State) {
	ref := textsource.NewReferenceText(text)
	st := session.New(ref, nil)
	for _, k := range keys {
		st.Apply(k)
	}
	return ref, st
}

func rowText(row []Cell) string {
	out := make([]byte, len(row))
	for i, c := range row {
		out[i] = c.Ch
	}
	return string(out)
}

func TestRenderIsIdempotent(t *testing.T) {
	ref, st := newSession("the quick brown fox", 't', 'x', 'e')
	for _, mode := range []model.RenderMode{model.ModeScroll, model.ModeWrap} {
		vp := Viewport{Width: 8, Height: 2, Mode: mode, Margin: 3}
		first := Render(ref, st, vp)
		second := Render(ref, st, vp)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: expected identical frames", mode)
		}
	}
}

func TestScrollOffset(t *testing.T) {
	cases := []struct {
		cursor, n, width, margin int
		want                     int
	}{
		{0, 30, 10, 3, 0},
		{6, 30, 10, 3, 0},
		{7, 30, 10, 3, 1},
		{20, 30, 10, 3, 14},
		{0, 30, 10, 20, 0},
		{5, 30, 10, 20, 5},
		{4, 10, 10, 3, 0},
		{9, 10, 10, 3, 0},
		{65, 70, 80, 20, 0},
		{3, 30, 0, 3, 0},
	}
	for _, tc := range cases {
		got := ScrollOffset(tc.cursor, tc.n, tc.width, tc.margin)
		if got != tc.want {
			t.Fatalf("ScrollOffset(%d, %d, %d, %d) = %d, want %d",
				tc.cursor, tc.n, tc.width, tc.margin, got, tc.want)
		}
	}
}

func TestScrollShortTextNeverScrolls(t *testing.T) {
	for cursor := 0; cursor <= 5; cursor++ {
		if got := ScrollOffset(cursor, 5, 10, 20); got != 0 {
			t.Fatalf("cursor %d: expected offset 0, got %d", cursor, got)
		}
	}
	ref, st := newSession("hello", 'h', 'e', 'l')
	frame := Render(ref, st, Viewport{Width: 10, Height: 1, Margin: 20})
	if got := rowText(frame.Rows[0]); got != "hello     " {
		t.Fatalf("unexpected row %q", got)
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	text := strings.Repeat("abcdefghij", 5)
	keys := []rune(text[:25])
	ref, st := newSession(text, keys...)
	vp := Viewport{Width: 10, Height: 1, Margin: 3}
	frame := Render(ref, st, vp)
	offset := ScrollOffset(25, len(text), 10, 3)
	if got, want := rowText(frame.Rows[0]), text[offset:offset+10]; got != want {
		t.Fatalf("unexpected row %q, want %q", got, want)
	}
	col := 25 - offset
	if !frame.Rows[0][col].Cursor {
		t.Fatalf("expected cursor at column %d", col)
	}
	if col != vp.Width-vp.Margin-1 {
		t.Fatalf("expected cursor %d columns from right edge, got column %d", vp.Margin, col)
	}
}

func TestErrorsShowExpectedCharacter(t *testing.T) {
	ref, st := newSession("abc", 'a', 'x')
	frame := Render(ref, st, Viewport{Width: 5, Height: 1, Margin: 2})
	row := frame.Rows[0]
	if row[0].Style != StyleCorrect || row[0].Ch != 'a' {
		t.Fatalf("unexpected first cell %+v", row[0])
	}
	if row[1].Style != StyleError || row[1].Ch != 'b' {
		t.Fatalf("expected error cell showing reference, got %+v", row[1])
	}
	if row[2].Style != StylePending || !row[2].Cursor || row[2].Ch != 'c' {
		t.Fatalf("expected pending cursor cell, got %+v", row[2])
	}
	if row[3].Style != StyleBlank || row[4].Style != StyleBlank {
		t.Fatalf("expected blank cells past the text")
	}
}

func TestRetreatedSlotRendersPending(t *testing.T) {
	ref, st := newSession("abc", 'a', 'x', session.CodeDEL)
	row := Render(ref, st, Viewport{Width: 3, Height: 1}).Rows[0]
	if row[1].Style != StylePending || !row[1].Cursor {
		t.Fatalf("expected retreated slot to render as pending cursor, got %+v", row[1])
	}
}

func TestWrapMapping(t *testing.T) {
	ref, st := newSession("abcdefg", 'a', 'b', 'c', 'd', 'e')
	frame := Render(ref, st, Viewport{Width: 3, Height: 5, Mode: model.ModeWrap})
	if frame.Height != 3 || len(frame.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(frame.Rows))
	}
	want := []string{"abc", "def", "g  "}
	for r, row := range frame.Rows {
		if got := rowText(row); got != want[r] {
			t.Fatalf("row %d = %q, want %q", r, got, want[r])
		}
	}
	for i := 0; i < 7; i++ {
		cell := frame.Rows[i/3][i%3]
		if i < 5 && cell.Style != StyleCorrect {
			t.Fatalf("index %d: expected correct, got %v", i, cell.Style)
		}
		if i >= 5 && cell.Style != StylePending {
			t.Fatalf("index %d: expected pending, got %v", i, cell.Style)
		}
	}
	if !frame.Rows[1][2].Cursor {
		t.Fatalf("expected cursor at row 1 col 2")
	}
}

func TestWrapOverflowFollowsCursor(t *testing.T) {
	text := "aaabbbcccddd"
	ref, st := newSession(text, []rune(text[:10])...)
	frame := Render(ref, st, Viewport{Width: 3, Height: 2, Mode: model.ModeWrap})
	if len(frame.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(frame.Rows))
	}
	if rowText(frame.Rows[0]) != "ccc" || rowText(frame.Rows[1]) != "ddd" {
		t.Fatalf("unexpected window %q %q", rowText(frame.Rows[0]), rowText(frame.Rows[1]))
	}

	ref, st = newSession(text, 'a')
	frame = Render(ref, st, Viewport{Width: 3, Height: 2, Mode: model.ModeWrap})
	if rowText(frame.Rows[0]) != "aaa" {
		t.Fatalf("expected window at top, got %q", rowText(frame.Rows[0]))
	}
}

func TestRenderEmptyViewport(t *testing.T) {
	ref, st := newSession("abc")
	if frame := Render(ref, st, Viewport{Width: 0, Height: 1}); len(frame.Rows) != 0 {
		t.Fatalf("expected empty frame")
	}
}

func TestPaintRowsAndTrailingBlanks(t *testing.T) {
	ref, st := newSession("abcdefg", 'a')
	frame := Render(ref, st, Viewport{Width: 3, Height: 5, Mode: model.ModeWrap})
	out := frame.Paint()
	if lines := strings.Split(out, "\n"); len(lines) != 3 {
		t.Fatalf("expected 3 painted lines, got %d", len(lines))
	}
	if strings.HasSuffix(out, " ") {
		t.Fatalf("expected trailing blanks to be dropped: %q", out)
	}
}
