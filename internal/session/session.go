// Package session holds the live typing model: what was typed against the
// reference text and the keystroke counters used for scoring.
package session

import (
	"time"

	"github.com/verte-zerg/typetrain/internal/textsource"
)

// Clock returns the current time.
type Clock func() time.Time

// State is the mutable typing model. It is owned by a single input loop.
type State struct {
	ref   textsource.ReferenceText
	clock Clock

	cursor int
	typed  []byte

	totalKeystrokes int
	errorCount      int

	startTime time.Time
	endTime   time.Time
	started   bool
	ended     bool
}

// New creates a session over ref. A nil clock uses time.Now.
func New(ref textsource.ReferenceText, clock Clock) *State {
	if clock == nil {
		clock = time.Now
	}
	return &State{
		ref:   ref,
		clock: clock,
		typed: make([]byte, ref.Len()),
	}
}

// Advance records entered at the cursor and moves the cursor forward.
// The caller must ensure the session is not complete.
func (s *State) Advance(entered byte) {
	s.markStarted()
	s.typed[s.cursor] = entered
	s.totalKeystrokes++
	if entered != s.ref.At(s.cursor) {
		s.errorCount++
	}
	s.cursor++
	if s.cursor == s.ref.Len() && !s.ended {
		s.endTime = s.clock()
		s.ended = true
	}
}

// Retreat moves the cursor back one position. The previously entered
// character stays in its slot and the counters are untouched, so a corrected
// mistake still counts as an error. The caller must ensure Cursor() > 0.
func (s *State) Retreat() {
	s.markStarted()
	s.cursor--
}

func (s *State) markStarted() {
	if s.started {
		return
	}
	s.startTime = s.clock()
	s.started = true
}

// Apply classifies code and applies it. It reports whether the state changed.
// Backspace at position 0, keys after completion and unrecognised codes are
// ignored.
func (s *State) Apply(code rune) bool {
	switch Classify(code) {
	case KeyPrintable:
		if s.IsComplete() {
			return false
		}
		s.Advance(byte(code))
		return true
	case KeyBackspace:
		if s.cursor == 0 || s.IsComplete() {
			return false
		}
		s.Retreat()
		return true
	default:
		return false
	}
}

// IsComplete reports whether every character has been typed.
func (s *State) IsComplete() bool {
	return s.cursor == s.ref.Len()
}

// Reference returns the text being typed.
func (s *State) Reference() textsource.ReferenceText {
	return s.ref
}

// Cursor returns the index of the next character to type.
func (s *State) Cursor() int {
	return s.cursor
}

// Typed returns the character entered at i and whether i is before the cursor.
func (s *State) Typed(i int) (byte, bool) {
	if i < 0 || i >= s.cursor {
		return 0, false
	}
	return s.typed[i], true
}

// Matches reports whether position i holds the reference character.
func (s *State) Matches(i int) bool {
	c, ok := s.Typed(i)
	return ok && c == s.ref.At(i)
}

// CorrectCount returns the number of typed positions matching the reference.
func (s *State) CorrectCount() int {
	n := 0
	for i := 0; i < s.cursor; i++ {
		if s.typed[i] == s.ref.At(i) {
			n++
		}
	}
	return n
}

// TotalKeystrokes returns the number of printable characters entered.
func (s *State) TotalKeystrokes() int {
	return s.totalKeystrokes
}

// ErrorCount returns the number of mismatches at time of entry.
func (s *State) ErrorCount() int {
	return s.errorCount
}

// Started reports whether the first accepted key has been applied.
func (s *State) Started() bool {
	return s.started
}

// StartTime returns the time of the first accepted key.
func (s *State) StartTime() (time.Time, bool) {
	return s.startTime, s.started
}

// EndTime returns the time the last character was typed.
func (s *State) EndTime() (time.Time, bool) {
	return s.endTime, s.ended
}
