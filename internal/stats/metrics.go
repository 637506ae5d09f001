package stats

import (
	"time"

	"github.com/verte-zerg/typetrain/internal/model"
	"github.com/verte-zerg/typetrain/internal/session"
)

// minElapsed floors session duration so very fast sessions stay finite.
const minElapsed = time.Second

// Metrics are the final scores of a terminated session.
type Metrics struct {
	WPM         float64
	CPM         float64
	Accuracy    float64
	Consistency float64
	Elapsed     time.Duration
	Keystrokes  int
	Errors      int
}

// Compute derives speed and accuracy scores from a session. It is a pure
// function of the session state and its timestamps.
func Compute(s *session.State) Metrics {
	ref := s.Reference()
	elapsed := elapsedOf(s)
	seconds := elapsed.Seconds()

	cpm := float64(ref.NonSpaceCount()) / seconds * 60
	wpm := cpm / ref.AverageWordLength()

	accuracy := 100.0
	if n := ref.Len(); n > 0 {
		accuracy = float64(s.CorrectCount()) / float64(n) * 100
	}

	consistency := 100.0
	if total := s.TotalKeystrokes(); total > 0 {
		consistency = float64(total-s.ErrorCount()) / float64(total) * 100
	}

	return Metrics{
		WPM:         wpm,
		CPM:         cpm,
		Accuracy:    accuracy,
		Consistency: consistency,
		Elapsed:     elapsed,
		Keystrokes:  s.TotalKeystrokes(),
		Errors:      s.ErrorCount(),
	}
}

func elapsedOf(s *session.State) time.Duration {
	start, okStart := s.StartTime()
	end, okEnd := s.EndTime()
	if !okStart || !okEnd {
		return minElapsed
	}
	elapsed := end.Sub(start)
	if elapsed < minElapsed {
		return minElapsed
	}
	return elapsed
}

// Record converts metrics to a score log record.
func (m Metrics) Record(textID string) model.ScoreRecord {
	return model.ScoreRecord{
		WPM:         m.WPM,
		CPM:         m.CPM,
		Accuracy:    m.Accuracy,
		Consistency: m.Consistency,
		TextID:      textID,
	}
}
