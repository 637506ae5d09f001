// Package model defines shared data structures.
package model

// RenderMode selects how the sample is laid out on the terminal.
type RenderMode int

const (
	// ModeScroll renders a single row that pans to keep the cursor visible.
	ModeScroll RenderMode = iota
	// ModeWrap renders the whole sample wrapped at terminal width.
	ModeWrap
)

func (m RenderMode) String() string {
	if m == ModeWrap {
		return "wrap"
	}
	return "scroll"
}

// Config defines practice settings. It is built once from flags and the
// config file and never mutated afterwards.
type Config struct {
	Mode       RenderMode
	Debug      bool
	TextsDir   string
	TextFile   string
	ScoresPath string
	Margin     int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Text        string
	Last        int
	CurveWindow int
}

// ScoreRecord is one completed session as appended to the score log.
type ScoreRecord struct {
	WPM         float64
	CPM         float64
	Accuracy    float64
	Consistency float64
	TextID      string
}

// TextAggregate summarizes the records of a single sample text.
type TextAggregate struct {
	TextID         string
	Sessions       int
	AvgWPM         float64
	BestWPM        float64
	AvgAccuracy    float64
	AvgConsistency float64
}
