// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typetrain/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of score records.
type Summary struct {
	Sessions       int
	AvgWPM         float64
	BestWPM        float64
	AvgCPM         float64
	AvgAccuracy    float64
	AvgConsistency float64
}

// Summarize averages the records.
func Summarize(records []model.ScoreRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	var s Summary
	for _, r := range records {
		s.AvgWPM += r.WPM
		s.AvgCPM += r.CPM
		s.AvgAccuracy += r.Accuracy
		s.AvgConsistency += r.Consistency
		if r.WPM > s.BestWPM {
			s.BestWPM = r.WPM
		}
	}
	count := float64(len(records))
	s.Sessions = len(records)
	s.AvgWPM /= count
	s.AvgCPM /= count
	s.AvgAccuracy /= count
	s.AvgConsistency /= count
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = clampInt(idx, 0, len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for the records.
func RenderSummary(w io.Writer, records []model.ScoreRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(records)
	wpms := make([]float64, len(records))
	for i, r := range records {
		wpms[i] = r.WPM
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", s.BestWPM),
		fmt.Sprintf("Avg CPM: %.2f", s.AvgCPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		fmt.Sprintf("Avg Consistency: %.2f%%", s.AvgConsistency),
		fmt.Sprintf("WPM trend: [%s]", Sparkline(wpms)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for WPM, accuracy and consistency.
func RenderCurves(w io.Writer, records []model.ScoreRecord, window, totalWidth, height int, useColor bool) error {
	if len(records) == 0 {
		return nil
	}
	wpms := make([]float64, len(records))
	accs := make([]float64, len(records))
	cons := make([]float64, len(records))
	for i, r := range records {
		wpms[i] = r.WPM
		accs[i] = r.Accuracy
		cons[i] = r.Consistency
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
		{Name: "Consistency", Values: MovingAverage(cons, window)},
	}, width, height, useColor)
}

// TextAggregates groups records by text identifier, most practiced first.
func TextAggregates(records []model.ScoreRecord) []model.TextAggregate {
	index := map[string]int{}
	var out []model.TextAggregate
	for _, r := range records {
		i, ok := index[r.TextID]
		if !ok {
			i = len(out)
			index[r.TextID] = i
			out = append(out, model.TextAggregate{TextID: r.TextID})
		}
		agg := &out[i]
		agg.Sessions++
		agg.AvgWPM += r.WPM
		agg.AvgAccuracy += r.Accuracy
		agg.AvgConsistency += r.Consistency
		if r.WPM > agg.BestWPM {
			agg.BestWPM = r.WPM
		}
	}
	for i := range out {
		n := float64(out[i].Sessions)
		out[i].AvgWPM /= n
		out[i].AvgAccuracy /= n
		out[i].AvgConsistency /= n
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sessions == out[j].Sessions {
			return out[i].TextID < out[j].TextID
		}
		return out[i].Sessions > out[j].Sessions
	})
	return out
}

// TextTableHeaders are the column titles of the per-text table.
var TextTableHeaders = []string{"Text", "Sessions", "Avg WPM", "Best WPM", "Avg Acc", "Avg Cons"}

// TextTableRows formats aggregates as table cells.
func TextTableRows(aggs []model.TextAggregate) [][]string {
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.TextID,
			fmt.Sprintf("%d", agg.Sessions),
			fmt.Sprintf("%.1f", agg.AvgWPM),
			fmt.Sprintf("%.1f", agg.BestWPM),
			fmt.Sprintf("%.2f%%", agg.AvgAccuracy),
			fmt.Sprintf("%.2f%%", agg.AvgConsistency),
		})
	}
	return rows
}

// RenderTextTable prints per-text aggregates.
func RenderTextTable(w io.Writer, aggs []model.TextAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No texts found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Text"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(TextTableHeaders, TextTableRows(aggs), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.IsInf(minVal, 1) {
		return 0, 0
	}
	return minVal, maxVal
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
