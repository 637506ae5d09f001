package stats

import (
	"context"

	"github.com/sahilm/fuzzy"

	"github.com/verte-zerg/typetrain/internal/model"
)

// Source lists stored score records in log order.
type Source interface {
	List(ctx context.Context) ([]model.ScoreRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records []model.ScoreRecord
	Texts   []model.TextAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	records, err := src.List(ctx)
	if err != nil {
		return Report{}, err
	}
	records = FilterByText(records, cfg.Text)
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[len(records)-cfg.Last:]
	}
	return Report{
		Records: records,
		Texts:   TextAggregates(records),
	}, nil
}

// FilterByText keeps records whose text identifier fuzzy-matches query,
// preserving log order. An empty query keeps everything.
func FilterByText(records []model.ScoreRecord, query string) []model.ScoreRecord {
	if query == "" {
		return records
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.TextID
	}
	matches := fuzzy.Find(query, ids)
	keep := make([]bool, len(records))
	for _, m := range matches {
		keep[m.Index] = true
	}
	out := make([]model.ScoreRecord, 0, len(matches))
	for i, rec := range records {
		if keep[i] {
			out = append(out, rec)
		}
	}
	return out
}
