// Package store persists completed sessions to the append-only score log.
package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/typetrain/internal/apperr"
	"github.com/verte-zerg/typetrain/internal/model"
)

const fieldCount = 5

// Store appends score records to a flat CSV file, one line per session.
type Store struct {
	path string
}

// Open returns a store for the score log at path. Nothing is touched on disk
// until the first append.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, apperr.PersistenceFailure(nil, "score log path is empty")
	}
	return &Store{path: path}, nil
}

// Path returns the score log location.
func (s *Store) Path() string {
	return s.path
}

// Append writes rec as a single line at the end of the log, creating missing
// parent directories first. Existing lines are never rewritten.
func (s *Store) Append(ctx context.Context, rec model.ScoreRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperr.PersistenceFailure(err, "failed to create score directory")
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return apperr.PersistenceFailure(err, "failed to open score log %s", s.path)
	}
	if _, err := f.WriteString(FormatRecord(rec)); err != nil {
		_ = f.Close()
		return apperr.PersistenceFailure(err, "failed to write score log %s", s.path)
	}
	if err := f.Close(); err != nil {
		return apperr.PersistenceFailure(err, "failed to close score log %s", s.path)
	}
	return nil
}

// List reads every record in file order. A missing log yields no records.
func (s *Store) List(ctx context.Context) ([]model.ScoreRecord, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.PersistenceFailure(err, "failed to open score log %s", s.path)
	}
	defer func() {
		_ = f.Close()
	}()

	var records []model.ScoreRecord
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, apperr.PersistenceFailure(err, "%s:%d", s.path, lineNo)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.PersistenceFailure(err, "failed to read score log %s", s.path)
	}
	return records, nil
}

// FormatRecord renders rec as a log line including the trailing newline.
// The text identifier is written verbatim.
func FormatRecord(rec model.ScoreRecord) string {
	return fmt.Sprintf("%.2f,%.2f,%.2f,%.2f,%s\n", rec.WPM, rec.CPM, rec.Accuracy, rec.Consistency, rec.TextID)
}

// ParseRecord parses a single log line. Only the first four commas separate
// fields, so identifiers containing commas survive.
func ParseRecord(line string) (model.ScoreRecord, error) {
	parts := strings.SplitN(strings.TrimRight(line, "\r\n"), ",", fieldCount)
	if len(parts) != fieldCount {
		return model.ScoreRecord{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(parts))
	}
	values := make([]float64, fieldCount-1)
	for i := range values {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return model.ScoreRecord{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = v
	}
	return model.ScoreRecord{
		WPM:         values[0],
		CPM:         values[1],
		Accuracy:    values[2],
		Consistency: values[3],
		TextID:      parts[4],
	}, nil
}
