// Package textsource selects, loads and describes sample texts.
package textsource

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/verte-zerg/typetrain/internal/apperr"
)

// MaxSampleBytes bounds the size of a sample file read into memory.
const MaxSampleBytes = 1 << 20

// Sample is a loaded text ready for a session.
type Sample struct {
	ID   string
	Path string
	Text ReferenceText
}

// ListTexts returns the sorted names of regular files in dir.
func ListTexts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.ResourceUnavailable(err, "failed to read sample directory %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// MatchTexts returns names fuzzy-matching query, best match first. An empty
// query returns names unchanged.
func MatchTexts(names []string, query string) []string {
	if query == "" {
		return names
	}
	matches := fuzzy.Find(query, names)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}

// PickRandom selects one regular file from dir uniformly at random and loads it.
func PickRandom(dir string, rnd *rand.Rand) (Sample, error) {
	names, err := ListTexts(dir)
	if err != nil {
		return Sample{}, err
	}
	if len(names) == 0 {
		return Sample{}, apperr.ResourceUnavailable(nil, "no sample texts in %s", dir)
	}
	name := names[rnd.Intn(len(names))]
	return Load(filepath.Join(dir, name))
}

// Load reads and normalizes a single sample file.
func Load(path string) (Sample, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Sample{}, apperr.ResourceUnavailable(err, "failed to read sample")
	}
	if info.Size() > MaxSampleBytes {
		return Sample{}, apperr.ResourceExhaustion(nil, "sample %s exceeds %d bytes", path, MaxSampleBytes)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Sample{}, apperr.ResourceUnavailable(err, "failed to read sample")
	}
	text := Normalize(raw)
	if text == "" {
		return Sample{}, apperr.ResourceUnavailable(nil, "sample %s has no typeable characters", path)
	}
	return Sample{
		ID:   filepath.Base(path),
		Path: path,
		Text: NewReferenceText(text),
	}, nil
}

// WriteSample atomically writes text as a new sample file named name in dir.
func WriteSample(dir, name, text string, force bool) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid sample name %q", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create sample directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("sample already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat sample: %w", err)
		}
	}
	tmpFile, err := os.CreateTemp(dir, ".sample-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp sample: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.WriteString(text + "\n"); err != nil {
		return "", fmt.Errorf("failed to write sample: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close sample: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write sample: %w", err)
	}
	return path, nil
}
