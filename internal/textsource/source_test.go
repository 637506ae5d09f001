package textsource

import (
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typetrain/internal/apperr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestListTextsSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "beta")
	writeFile(t, dir, "a.txt", "alpha")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	names, err := ListTexts(dir)
	if err != nil {
		t.Fatalf("list texts: %v", err)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestPickRandomEmptyDirectory(t *testing.T) {
	_, err := PickRandom(t.TempDir(), rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatalf("expected error for empty directory")
	}
	if !apperr.IsKind(err, apperr.KindResourceUnavailable) {
		t.Fatalf("expected resource unavailable, got %v", err)
	}
}

func TestPickRandomMissingDirectory(t *testing.T) {
	_, err := PickRandom(filepath.Join(t.TempDir(), "nope"), rand.New(rand.NewSource(1)))
	if !apperr.IsKind(err, apperr.KindResourceUnavailable) {
		t.Fatalf("expected resource unavailable, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestPickRandomCoversAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "one")
	writeFile(t, dir, "two.txt", "two")
	writeFile(t, dir, "three.txt", "three")
	rnd := rand.New(rand.NewSource(42))
	seen := map[string]int{}
	for i := 0; i < 300; i++ {
		sample, err := PickRandom(dir, rnd)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		seen[sample.ID]++
	}
	if len(seen) != 3 {
		t.Fatalf("expected all three files to be picked, got %v", seen)
	}
	for id, n := range seen {
		if n < 50 {
			t.Fatalf("file %s picked only %d times", id, n)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "poem.txt", "  roses are\tred\r\n\nvioletsé are blue\n")
	sample, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sample.ID != "poem.txt" {
		t.Fatalf("unexpected id %q", sample.ID)
	}
	if got := sample.Text.String(); got != "roses are red violets are blue" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestLoadRejectsBlankSample(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blank.txt", " \n\t\n")
	if _, err := Load(path); !apperr.IsKind(err, apperr.KindResourceUnavailable) {
		t.Fatalf("expected resource unavailable, got %v", err)
	}
}

func TestLoadRejectsOversizedSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.Truncate(MaxSampleBytes + 1); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	_ = f.Close()
	if _, err := Load(path); !apperr.IsKind(err, apperr.KindResourceExhaustion) {
		t.Fatalf("expected resource exhaustion, got %v", err)
	}
}

func TestMatchTexts(t *testing.T) {
	names := []string{"alice.txt", "moby-dick.txt", "hamlet.txt"}
	got := MatchTexts(names, "moby")
	if len(got) != 1 || got[0] != "moby-dick.txt" {
		t.Fatalf("unexpected matches: %v", got)
	}
	if all := MatchTexts(names, ""); len(all) != 3 {
		t.Fatalf("expected empty query to keep all names, got %v", all)
	}
}

func TestWriteSample(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "texts")
	path, err := WriteSample(dir, "gen.txt", "hello world", false)
	if err != nil {
		t.Fatalf("write sample: %v", err)
	}
	sample, err := Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if sample.Text.String() != "hello world" {
		t.Fatalf("unexpected sample %q", sample.Text.String())
	}
	if _, err := WriteSample(dir, "gen.txt", "again", false); err == nil {
		t.Fatalf("expected overwrite to be refused")
	}
	if _, err := WriteSample(dir, "gen.txt", "again", true); err != nil {
		t.Fatalf("expected forced overwrite, got %v", err)
	}
	if _, err := WriteSample(dir, "../escape.txt", "x", true); err == nil {
		t.Fatalf("expected invalid name to be rejected")
	}
	names, err := ListTexts(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %v", names)
	}
}
