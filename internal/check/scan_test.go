package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/models"
)

// fakeLinks serves a fixed triple slice for either mode.
type fakeLinks struct {
	all     []models.Link
	current []models.Link
}

func (f *fakeLinks) AllLinks() ([]models.Link, error)     { return f.all, nil }
func (f *fakeLinks) CurrentLinks() ([]models.Link, error) { return f.current, nil }

func TestScan_UnresolvedRoamLink(t *testing.T) {
	// Index contains one roam link whose title never resolves.
	src := &fakeLinks{all: []models.Link{
		{Source: "noteA.md", Target: "noteB", Type: "roam"},
	}}
	reg := DefaultRegistry(fakeResolver{}, t.TempDir(), nil, discardLogger())
	s := NewScanner(src, reg, "", discardLogger())

	broken, err := s.Scan(ModeAll)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []BrokenLink{{Source: "noteA.md", Target: "noteB", Type: "roam"}}
	if len(broken) != 1 || broken[0] != want[0] {
		t.Errorf("broken = %+v, want %+v", broken, want)
	}
}

func TestScan_ValidRelativeFileLink(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "noteA.md", "[[file:./sub/noteB.md]]\n")
	if err := writeDeep(dir, "sub/noteB.md", "# B\n\nreal content\n"); err != nil {
		t.Fatal(err)
	}

	var seen []string
	counting := countingValidator(DefaultRegistry(fakeResolver{}, dir, nil, discardLogger())["file"], &seen)

	src := &fakeLinks{all: []models.Link{
		{Source: "noteA.md", Target: "./sub/noteB.md", Type: "file"},
	}}
	s := NewScanner(src, Registry{"file": counting}, dir, discardLogger())

	broken, err := s.Scan(ModeAll)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(broken) != 0 {
		t.Errorf("expected no broken links, got %+v", broken)
	}
	if len(seen) != 1 || seen[0] != "./sub/noteB.md" {
		t.Errorf("validator calls = %v, want one call with the raw target", seen)
	}
}

func TestScan_BlankFileReportedWithNormalizedPath(t *testing.T) {
	dir := t.TempDir()
	if err := writeDeep(dir, "sub/noteB.md", "# Title\n\n"); err != nil {
		t.Fatal(err)
	}

	src := &fakeLinks{all: []models.Link{
		{Source: "noteA.md", Target: "./sub/noteB.md", Type: "file"},
	}}
	reg := DefaultRegistry(fakeResolver{}, dir, nil, discardLogger())
	s := NewScanner(src, reg, dir, discardLogger())

	broken, err := s.Scan(ModeAll)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(broken) != 1 {
		t.Fatalf("broken = %+v, want 1 record", broken)
	}
	// The record carries the absolute normalized path; validation used the raw one.
	wantTarget := filepath.Join(dir, "sub", "noteB.md")
	if broken[0].Target != wantTarget {
		t.Errorf("target = %q, want %q", broken[0].Target, wantTarget)
	}
	if broken[0].Source != "noteA.md" || broken[0].Type != "file" {
		t.Errorf("record = %+v", broken[0])
	}
}

func TestScan_ValidatorInvokedOncePerDistinctPair(t *testing.T) {
	// Five occurrences of the same (type, target) across different sources,
	// plus one distinct pair.
	src := &fakeLinks{all: []models.Link{
		{Source: "a.md", Target: "hub", Type: "roam"},
		{Source: "b.md", Target: "hub", Type: "roam"},
		{Source: "c.md", Target: "hub", Type: "roam"},
		{Source: "d.md", Target: "hub", Type: "roam"},
		{Source: "e.md", Target: "hub", Type: "roam"},
		{Source: "e.md", Target: "other", Type: "roam"},
	}}

	var seen []string
	counting := countingValidator(ValidatorFunc(func(string) bool { return false }), &seen)
	s := NewScanner(src, Registry{"roam": counting}, "", discardLogger())

	broken, err := s.Scan(ModeAll)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("validator invoked %d times, want 2 (distinct pairs only): %v", len(seen), seen)
	}
	// Every occurrence still yields a record, cached or not.
	if len(broken) != 6 {
		t.Errorf("broken = %d records, want 6", len(broken))
	}
}

func TestScan_SameTargetDifferentTypesNotShared(t *testing.T) {
	src := &fakeLinks{all: []models.Link{
		{Source: "a.md", Target: "x", Type: "roam"},
		{Source: "a.md", Target: "x", Type: "file"},
	}}
	var seen []string
	counting := countingValidator(ValidatorFunc(func(string) bool { return true }), &seen)
	s := NewScanner(src, Registry{"roam": counting, "file": counting}, "", discardLogger())

	if _, err := s.Scan(ModeAll); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("validator invoked %d times, want 2: verdicts must not be shared across types", len(seen))
	}
}

func TestScan_RegistryOverrideAlwaysFalse(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "exists.md", "plenty of content\n")

	src := &fakeLinks{all: []models.Link{
		{Source: "a.md", Target: "exists.md", Type: "file"},
		{Source: "b.md", Target: "missing.md", Type: "file"},
		{Source: "c.md", Target: "whatever", Type: "roam"},
	}}
	reg := Registry{"file": ValidatorFunc(func(string) bool { return false })}
	s := NewScanner(src, reg, dir, discardLogger())

	broken, err := s.Scan(ModeAll)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	// Both file links broken regardless of disk state; roam unregistered → valid.
	if len(broken) != 2 {
		t.Fatalf("broken = %+v, want the 2 file links", broken)
	}
	for _, r := range broken {
		if r.Type != "file" {
			t.Errorf("unexpected broken record %+v", r)
		}
	}
}

func TestScan_RegistrySnapshotIsolation(t *testing.T) {
	reg := Registry{"roam": ValidatorFunc(func(string) bool { return false })}
	src := &fakeLinks{all: []models.Link{{Source: "a.md", Target: "x", Type: "roam"}}}
	s := NewScanner(src, reg, "", discardLogger())

	// Mutating the caller's registry after construction must not affect the scanner.
	reg["roam"] = ValidatorFunc(func(string) bool { return true })

	broken, err := s.Scan(ModeAll)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(broken) != 1 {
		t.Error("scanner should use the registry snapshot taken at construction")
	}
}

func TestScan_EmptySource(t *testing.T) {
	s := NewScanner(&fakeLinks{}, Registry{}, "", discardLogger())
	broken, err := s.Scan(ModeAll)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(broken) != 0 {
		t.Errorf("broken = %+v, want none", broken)
	}
}

func TestScan_UnknownMode(t *testing.T) {
	s := NewScanner(&fakeLinks{}, Registry{}, "", discardLogger())
	if _, err := s.Scan(Mode("bogus")); err == nil {
		t.Error("expected error for unknown mode")
	}
}

// countingValidator records each target passed to the wrapped validator.
func countingValidator(inner Validator, seen *[]string) Validator {
	return ValidatorFunc(func(target string) bool {
		*seen = append(*seen, target)
		return inner.Validate(target)
	})
}

// writeDeep writes content at a nested path under dir, creating parents.
func writeDeep(dir, rel, content string) error {
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0o644)
}
