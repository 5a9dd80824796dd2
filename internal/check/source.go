package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
)

// LinkIndex is the slice of the note index the vault source needs.
type LinkIndex interface {
	AllLinks() ([]models.Link, error)
}

// VaultSource implements LinkSource over the SQLite index (all mode) and
// a fresh parse of one note file (current mode). Reading the note from
// disk instead of the index means a current-mode scan sees edits the
// watcher has not indexed yet.
type VaultSource struct {
	idx  LinkIndex
	root string // absolute vault root
	note string // current note, vault-relative or absolute; may be empty
}

// NewVaultSource creates a link source over idx, rooted at the absolute
// vault directory. note is the current-mode note path and may be empty
// when only all-mode scans are intended.
func NewVaultSource(idx LinkIndex, root, note string) *VaultSource {
	return &VaultSource{idx: idx, root: root, note: note}
}

// AllLinks returns every link recorded in the index.
func (v *VaultSource) AllLinks() ([]models.Link, error) {
	return v.idx.AllLinks()
}

// CurrentLinks parses the current note and returns its links. The source
// key of each triple is the note's vault-relative path so records group
// the same way in both modes.
func (v *VaultSource) CurrentLinks() ([]models.Link, error) {
	if v.note == "" {
		return nil, fmt.Errorf("check: no current note configured")
	}

	abs := v.note
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(v.root, v.note)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("check: read current note: %w", err)
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("check: parse current note: %w", err)
	}

	source := v.note
	if rel, relErr := filepath.Rel(v.root, abs); relErr == nil {
		source = rel
	}

	out := make([]models.Link, len(res.Links))
	for i, l := range res.Links {
		out[i] = models.Link{Source: source, Target: l.Target, Type: l.Type}
	}
	return out, nil
}
