package check

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/raido/internal/models"
)

// Mode selects which collaborator supplies the link triples for a scan.
type Mode string

const (
	// ModeAll scans every link recorded in the persisted index.
	ModeAll Mode = "all"
	// ModeCurrent scans only the links of one note, re-read from disk so
	// the scan reflects content the index has not picked up yet.
	ModeCurrent Mode = "current"
)

// LinkSource supplies link triples for a scan.
type LinkSource interface {
	// AllLinks returns every link recorded in the persisted index.
	AllLinks() ([]models.Link, error)
	// CurrentLinks returns the links of the current note only.
	CurrentLinks() ([]models.Link, error)
}

// BrokenLink is one reported invalid link. Target carries the normalized
// form; Source and Type are taken from the originating triple.
type BrokenLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// verdictKey identifies one cached validity decision. A struct key keeps
// type and target separate, so a target containing a delimiter character
// can never collide with another pair.
type verdictKey struct {
	typ    string
	target string
}

// Scanner runs link-integrity scans. Each Scan call owns its verdict
// cache; the registry is snapshotted at construction so concurrent
// reconfiguration never leaks into a running scan.
type Scanner struct {
	src    LinkSource
	reg    Registry
	root   string // absolute vault root, base for resolving relative sources
	logger *slog.Logger
}

// NewScanner creates a scanner over the given link source and validator
// registry. root is the absolute vault directory used to anchor relative
// source-note paths when normalizing reported targets.
func NewScanner(src LinkSource, reg Registry, root string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{src: src, reg: reg.clone(), root: root, logger: logger}
}

// Scan pulls link triples for the given mode and returns the broken ones
// in input order. Each distinct (type, target) pair is validated at most
// once; repeated occurrences reuse the cached verdict, so validator cost
// is bounded by distinct targets rather than link occurrences.
func (s *Scanner) Scan(mode Mode) ([]BrokenLink, error) {
	var (
		triples []models.Link
		err     error
	)
	switch mode {
	case ModeAll:
		triples, err = s.src.AllLinks()
	case ModeCurrent:
		triples, err = s.src.CurrentLinks()
	default:
		return nil, fmt.Errorf("check: unknown scan mode %q", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("check: collect links: %w", err)
	}

	cache := make(map[verdictKey]bool, len(triples))
	var broken []BrokenLink

	for _, t := range triples {
		key := verdictKey{typ: t.Type, target: t.Target}
		valid, ok := cache[key]
		if !ok {
			valid = s.reg.IsValid(t.Target, t.Type)
			cache[key] = valid
		}
		if valid {
			continue
		}
		broken = append(broken, BrokenLink{
			Source: t.Source,
			Target: NormalizeTarget(s.absSource(t.Source), t.Target, t.Type),
			Type:   t.Type,
		})
	}

	s.logger.Debug("check: scan complete",
		slog.String("mode", string(mode)),
		slog.Int("links", len(triples)),
		slog.Int("broken", len(broken)))

	return broken, nil
}

// absSource anchors a vault-relative source key at the vault root so
// normalized targets come out absolute.
func (s *Scanner) absSource(source string) string {
	if filepath.IsAbs(source) || s.root == "" {
		return source
	}
	return filepath.Join(s.root, source)
}
