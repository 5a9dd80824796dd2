package api

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/check"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/storage"
)

// Service coordinates storage, index, and the link checker for the API layer.
type Service struct {
	store     storage.Provider
	db        *index.DB
	registry  check.Registry
	vaultRoot string
	logger    *slog.Logger
}

// NewService creates a new API service. registry is the validator mapping
// used for every scan this service runs.
func NewService(store storage.Provider, db *index.DB, registry check.Registry, vaultRoot string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, db: db, registry: registry, vaultRoot: vaultRoot, logger: logger}
}

// NoteDetail is the response payload for a single note.
type NoteDetail struct {
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Content  string        `json:"content"`
	Checksum string        `json:"checksum"`
	Links    []models.Link `json:"links"`
}

// Check runs a link-integrity scan. note selects the subject of a
// current-mode scan and is ignored in all mode.
func (s *Service) Check(_ context.Context, mode check.Mode, note string) ([]check.BrokenLink, error) {
	src := check.NewVaultSource(s.db, s.vaultRoot, note)
	scanner := check.NewScanner(src, s.registry, s.vaultRoot, s.logger)
	return scanner.Scan(mode)
}

// GetNote reads a note from storage and parses it.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}

	links := make([]models.Link, len(res.Links))
	for i, l := range res.Links {
		links[i] = models.Link{Source: path, Target: l.Target, Type: l.Type}
	}
	return &NoteDetail{
		Path:     path,
		Title:    res.Title,
		Content:  string(data),
		Checksum: storage.Checksum(data),
		Links:    links,
	}, nil
}

// TitleForPath exposes the index's display-title lookup for report rendering.
func (s *Service) TitleForPath(path string) string {
	return s.db.TitleForPath(path)
}
