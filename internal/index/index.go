package index

import "github.com/starford/raido/internal/models"

// NoteIndex defines the interface for note indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type NoteIndex interface {
	UpsertNote(n NoteRow, links []models.Link) error
	DeleteNote(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	AllLinks() ([]models.Link, error)
	ResolveTitle(title string) (string, bool)
	FileForTitle(title string) (string, bool)
	TitleForPath(path string) string
	Close() error
}

// Verify *DB satisfies NoteIndex at compile time.
var _ NoteIndex = (*DB)(nil)
