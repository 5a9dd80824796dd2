package check

import (
	"log/slog"
	"path/filepath"

	"github.com/starford/raido/internal/parser"
)

// Validator judges whether a raw link target of one type is a valid
// destination. Implementations must not mutate shared state.
type Validator interface {
	Validate(target string) bool
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(target string) bool

// Validate calls f(target).
func (f ValidatorFunc) Validate(target string) bool { return f(target) }

// Registry maps a link type tag to its validator. Types absent from the
// registry are assumed valid: the scanner has no means to judge unknown
// schemes. Callers override checking behaviour by supplying a full
// replacement mapping to the scanner.
type Registry map[string]Validator

// IsValid dispatches target to the validator registered for typ.
func (r Registry) IsValid(target, typ string) bool {
	v, ok := r[typ]
	if !ok {
		return true
	}
	return v.Validate(target)
}

// clone returns a shallow copy so an in-flight scan never observes a mix
// of old and new validators when the caller swaps registries.
func (r Registry) clone() Registry {
	out := make(Registry, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NoteResolver is the note-index lookup the roam validator depends on.
type NoteResolver interface {
	// FileForTitle returns the vault-relative path of the note with the
	// given title, and whether the title resolves at all.
	FileForTitle(title string) (string, bool)
}

// DefaultRegistry builds the built-in validators for "file" and "roam"
// links. File targets that are not absolute are resolved against baseDir
// (the vault root); roam targets are resolved as note titles via idx, with
// the backing file also located under baseDir. Both types additionally
// require the destination file to be non-blank.
func DefaultRegistry(idx NoteResolver, baseDir string, blank *BlankChecker, logger *slog.Logger) Registry {
	if blank == nil {
		blank = NewBlankChecker("")
	}
	return Registry{
		parser.TypeFile: &fileValidator{base: baseDir, blank: blank, logger: logger},
		parser.TypeRoam: &roamValidator{idx: idx, base: baseDir, blank: blank, logger: logger},
	}
}

// fileValidator checks that a file target exists and carries content.
type fileValidator struct {
	base   string
	blank  *BlankChecker
	logger *slog.Logger
}

func (v *fileValidator) Validate(target string) bool {
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.base, path)
	}
	blank, err := v.blank.IsBlank(path)
	if err != nil {
		// Unreadable-but-existing file: broken as far as a reader is
		// concerned, but never fatal to the scan.
		v.logger.Warn("check: unreadable file target",
			slog.String("target", target),
			slog.String("error", err.Error()))
		return false
	}
	return !blank
}

// roamValidator checks that a note title resolves and its backing file
// carries content.
type roamValidator struct {
	idx    NoteResolver
	base   string
	blank  *BlankChecker
	logger *slog.Logger
}

func (v *roamValidator) Validate(target string) bool {
	rel, ok := v.idx.FileForTitle(target)
	if !ok {
		return false
	}
	blank, err := v.blank.IsBlank(filepath.Join(v.base, rel))
	if err != nil {
		v.logger.Warn("check: unreadable note for title",
			slog.String("title", target),
			slog.String("path", rel),
			slog.String("error", err.Error()))
		return false
	}
	return !blank
}
