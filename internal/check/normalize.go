package check

import (
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/parser"
)

// NormalizeTarget rewrites a dot-prefixed file target to a path resolved
// against the source note's directory, so reported targets stay navigable
// outside the note they were authored in. Non-file types and file targets
// without a relative marker pass through unchanged.
//
// Validation always runs against the raw target; the normalized form is
// only ever used in the reported record.
func NormalizeTarget(source, target, typ string) string {
	if typ != parser.TypeFile || !strings.HasPrefix(target, ".") {
		return target
	}
	return filepath.Join(filepath.Dir(source), target)
}
