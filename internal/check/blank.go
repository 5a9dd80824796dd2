// Package check implements the link-integrity scan: typed validators, a
// per-scan verdict cache, path normalization, and report rendering.
package check

import (
	"errors"
	"os"
	"strings"
)

// DefaultHeaderPrefix marks leading header lines that do not count as
// note content for blankness purposes.
const DefaultHeaderPrefix = "#"

// BlankChecker classifies file content as conceptually blank: a leading
// run of header lines (lines starting with the configured prefix) followed
// by nothing but whitespace.
type BlankChecker struct {
	prefix string
}

// NewBlankChecker creates a classifier using the given header prefix.
// An empty prefix falls back to DefaultHeaderPrefix.
func NewBlankChecker(prefix string) *BlankChecker {
	if prefix == "" {
		prefix = DefaultHeaderPrefix
	}
	return &BlankChecker{prefix: prefix}
}

// IsBlank reports whether the file at path has no conceptual content.
// A missing file is blank. A file that exists but cannot be read returns
// an error; callers decide the verdict (the file validator treats it as
// invalid and logs it, so one bad file never aborts a scan).
func (b *BlankChecker) IsBlank(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return true, err
	}
	return b.isBlankContent(string(data)), nil
}

// isBlankContent skips the leading header run, then reports whether the
// remainder is empty or all-whitespace.
func (b *BlankChecker) isBlankContent(content string) bool {
	lines := strings.Split(content, "\n")
	i := 0
	for i < len(lines) && strings.HasPrefix(lines[i], b.prefix) {
		i++
	}
	rest := strings.Join(lines[i:], "\n")
	return strings.TrimSpace(rest) == ""
}
