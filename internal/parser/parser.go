// Package parser extracts frontmatter, typed wikilinks, and titles from
// Markdown note content.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	schemeRe   = regexp.MustCompile(`^[a-z][a-z0-9+.-]*:`)
)

// TypeRoam is the type tag assigned to bare wikilinks that reference a
// note by title rather than by an explicit scheme.
const TypeRoam = "roam"

// TypeFile is the type tag for wikilinks that reference a file path.
const TypeFile = "file"

// Link is one typed link extracted from a note body. The target is kept
// exactly as authored (after stripping the scheme and any alias).
type Link struct {
	Target string
	Type   string
}

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Title       string
	Links       []Link
}

// Parse extracts frontmatter, body, title, and typed wikilinks from raw
// Markdown bytes.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		Links:       extractLinks(body),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	// Find end delimiter.
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter — treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	// Body starts after closing delimiter line.
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML — return body only, no error.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// extractLinks returns deduplicated typed wikilink targets.
//
// A payload with a scheme prefix is split into (type, rest), mirroring how
// org-style links carry their type inline: [[file:./a.md]] yields
// ("./a.md", "file") and [[https://example.com]] yields ("//example.com",
// "https"). A bare payload is a note-title reference of type "roam".
// Aliases ([[target|alias]]) are stripped before classification.
func extractLinks(body string) []Link {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[Link]struct{}, len(matches))
	var out []Link
	for _, m := range matches {
		raw := m[1]
		if i := strings.Index(raw, "|"); i >= 0 {
			raw = raw[:i]
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		l := Link{Target: raw, Type: TypeRoam}
		if loc := schemeRe.FindStringIndex(raw); loc != nil {
			l = Link{Target: raw[loc[1]:], Type: raw[:loc[1]-1]}
			if l.Target == "" {
				continue
			}
		}

		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
