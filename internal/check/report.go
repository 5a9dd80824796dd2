package check

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// TitleLookup maps a source-note key to its display title. It is only
// used for report headers, never for validity decisions.
type TitleLookup interface {
	TitleForPath(path string) string
}

// WriteReport renders the broken-link report: records grouped by source
// note (sorted case-insensitively by source key, preserving input order
// within a group), a header line per note, one "type:target" line per
// broken link, and a blank separator line between notes. Zero records
// produce an empty report.
func WriteReport(w io.Writer, records []BrokenLink, titles TitleLookup) error {
	bySource := make(map[string][]BrokenLink)
	var order []string
	for _, r := range records {
		if _, ok := bySource[r.Source]; !ok {
			order = append(order, r.Source)
		}
		bySource[r.Source] = append(bySource[r.Source], r)
	}
	sort.Slice(order, func(i, j int) bool {
		return strings.ToLower(order[i]) < strings.ToLower(order[j])
	})

	for i, source := range order {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		header := source
		if titles != nil {
			if t := titles.TitleForPath(source); t != "" && t != source {
				header = fmt.Sprintf("%s (%s)", t, source)
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
			return err
		}
		for _, r := range bySource[source] {
			if _, err := fmt.Fprintf(w, "  %s:%s\n", r.Type, r.Target); err != nil {
				return err
			}
		}
	}
	return nil
}
