package parser

import (
	"fmt"
	"strings"
)

// columnNames turns a header row into unique column names.
// Blank headers become "Unnamed: <index>" and repeats get ".1", ".2", ...
func columnNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)

	for i, cell := range header {
		base := cell
		if strings.TrimSpace(base) == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		names[i] = name
	}

	return names
}

// isBlankRow reports whether every cell is empty or whitespace.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
