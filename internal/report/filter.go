package report

import "strings"

// Filter narrows rows to those where any of the given text fields contains
// text, case-insensitively. An empty search term returns the input slice
// unchanged, same backing array. The input is never mutated.
func Filter(rows []Row, text string, fields []string) []Row {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return rows
	}
	matched := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(row.Text(field)), needle) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

// FilterExact narrows rows to those whose field equals value exactly. This
// is the pick-from-suggestions path, distinct from the typeahead substring
// path above.
func FilterExact(rows []Row, field, value string) []Row {
	matched := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Text(field) == value {
			matched = append(matched, row)
		}
	}
	return matched
}
