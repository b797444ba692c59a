package attendance

import (
	"strconv"
	"strings"
)

// SelectView returns the records of `section` that pass the status filter and the search term, in roster order.
// The search term matches a case-insensitive substring of the name, or a substring of the decimal id.
// An empty result is a valid view.
func SelectView(records []StudentRecord, section string, filter StatusFilter, search string) []StudentRecord {
	term := strings.ToLower(search)
	view := make([]StudentRecord, 0, len(records))
	for _, rec := range records {
		if rec.Section != section {
			continue
		}
		if filter != FilterAll && filter != "" && Status(filter) != rec.Status {
			continue
		}
		if term != "" && !matchesSearch(rec, term) {
			continue
		}
		view = append(view, rec)
	}
	return view
}

// Select applies SelectView with the given view state.
func (vs ViewState) Select(records []StudentRecord) []StudentRecord {
	return SelectView(records, vs.Section, vs.Status, vs.Search)
}

func matchesSearch(rec StudentRecord, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(rec.Name), lowerTerm) ||
		strings.Contains(strconv.Itoa(rec.ID), lowerTerm)
}

// Sections lists the distinct sections of `records`, in order of first appearance.
func Sections(records []StudentRecord) []string {
	seen := make(map[string]struct{})
	sections := make([]string, 0)
	for _, rec := range records {
		if _, ok := seen[rec.Section]; ok {
			continue
		}
		seen[rec.Section] = struct{}{}
		sections = append(sections, rec.Section)
	}
	return sections
}
