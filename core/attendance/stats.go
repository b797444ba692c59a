package attendance

import "math"

// AggregateStats summarises the attendance of one section.
type AggregateStats struct {
	Section    string `json:"section"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Late       int    `json:"late"`
	PresentPct int    `json:"presentPct"`
	AbsentPct  int    `json:"absentPct"`
	LatePct    int    `json:"latePct"`
}

// Aggregate counts the records of `section` by status. Nothing is cached: every call recomputes.
func Aggregate(records []StudentRecord, section string) AggregateStats {
	stats := AggregateStats{Section: section}
	for _, rec := range records {
		if rec.Section != section {
			continue
		}
		stats.Total++
		switch rec.Status {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusLate:
			stats.Late++
		}
	}
	stats.PresentPct = percent(stats.Present, stats.Total)
	stats.AbsentPct = percent(stats.Absent, stats.Total)
	stats.LatePct = percent(stats.Late, stats.Total)
	return stats
}

// percent rounds half away from zero; an empty section yields 0.
func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
