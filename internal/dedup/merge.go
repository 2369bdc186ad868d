package dedup

import "go-jobradar/internal/models"

// MergeStats describes what Merge dropped.
type MergeStats struct {
	Input      int
	InvalidIDs int
	Duplicates int
	Output     int

	// HistoryKept and FreshKept split Output by origin.
	HistoryKept int
	FreshKept   int
}

// Merge concatenates history then fresh rows, drops rows without a usable
// identifier, keeps the first row per key and projects every survivor onto
// schema. History therefore wins any collision.
func Merge(history, fresh []models.Row, schema []string) ([]models.Row, MergeStats) {
	stats := MergeStats{Input: len(history) + len(fresh)}

	seen := NewIndex()
	out := make([]models.Row, 0, stats.Input)
	for i, batch := range [][]models.Row{history, fresh} {
		for _, row := range batch {
			if !row.ValidID() {
				stats.InvalidIDs++
				continue
			}
			if !seen.Add(row.Key()) {
				stats.Duplicates++
				continue
			}
			out = append(out, row.Project(schema))
			if i == 0 {
				stats.HistoryKept++
			} else {
				stats.FreshKept++
			}
		}
	}

	stats.Output = len(out)
	return out, stats
}
