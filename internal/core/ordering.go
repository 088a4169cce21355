package core

import "sort"

// Fallbacks for entries missing a stamp, so they sink to the bottom of the
// list instead of breaking the sort.
const (
	fallbackDate = "2000-01-01"
	fallbackTime = "00:00"
)

// SortNewestFirst orders entries in place, newest first by combined
// date+time. Both stamps are zero-padded, so lexicographic comparison is
// chronological. Ties on an identical stamp break on descending id to keep
// the order stable across snapshots.
func SortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := sortKey(entries[i]), sortKey(entries[j])
		if a != b {
			return a > b
		}
		return entries[i].ID > entries[j].ID
	})
}

func sortKey(e Entry) string {
	d, t := e.Date, e.Time
	if d == "" {
		d = fallbackDate
	}
	if t == "" {
		t = fallbackTime
	}
	return d + "T" + t
}
