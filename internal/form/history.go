package form

// DefaultHistoryCap bounds the recent-predictions list.
const DefaultHistoryCap = 3

// HistoryEntry is an immutable snapshot of one successful submission: the
// raw inputs as submitted, the returned calorie estimate, and a display
// timestamp.
type HistoryEntry struct {
	Age       string
	Duration  string
	HeartRate string
	BodyTemp  string
	Calories  float64
	When      string
}

// pushHistory prepends e and truncates to limit. It always allocates a new
// slice so previously returned history values stay valid.
func pushHistory(entries []HistoryEntry, e HistoryEntry, limit int) []HistoryEntry {
	out := make([]HistoryEntry, 0, limit)
	out = append(out, e)
	for _, old := range entries {
		if len(out) == limit {
			break
		}
		out = append(out, old)
	}
	return out
}
