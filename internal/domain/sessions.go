package domain

import "sort"

// SessionSummary is one listing row as emitted by the backend. The backend
// may emit several rows per session id, one per stored turn.
type SessionSummary struct {
	SessionID  string     `json:"sessionId"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Ts         int64      `json:"ts"`
}

// LatestSummaries collapses raw listing rows to a single row per session id,
// keeping the row with the maximum ts, ordered newest first.
func LatestSummaries(rows []SessionSummary) []SessionSummary {
	latest := make(map[string]SessionSummary, len(rows))
	for _, row := range rows {
		if current, ok := latest[row.SessionID]; !ok || row.Ts > current.Ts {
			latest[row.SessionID] = row
		}
	}

	collapsed := make([]SessionSummary, 0, len(latest))
	for _, row := range latest {
		collapsed = append(collapsed, row)
	}
	sort.Slice(collapsed, func(i, j int) bool {
		return collapsed[i].Ts > collapsed[j].Ts
	})

	return collapsed
}
