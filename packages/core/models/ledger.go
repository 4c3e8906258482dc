package models

import "time"

type TeamDrift struct {
	TeamID   uint   `json:"team_id"`
	Name     string `json:"name"`
	Stored   int    `json:"stored_points"`
	Expected int    `json:"expected_points"`
}

type LedgerReport struct {
	CheckedAt     time.Time   `json:"checked_at"`
	TeamsChecked  int         `json:"teams_checked"`
	PlayedMatches int         `json:"played_matches"`
	Drifts        []TeamDrift `json:"drifts"`
	Reconciled    bool        `json:"reconciled"`
}

func (r *LedgerReport) Consistent() bool {
	return len(r.Drifts) == 0
}
