package models

import "time"

// Read models served to the native client.

type MatchSnapshot struct {
	ID         uint      `json:"id"`
	Team1ID    uint      `json:"team1_id"`
	Team1Name  string    `json:"team1_name"`
	Team2ID    uint      `json:"team2_id"`
	Team2Name  string    `json:"team2_name"`
	ScoreTeam1 *int      `json:"score_team1"`
	ScoreTeam2 *int      `json:"score_team2"`
	Field      int       `json:"field"`
	StartTime  time.Time `json:"start_time"`
	Played     bool      `json:"played"`
}

// ResultSnapshot is a played match with its derived winner. WinnerID is nil
// for a draw.
type ResultSnapshot struct {
	MatchSnapshot
	WinnerID *uint `json:"winner_id"`
}

type StandingEntry struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

func NewMatchSnapshot(m Match) MatchSnapshot {
	return MatchSnapshot{
		ID:         m.ID,
		Team1ID:    m.Team1ID,
		Team1Name:  m.Team1.Name,
		Team2ID:    m.Team2ID,
		Team2Name:  m.Team2.Name,
		ScoreTeam1: m.ScoreTeam1,
		ScoreTeam2: m.ScoreTeam2,
		Field:      m.Field,
		StartTime:  m.StartTime,
		Played:     m.Played,
	}
}
