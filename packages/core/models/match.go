package models

import (
	"time"
)

// Match is one scheduled fixture. Scores stay nil until a result is recorded;
// Played is true exactly when both scores are set.
type Match struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Team1ID    uint      `gorm:"not null;index" json:"team1_id"`
	Team2ID    uint      `gorm:"not null;index" json:"team2_id"`
	ScoreTeam1 *int      `json:"score_team1"`
	ScoreTeam2 *int      `json:"score_team2"`
	Field      int       `gorm:"not null;default:1" json:"field"`
	StartTime  time.Time `gorm:"not null;index" json:"start_time"`
	Played     bool      `gorm:"not null;default:false" json:"played"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Team1 Team `gorm:"foreignKey:Team1ID;references:ID" json:"team1,omitempty"`
	Team2 Team `gorm:"foreignKey:Team2ID;references:ID" json:"team2,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// Involves reports whether the team plays in this match.
func (m Match) Involves(teamID uint) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// ScheduleParams drives one schedule generation. It is not persisted.
type ScheduleParams struct {
	FieldCount           int
	MatchDurationMinutes int
	BreakMinutes         int
	StartTime            time.Time
}

// GenerateScheduleRequest only checks presence. Bounds are enforced by the
// match service so they surface as invalid_parameter.
type GenerateScheduleRequest struct {
	Fields        *int      `json:"fields" binding:"required" minimum:"1" maximum:"10"`
	MatchDuration *int      `json:"match_duration" binding:"required" minimum:"5" maximum:"120"`
	BreakBetween  *int      `json:"break_between" binding:"required" minimum:"0" maximum:"60"`
	StartTime     time.Time `json:"start_time" binding:"required"`
}

func (r GenerateScheduleRequest) Params() ScheduleParams {
	params := ScheduleParams{StartTime: r.StartTime}
	if r.Fields != nil {
		params.FieldCount = *r.Fields
	}
	if r.MatchDuration != nil {
		params.MatchDurationMinutes = *r.MatchDuration
	}
	if r.BreakBetween != nil {
		params.BreakMinutes = *r.BreakBetween
	}
	return params
}

type UpdateScoreRequest struct {
	ScoreTeam1 *int `json:"score_team1" binding:"required" minimum:"0"`
	ScoreTeam2 *int `json:"score_team2" binding:"required" minimum:"0"`
}

type GenerateScheduleResponse struct {
	Message string  `json:"message"`
	Total   int     `json:"total"`
	Data    []Match `json:"data"`
}
