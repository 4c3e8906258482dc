package models

type Stats struct {
	TotalTeams    int64 `json:"total_teams"`
	TotalPlayers  int64 `json:"total_players"`
	TotalMatches  int64 `json:"total_matches"`
	PlayedMatches int64 `json:"played_matches"`
}
