package utils

const (
	WinPoints  = 3
	DrawPoints = 1
	LossPoints = 0
)

// AwardPoints applies the 3/1/0 rule to a final score and returns the points
// earned by each side.
func AwardPoints(scoreTeam1, scoreTeam2 int) (int, int) {
	switch {
	case scoreTeam1 > scoreTeam2:
		return WinPoints, LossPoints
	case scoreTeam1 < scoreTeam2:
		return LossPoints, WinPoints
	default:
		return DrawPoints, DrawPoints
	}
}

// WinnerID returns the id of the side with the higher score, or nil on a draw.
func WinnerID(team1ID, team2ID uint, scoreTeam1, scoreTeam2 int) *uint {
	switch {
	case scoreTeam1 > scoreTeam2:
		return &team1ID
	case scoreTeam1 < scoreTeam2:
		return &team2ID
	default:
		return nil
	}
}
