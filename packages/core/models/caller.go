package models

// Caller identifies who invokes a core operation. It is built by the
// authorization gate and passed explicitly into every service call.
type Caller struct {
	PlayerID uint
	IsAdmin  bool
}

// Owns reports whether the caller created the team.
func (c Caller) Owns(team *Team) bool {
	return team != nil && team.CreatorID == c.PlayerID
}

// CanDelete reports whether the caller may delete the team.
func (c Caller) CanDelete(team *Team) bool {
	return c.IsAdmin || c.Owns(team)
}
