package services

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientTeams = errors.New("at least two teams are required to generate a schedule")
	ErrInvalidParameter  = errors.New("invalid schedule parameter")
	ErrInvalidScore      = errors.New("scores must be non-negative integers")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("insufficient permissions")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrInvalidTeam       = errors.New("invalid team")

	ErrMatchNotFound  = fmt.Errorf("match %w", ErrNotFound)
	ErrTeamNotFound   = fmt.Errorf("team %w", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)

	ErrPlayerInOtherTeam = fmt.Errorf("%w: player already belongs to another team", ErrInvalidTeam)
	ErrPlayerNotInTeam   = fmt.Errorf("%w: player is not a member of this team", ErrInvalidTeam)
)

var domainErrors = []error{
	ErrInsufficientTeams,
	ErrInvalidParameter,
	ErrInvalidScore,
	ErrNotFound,
	ErrUnauthorized,
	ErrInvalidTeam,
	ErrTransactionFailed,
}

// txError keeps domain errors raised inside a transaction intact and marks
// everything else as a failed transaction.
func txError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
}
