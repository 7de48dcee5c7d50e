package service

import "errors"

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrTeamNotFound     = errors.New("team not found in match")
	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrInvalidMatchKind    = errors.New("match kind must be semifinal or final")
	ErrInvalidMatchNumber  = errors.New("match number must be positive")
	ErrEmptyTeamName       = errors.New("team name must not be empty")
	ErrDuplicateTeam       = errors.New("duplicate team name")
	ErrTeamNameTaken       = errors.New("team name already in use")
	ErrPositionTaken       = errors.New("position already taken by another team")
	ErrUnknownScoreField   = errors.New("score field must be kills or position")
	ErrNoTeams             = errors.New("no teams registered")
	ErrEmptyTournamentName = errors.New("tournament name must not be empty")
	ErrNoMatchesConfigured = errors.New("at least one semifinal or final must be configured")
)

var validationErrors = []error{
	ErrInvalidMatchKind,
	ErrInvalidMatchNumber,
	ErrEmptyTeamName,
	ErrDuplicateTeam,
	ErrTeamNameTaken,
	ErrPositionTaken,
	ErrUnknownScoreField,
	ErrNoTeams,
	ErrEmptyTournamentName,
	ErrNoMatchesConfigured,
}

// IsValidation reports whether err is a rejection of the caller's input
// rather than an internal failure. Validation errors never change state.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err means the referenced record is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrSnapshotNotFound)
}
