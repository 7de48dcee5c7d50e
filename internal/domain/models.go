package domain

import (
	"time"
)

type MatchKind string

const (
	MatchKindSemifinal MatchKind = "semifinal"
	MatchKindFinal     MatchKind = "final"
)

// ScoringConfig is the active scoring rule for the tournament in
// progress. PositionPoints maps a finishing position (1-based) to its
// bonus; positions absent from the map are worth 0.
type ScoringConfig struct {
	TournamentID    string
	GameName        string
	KillPointWeight int
	PositionPoints  map[int]int
	MaxPosition     int
	UpdatedAt       time.Time
}

// DefaultScoringConfig is the stock battle-royale placement table used
// until an organizer saves their own rules.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		KillPointWeight: 1,
		PositionPoints: map[int]int{
			1: 15, 2: 12, 3: 10, 4: 8, 5: 6,
			6: 4, 7: 2, 8: 1, 9: 1, 10: 1,
		},
		MaxPosition: 10,
	}
}

// TeamEntry is one team's result in one match. Kills and Position are 0
// until the organizer enters them. Points is derived from
// (Kills, Position, ScoringConfig); the ledger is its only writer.
type TeamEntry struct {
	TeamName string
	Kills    int
	Position int
	Points   int
}

type Match struct {
	ID        string
	Kind      MatchKind
	Number    int
	Teams     []TeamEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryPoints carries one recomputed points value during a ledger-wide
// recompute.
type EntryPoints struct {
	MatchID  string
	TeamName string
	Points   int
}

// Standing is a team's totals across every match it appears in. It is
// recomputed from the full match set on every read, never stored.
type Standing struct {
	TeamName      string
	TotalKills    int
	TotalPoints   int
	MatchesPlayed int
	AveragePoints float64
}

// TournamentMeta describes the tournament being scored. A count of 0
// means that match kind is skipped.
type TournamentMeta struct {
	Name           string
	SemifinalCount int
	FinalCount     int
	UpdatedAt      time.Time
}

// TournamentSnapshot is an archived record of a finished tournament.
// Name and Date stay editable; Standings never change after Save.
type TournamentSnapshot struct {
	ID        string
	Name      string
	Date      string
	Standings []Standing
	CreatedAt time.Time
}
