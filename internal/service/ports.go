package service

import (
	"context"

	"tournament-tracker/internal/domain"
)

// Persistence ports. The concrete implementations live in
// internal/repository; only the services talk to them.

type ConfigStore interface {
	Get(ctx context.Context) (domain.ScoringConfig, bool, error)
	Save(ctx context.Context, cfg domain.ScoringConfig) error
}

type MatchStore interface {
	List(ctx context.Context) ([]domain.Match, error)
	Get(ctx context.Context, id string) (*domain.Match, error)
	Insert(ctx context.Context, m *domain.Match) error
	UpdateMeta(ctx context.Context, id string, kind domain.MatchKind, number int) (bool, error)
	UpdateEntry(ctx context.Context, matchID, teamName string, e domain.TeamEntry) error
	UpdatePoints(ctx context.Context, updates []domain.EntryPoints) error
	RenameTeam(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	TeamNames(ctx context.Context) ([]string, error)
}

type RosterStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Replace(ctx context.Context, names []string) error
	Rename(ctx context.Context, oldName, newName string) error
}

type HistoryStore interface {
	Insert(ctx context.Context, snap domain.TournamentSnapshot) error
	List(ctx context.Context) ([]domain.TournamentSnapshot, error)
	UpdateMeta(ctx context.Context, id, name, date string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MetaStore interface {
	Get(ctx context.Context) (domain.TournamentMeta, bool, error)
	Save(ctx context.Context, meta domain.TournamentMeta) error
}
