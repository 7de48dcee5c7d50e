package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"tournament-tracker/internal/constants"
	"tournament-tracker/internal/domain"
)

// HistoryService archives finished tournaments. Standings inside a
// snapshot are frozen at save time; only name and date stay editable.
type HistoryService struct {
	store  HistoryStore
	logger zerolog.Logger
}

func NewHistoryService(store HistoryStore, logger zerolog.Logger) *HistoryService {
	return &HistoryService{
		store:  store,
		logger: logger,
	}
}

func (s *HistoryService) Save(ctx context.Context, name, date string, standings []domain.Standing) (*domain.TournamentSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Tournament"
	}
	if date == "" {
		date = time.Now().Format(constants.DefaultDateLayout)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot id: %w", err)
	}

	frozen := make([]domain.Standing, len(standings))
	copy(frozen, standings)

	snap := domain.TournamentSnapshot{
		ID:        id,
		Name:      name,
		Date:      date,
		Standings: frozen,
		CreatedAt: time.Now(),
	}
	if err := s.store.Insert(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save tournament to history: %w", err)
	}

	s.logger.Info().
		Str("snapshot_id", snap.ID).
		Str("name", snap.Name).
		Int("teams", len(snap.Standings)).
		Msg("tournament archived")
	return &snap, nil
}

// EditMetadata updates a snapshot's display name and date. Standings
// are immutable after Save.
func (s *HistoryService) EditMetadata(ctx context.Context, id, name, date string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTournamentName
	}

	ok, err := s.store.UpdateMeta(ctx, id, name, date)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSnapshotNotFound
	}
	return nil
}

func (s *HistoryService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if !ok {
		return ErrSnapshotNotFound
	}
	return nil
}

// List returns snapshots newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.TournamentSnapshot, error) {
	return s.store.List(ctx)
}
