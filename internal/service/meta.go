package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tournament-tracker/internal/domain"
)

// MetaService holds the tournament's display metadata and planned match
// counts.
type MetaService struct {
	store  MetaStore
	logger zerolog.Logger
}

func NewMetaService(store MetaStore, logger zerolog.Logger) *MetaService {
	return &MetaService{
		store:  store,
		logger: logger,
	}
}

// Get returns the saved metadata, or the stock single-final setup when
// none has been saved yet.
func (s *MetaService) Get(ctx context.Context) (domain.TournamentMeta, error) {
	meta, ok, err := s.store.Get(ctx)
	if err != nil {
		return domain.TournamentMeta{}, err
	}
	if !ok {
		return domain.TournamentMeta{FinalCount: 1}, nil
	}
	return meta, nil
}

// Set validates and saves the tournament metadata. At least one
// semifinal or final must be planned.
func (s *MetaService) Set(ctx context.Context, meta domain.TournamentMeta) (domain.TournamentMeta, error) {
	meta.Name = strings.TrimSpace(meta.Name)
	if meta.Name == "" {
		return domain.TournamentMeta{}, ErrEmptyTournamentName
	}
	if meta.SemifinalCount < 0 {
		meta.SemifinalCount = 0
	}
	if meta.FinalCount < 0 {
		meta.FinalCount = 0
	}
	if meta.SemifinalCount == 0 && meta.FinalCount == 0 {
		return domain.TournamentMeta{}, ErrNoMatchesConfigured
	}

	meta.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, meta); err != nil {
		return domain.TournamentMeta{}, err
	}

	s.logger.Info().
		Str("name", meta.Name).
		Int("semifinals", meta.SemifinalCount).
		Int("finals", meta.FinalCount).
		Msg("tournament meta saved")
	return meta, nil
}
