package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"tournament-tracker/internal/domain"
)

type MetaRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMetaRepository(sqlDB *sql.DB, logger zerolog.Logger) *MetaRepository {
	return &MetaRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *MetaRepository) Get(ctx context.Context) (domain.TournamentMeta, bool, error) {
	var meta domain.TournamentMeta
	err := r.db.QueryRowContext(ctx, `
		SELECT name, semifinal_count, final_count, updated_at
		FROM tournament_meta
		WHERE id = 1`).
		Scan(&meta.Name, &meta.SemifinalCount, &meta.FinalCount, &meta.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.TournamentMeta{}, false, nil
	}
	if err != nil {
		return domain.TournamentMeta{}, false, fmt.Errorf("failed to load tournament meta: %w", err)
	}
	return meta, true, nil
}

func (r *MetaRepository) Save(ctx context.Context, meta domain.TournamentMeta) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tournament_meta (id, name, semifinal_count, final_count, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			semifinal_count = excluded.semifinal_count,
			final_count = excluded.final_count,
			updated_at = excluded.updated_at`,
		meta.Name, meta.SemifinalCount, meta.FinalCount, meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save tournament meta: %w", err)
	}
	return nil
}
