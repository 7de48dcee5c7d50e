package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"tournament-tracker/internal/domain"
)

type HistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *HistoryRepository) Insert(ctx context.Context, snap domain.TournamentSnapshot) error {
	rawStandings, err := json.Marshal(snap.Standings)
	if err != nil {
		return fmt.Errorf("failed to encode standings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tournament_history (id, name, date, standings, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.Date, string(rawStandings), snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// List returns snapshots newest first. A snapshot whose stored standings
// are unreadable is returned with empty standings rather than failing
// the whole listing.
func (r *HistoryRepository) List(ctx context.Context) ([]domain.TournamentSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, date, standings, created_at
		FROM tournament_history
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament history: %w", err)
	}
	defer rows.Close()

	var snaps []domain.TournamentSnapshot
	for rows.Next() {
		var snap domain.TournamentSnapshot
		var rawStandings string
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Date, &rawStandings, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(rawStandings), &snap.Standings); err != nil {
			r.logger.Warn().Err(err).Str("snapshot_id", snap.ID).Msg("stored standings unreadable")
			snap.Standings = nil
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (r *HistoryRepository) UpdateMeta(ctx context.Context, id, name, date string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tournament_history SET name = ?, date = ? WHERE id = ?`,
		name, date, id)
	if err != nil {
		return false, fmt.Errorf("failed to update snapshot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *HistoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tournament_history WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
