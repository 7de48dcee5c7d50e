package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tournament-tracker/internal/domain"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// List returns every match with its team entries, oldest match first.
func (r *MatchRepository) List(ctx context.Context) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, number, created_at, updated_at
		FROM matches
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	index := make(map[string]int)
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.Kind, &m.Number, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		index[m.ID] = len(matches)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := r.db.QueryContext(ctx, `
		SELECT match_id, team_name, kills, position, points
		FROM match_entries
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list match entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var matchID string
		var e domain.TeamEntry
		if err := entryRows.Scan(&matchID, &e.TeamName, &e.Kills, &e.Position, &e.Points); err != nil {
			return nil, fmt.Errorf("failed to scan match entry: %w", err)
		}
		if i, ok := index[matchID]; ok {
			matches[i].Teams = append(matches[i].Teams, e)
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// Get returns one match with its entries, or nil when no match has the
// given id.
func (r *MatchRepository) Get(ctx context.Context, id string) (*domain.Match, error) {
	var m domain.Match
	err := r.db.QueryRowContext(ctx, `
		SELECT id, kind, number, created_at, updated_at
		FROM matches
		WHERE id = ?`, id).
		Scan(&m.ID, &m.Kind, &m.Number, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT team_name, kills, position, points
		FROM match_entries
		WHERE match_id = ?
		ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for match %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.TeamEntry
		if err := rows.Scan(&e.TeamName, &e.Kills, &e.Position, &e.Points); err != nil {
			return nil, fmt.Errorf("failed to scan match entry: %w", err)
		}
		m.Teams = append(m.Teams, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *MatchRepository) Insert(ctx context.Context, m *domain.Match) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, kind, number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Kind, m.Number, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
	}

	for _, e := range m.Teams {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_entries (match_id, team_name, kills, position, points)
			VALUES (?, ?, ?, ?, ?)`,
			m.ID, e.TeamName, e.Kills, e.Position, e.Points)
		if err != nil {
			return fmt.Errorf("failed to insert entry %s/%s: %w", m.ID, e.TeamName, err)
		}
	}

	return tx.Commit()
}

func (r *MatchRepository) UpdateMeta(ctx context.Context, id string, kind domain.MatchKind, number int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE matches SET kind = ?, number = ?, updated_at = ?
		WHERE id = ?`,
		kind, number, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to rename match %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MatchRepository) UpdateEntry(ctx context.Context, matchID, teamName string, e domain.TeamEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE match_entries SET kills = ?, position = ?, points = ?
		WHERE match_id = ? AND team_name = ?`,
		e.Kills, e.Position, e.Points, matchID, teamName)
	if err != nil {
		return fmt.Errorf("failed to update entry %s/%s: %w", matchID, teamName, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE matches SET updated_at = ? WHERE id = ?`,
		time.Now(), matchID)
	if err != nil {
		return fmt.Errorf("failed to touch match %s: %w", matchID, err)
	}

	return tx.Commit()
}

// UpdatePoints rewrites derived points values in one transaction.
func (r *MatchRepository) UpdatePoints(ctx context.Context, updates []domain.EntryPoints) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		_, err := tx.ExecContext(ctx, `
			UPDATE match_entries SET points = ?
			WHERE match_id = ? AND team_name = ?`,
			u.Points, u.MatchID, u.TeamName)
		if err != nil {
			return fmt.Errorf("failed to update points for %s/%s: %w", u.MatchID, u.TeamName, err)
		}
	}

	r.logger.Debug().Int("entries", len(updates)).Msg("recomputed points persisted")
	return tx.Commit()
}

// RenameTeam substitutes a team name across every match entry.
func (r *MatchRepository) RenameTeam(ctx context.Context, oldName, newName string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE match_entries SET team_name = ? WHERE team_name = ?`,
		newName, oldName)
	if err != nil {
		return fmt.Errorf("failed to rename team %q: %w", oldName, err)
	}
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

// TeamNames returns every distinct team name across all match entries.
func (r *MatchRepository) TeamNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT team_name FROM match_entries ORDER BY team_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list team names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
