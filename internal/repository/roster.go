package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

type RosterRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRosterRepository(sqlDB *sql.DB, logger zerolog.Logger) *RosterRepository {
	return &RosterRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// List returns team names in registration order.
func (r *RosterRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM team_roster ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
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

func (r *RosterRepository) Add(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO team_roster (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("failed to add team %q to roster: %w", name, err)
	}
	return nil
}

// Replace swaps the whole roster for the given list, keeping its order.
func (r *RosterRepository) Replace(ctx context.Context, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_roster`); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO team_roster (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to insert team %q: %w", name, err)
		}
	}

	return tx.Commit()
}

func (r *RosterRepository) Rename(ctx context.Context, oldName, newName string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE team_roster SET name = ? WHERE name = ?`,
		newName, oldName)
	if err != nil {
		return fmt.Errorf("failed to rename roster team %q: %w", oldName, err)
	}
	return nil
}
