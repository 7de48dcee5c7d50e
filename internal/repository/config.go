package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"tournament-tracker/internal/domain"
)

type ConfigRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewConfigRepository(sqlDB *sql.DB, logger zerolog.Logger) *ConfigRepository {
	return &ConfigRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Get loads the active scoring config. The second return value is false
// when no config has been saved yet, or when the stored position table
// is unreadable; a corrupt row is treated as absent rather than fatal.
func (r *ConfigRepository) Get(ctx context.Context) (domain.ScoringConfig, bool, error) {
	var cfg domain.ScoringConfig
	var rawPoints string

	err := r.db.QueryRowContext(ctx, `
		SELECT tournament_id, game_name, kill_point_weight, position_points, max_position, updated_at
		FROM scoring_config
		WHERE id = 1`).
		Scan(&cfg.TournamentID, &cfg.GameName, &cfg.KillPointWeight, &rawPoints, &cfg.MaxPosition, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.ScoringConfig{}, false, nil
	}
	if err != nil {
		return domain.ScoringConfig{}, false, fmt.Errorf("failed to load scoring config: %w", err)
	}

	points, err := decodePositionPoints(rawPoints)
	if err != nil {
		r.logger.Warn().Err(err).Msg("stored position table unreadable, falling back to defaults")
		return domain.ScoringConfig{}, false, nil
	}
	cfg.PositionPoints = points

	return cfg, true, nil
}

func (r *ConfigRepository) Save(ctx context.Context, cfg domain.ScoringConfig) error {
	rawPoints, err := encodePositionPoints(cfg.PositionPoints)
	if err != nil {
		return fmt.Errorf("failed to encode position table: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scoring_config (id, tournament_id, game_name, kill_point_weight, position_points, max_position, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			tournament_id = excluded.tournament_id,
			game_name = excluded.game_name,
			kill_point_weight = excluded.kill_point_weight,
			position_points = excluded.position_points,
			max_position = excluded.max_position,
			updated_at = excluded.updated_at`,
		cfg.TournamentID, cfg.GameName, cfg.KillPointWeight, rawPoints, cfg.MaxPosition, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save scoring config: %w", err)
	}
	return nil
}

func encodePositionPoints(points map[int]int) (string, error) {
	encoded := make(map[string]int, len(points))
	for position, value := range points {
		encoded[strconv.Itoa(position)] = value
	}
	raw, err := json.Marshal(encoded)
	return string(raw), err
}

func decodePositionPoints(raw string) (map[int]int, error) {
	var encoded map[string]int
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil {
		return nil, err
	}
	points := make(map[int]int, len(encoded))
	for key, value := range encoded {
		position, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid position key %q: %w", key, err)
		}
		points[position] = value
	}
	return points, nil
}
