package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tournament-tracker/internal/domain"
)

// ConfigService owns the active scoring rule. Every successful write
// invalidates cached points in the ledger by triggering a full
// recompute, so standings can never read totals produced under a
// previous rule.
type ConfigService struct {
	store  ConfigStore
	ledger *LedgerService
	logger zerolog.Logger
}

func NewConfigService(store ConfigStore, ledger *LedgerService, logger zerolog.Logger) *ConfigService {
	return &ConfigService{
		store:  store,
		ledger: ledger,
		logger: logger,
	}
}

func (s *ConfigService) Get(ctx context.Context) (domain.ScoringConfig, error) {
	return activeConfig(ctx, s.store)
}

// Set sanitizes and saves a new scoring rule. Negative weights and
// bonuses are floored to 0 rather than rejected, mirroring a
// best-effort data-entry policy.
func (s *ConfigService) Set(ctx context.Context, cfg domain.ScoringConfig) (domain.ScoringConfig, error) {
	if cfg.KillPointWeight < 0 {
		cfg.KillPointWeight = 0
	}

	points := make(map[int]int, len(cfg.PositionPoints))
	maxPosition := cfg.MaxPosition
	for position, value := range cfg.PositionPoints {
		if position < 1 {
			continue
		}
		if value < 0 {
			value = 0
		}
		points[position] = value
		if position > maxPosition {
			maxPosition = position
		}
	}
	if maxPosition < 1 {
		maxPosition = 1
	}
	cfg.PositionPoints = points
	cfg.MaxPosition = maxPosition
	cfg.UpdatedAt = time.Now()

	if err := s.save(ctx, cfg); err != nil {
		return domain.ScoringConfig{}, err
	}

	s.logger.Info().
		Int("kill_point_weight", cfg.KillPointWeight).
		Int("max_position", cfg.MaxPosition).
		Msg("scoring config saved")
	return cfg, nil
}

// AddPosition extends the table by one position worth 0 points.
func (s *ConfigService) AddPosition(ctx context.Context) (domain.ScoringConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return domain.ScoringConfig{}, err
	}

	cfg.MaxPosition++
	cfg.PositionPoints[cfg.MaxPosition] = 0
	cfg.UpdatedAt = time.Now()

	if err := s.save(ctx, cfg); err != nil {
		return domain.ScoringConfig{}, err
	}
	return cfg, nil
}

// RemovePosition drops the highest position. There is always at least
// one position: removing at MaxPosition == 1 is a no-op.
func (s *ConfigService) RemovePosition(ctx context.Context) (domain.ScoringConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return domain.ScoringConfig{}, err
	}
	if cfg.MaxPosition <= 1 {
		return cfg, nil
	}

	delete(cfg.PositionPoints, cfg.MaxPosition)
	cfg.MaxPosition--
	cfg.UpdatedAt = time.Now()

	if err := s.save(ctx, cfg); err != nil {
		return domain.ScoringConfig{}, err
	}
	return cfg, nil
}

func (s *ConfigService) save(ctx context.Context, cfg domain.ScoringConfig) error {
	if err := s.store.Save(ctx, cfg); err != nil {
		return err
	}
	return s.ledger.RecomputeAll(ctx, cfg)
}

// activeConfig loads the saved scoring rule, falling back to the stock
// table when none has been saved yet or the stored one is unreadable.
func activeConfig(ctx context.Context, store ConfigStore) (domain.ScoringConfig, error) {
	cfg, ok, err := store.Get(ctx)
	if err != nil {
		return domain.ScoringConfig{}, err
	}
	if !ok {
		return domain.DefaultScoringConfig(), nil
	}
	return cfg, nil
}
