package fx

import (
	"tournament-tracker/internal/config"
	"tournament-tracker/internal/database"
	"tournament-tracker/internal/logger"
	"tournament-tracker/internal/repository"
	"tournament-tracker/internal/server"
	"tournament-tracker/internal/service"

	"go.uber.org/fx"
)

// Services depend on their store ports, not on *repository types, so
// the concrete repositories are rebound here.
func provideConfigStore(r *repository.ConfigRepository) service.ConfigStore    { return r }
func provideMatchStore(r *repository.MatchRepository) service.MatchStore       { return r }
func provideRosterStore(r *repository.RosterRepository) service.RosterStore    { return r }
func provideHistoryStore(r *repository.HistoryRepository) service.HistoryStore { return r }
func provideMetaStore(r *repository.MetaRepository) service.MetaStore          { return r }

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewConfigRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewRosterRepository),
	fx.Provide(repository.NewHistoryRepository),
	fx.Provide(repository.NewMetaRepository),
	// ports
	fx.Provide(provideConfigStore),
	fx.Provide(provideMatchStore),
	fx.Provide(provideRosterStore),
	fx.Provide(provideHistoryStore),
	fx.Provide(provideMetaStore),
	// svc
	fx.Provide(service.NewLedgerService),
	fx.Provide(service.NewConfigService),
	fx.Provide(service.NewHistoryService),
	fx.Provide(service.NewMetaService),
	// server
	fx.Provide(server.NewScoreboardServer),
)
