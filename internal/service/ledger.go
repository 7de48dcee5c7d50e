package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"tournament-tracker/internal/config"
	"tournament-tracker/internal/constants"
	"tournament-tracker/internal/domain"
	"tournament-tracker/internal/scoring"
)

// LedgerService owns the matches of the tournament in progress. It is
// the only writer of derived points: every score edit and every config
// change routes back through the scoring rule before anything is
// persisted.
type LedgerService struct {
	matches       MatchStore
	roster        RosterStore
	configs       ConfigStore
	reseedOnEmpty bool
	logger        zerolog.Logger
}

func NewLedgerService(matches MatchStore, roster RosterStore, configs ConfigStore, cfg *config.Config, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		matches:       matches,
		roster:        roster,
		configs:       configs,
		reseedOnEmpty: cfg.ReseedOnEmpty,
		logger:        logger,
	}
}

// AddMatch creates a match with one zeroed entry per team. When
// teamNames is empty the current roster is used.
func (s *LedgerService) AddMatch(ctx context.Context, kind domain.MatchKind, number int, teamNames []string) (*domain.Match, error) {
	if kind != domain.MatchKindSemifinal && kind != domain.MatchKindFinal {
		return nil, ErrInvalidMatchKind
	}
	if number < 1 {
		return nil, ErrInvalidMatchNumber
	}

	if len(teamNames) == 0 {
		rosterNames, err := s.roster.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load roster: %w", err)
		}
		teamNames = rosterNames
	}
	if len(teamNames) == 0 {
		return nil, ErrNoTeams
	}

	seen := make(map[string]bool, len(teamNames))
	entries := make([]domain.TeamEntry, 0, len(teamNames))
	for _, name := range teamNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrEmptyTeamName
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, name)
		}
		seen[name] = true
		entries = append(entries, domain.TeamEntry{TeamName: name})
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate match id: %w", err)
	}

	now := time.Now()
	m := &domain.Match{
		ID:        id,
		Kind:      kind,
		Number:    number,
		Teams:     entries,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.matches.Insert(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("match_id", m.ID).
		Str("kind", string(kind)).
		Int("number", number).
		Int("teams", len(entries)).
		Msg("match added")
	return m, nil
}

// Matches returns the ledger with every entry's points recomputed
// against the current config. Stale persisted points are rewritten
// rather than trusted.
func (s *LedgerService) Matches(ctx context.Context) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	matches, err := s.matches.List(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := activeConfig(ctx, s.configs)
	if err != nil {
		return nil, err
	}

	var stale []domain.EntryPoints
	for i := range matches {
		for j := range matches[i].Teams {
			e := &matches[i].Teams[j]
			expected := scoring.Points(e.Kills, e.Position, cfg)
			if e.Points != expected {
				e.Points = expected
				stale = append(stale, domain.EntryPoints{
					MatchID:  matches[i].ID,
					TeamName: e.TeamName,
					Points:   expected,
				})
			}
		}
	}
	if len(stale) > 0 {
		s.logger.Warn().Int("entries", len(stale)).Msg("stale points found on load, recomputing")
		if err := s.matches.UpdatePoints(ctx, stale); err != nil {
			return nil, err
		}
	}

	return matches, nil
}

// UpdateScore sets one team's kills or position in one match and
// recomputes that entry's points. Kills clamp to >= 0; positions clamp
// to [0, MaxPosition] and may not collide with another team's nonzero
// position in the same match.
func (s *LedgerService) UpdateScore(ctx context.Context, matchID, teamName, field string, value int) (*domain.TeamEntry, error) {
	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}

	idx := -1
	for i := range m.Teams {
		if m.Teams[i].TeamName == teamName {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrTeamNotFound
	}

	cfg, err := activeConfig(ctx, s.configs)
	if err != nil {
		return nil, err
	}

	entry := m.Teams[idx]
	switch field {
	case "kills":
		if value < 0 {
			value = 0
		}
		entry.Kills = value
	case "position":
		if value < 0 {
			value = 0
		}
		if value > cfg.MaxPosition {
			value = cfg.MaxPosition
		}
		if value != 0 {
			for i := range m.Teams {
				if i != idx && m.Teams[i].Position == value {
					return nil, fmt.Errorf("%w: position %d", ErrPositionTaken, value)
				}
			}
		}
		entry.Position = value
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScoreField, field)
	}

	entry.Points = scoring.Points(entry.Kills, entry.Position, cfg)
	if err := s.matches.UpdateEntry(ctx, matchID, teamName, entry); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("match_id", matchID).
		Str("team", teamName).
		Str("field", field).
		Int("value", value).
		Int("points", entry.Points).
		Msg("score updated")
	return &entry, nil
}

func (s *LedgerService) RenameMatch(ctx context.Context, matchID string, kind domain.MatchKind, number int) error {
	if kind != domain.MatchKindSemifinal && kind != domain.MatchKindFinal {
		return ErrInvalidMatchKind
	}
	if number < 1 {
		return ErrInvalidMatchNumber
	}

	ok, err := s.matches.UpdateMeta(ctx, matchID, kind, number)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMatchNotFound
	}
	return nil
}

// RenameTeam substitutes a team name in every match and in the roster.
// A team identity is its name, so the substitution is global.
func (s *LedgerService) RenameTeam(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyTeamName
	}
	if newName == oldName {
		return nil
	}

	taken, err := s.teamNameExists(ctx, newName)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrTeamNameTaken, newName)
	}

	if err := s.matches.RenameTeam(ctx, oldName, newName); err != nil {
		return err
	}
	if err := s.roster.Rename(ctx, oldName, newName); err != nil {
		return err
	}

	s.logger.Info().Str("old", oldName).Str("new", newName).Msg("team renamed")
	return nil
}

// DeleteMatch removes a match. When the last match goes and the
// reseed-on-empty policy is enabled, one default match is seeded from
// the roster so views never face an empty ledger.
func (s *LedgerService) DeleteMatch(ctx context.Context, matchID string) error {
	ok, err := s.matches.Delete(ctx, matchID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMatchNotFound
	}

	if !s.reseedOnEmpty {
		return nil
	}

	count, err := s.matches.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rosterNames, err := s.roster.List(ctx)
	if err != nil {
		return err
	}
	if len(rosterNames) == 0 {
		return nil
	}

	if _, err := s.AddMatch(ctx, constants.DefaultMatchKind, constants.DefaultMatchNumber, rosterNames); err != nil {
		return fmt.Errorf("failed to reseed emptied ledger: %w", err)
	}
	s.logger.Info().Msg("ledger emptied, default match reseeded from roster")
	return nil
}

// RecomputeAll rewrites every entry's points from its raw inputs and
// the given config. ConfigService calls this after every config change.
func (s *LedgerService) RecomputeAll(ctx context.Context, cfg domain.ScoringConfig) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	matches, err := s.matches.List(ctx)
	if err != nil {
		return err
	}

	var updates []domain.EntryPoints
	for _, m := range matches {
		for _, e := range m.Teams {
			updates = append(updates, domain.EntryPoints{
				MatchID:  m.ID,
				TeamName: e.TeamName,
				Points:   scoring.Points(e.Kills, e.Position, cfg),
			})
		}
	}
	if err := s.matches.UpdatePoints(ctx, updates); err != nil {
		return err
	}

	s.logger.Info().Int("entries", len(updates)).Msg("points recomputed for all matches")
	return nil
}

// Roster returns the registered team names in order.
func (s *LedgerService) Roster(ctx context.Context) ([]string, error) {
	return s.roster.List(ctx)
}

// ReplaceRoster swaps the roster for the given names.
func (s *LedgerService) ReplaceRoster(ctx context.Context, names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrEmptyTeamName
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, name)
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}

	if err := s.roster.Replace(ctx, cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// AddTeam registers one more team on the roster.
func (s *LedgerService) AddTeam(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTeamName
	}

	taken, err := s.teamNameExists(ctx, name)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrTeamNameTaken, name)
	}

	return s.roster.Add(ctx, name)
}

func (s *LedgerService) teamNameExists(ctx context.Context, name string) (bool, error) {
	rosterNames, err := s.roster.List(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range rosterNames {
		if n == name {
			return true, nil
		}
	}

	matchNames, err := s.matches.TeamNames(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range matchNames {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}
