package service

import (
	"context"

	"tournament-tracker/internal/domain"
)

// In-memory stores backing the service tests. Each one takes an
// optional err to force the failure paths.

type fakeConfigStore struct {
	cfg   domain.ScoringConfig
	saved bool
	err   error
}

func (f *fakeConfigStore) Get(ctx context.Context) (domain.ScoringConfig, bool, error) {
	if f.err != nil {
		return domain.ScoringConfig{}, false, f.err
	}
	return f.cfg, f.saved, nil
}

func (f *fakeConfigStore) Save(ctx context.Context, cfg domain.ScoringConfig) error {
	if f.err != nil {
		return f.err
	}
	f.cfg = cfg
	f.saved = true
	return nil
}

type fakeMatchStore struct {
	matches       []domain.Match
	pointsWritten []domain.EntryPoints
	err           error
}

func copyMatch(m domain.Match) domain.Match {
	teams := make([]domain.TeamEntry, len(m.Teams))
	copy(teams, m.Teams)
	m.Teams = teams
	return m
}

func (f *fakeMatchStore) List(ctx context.Context) ([]domain.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Match, len(f.matches))
	for i, m := range f.matches {
		out[i] = copyMatch(m)
	}
	return out, nil
}

func (f *fakeMatchStore) Get(ctx context.Context, id string) (*domain.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.matches {
		if f.matches[i].ID == id {
			m := copyMatch(f.matches[i])
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMatchStore) Insert(ctx context.Context, m *domain.Match) error {
	if f.err != nil {
		return f.err
	}
	f.matches = append(f.matches, copyMatch(*m))
	return nil
}

func (f *fakeMatchStore) UpdateMeta(ctx context.Context, id string, kind domain.MatchKind, number int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.matches {
		if f.matches[i].ID == id {
			f.matches[i].Kind = kind
			f.matches[i].Number = number
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMatchStore) UpdateEntry(ctx context.Context, matchID, teamName string, e domain.TeamEntry) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.matches {
		if f.matches[i].ID != matchID {
			continue
		}
		for j := range f.matches[i].Teams {
			if f.matches[i].Teams[j].TeamName == teamName {
				f.matches[i].Teams[j] = e
			}
		}
	}
	return nil
}

func (f *fakeMatchStore) UpdatePoints(ctx context.Context, updates []domain.EntryPoints) error {
	if f.err != nil {
		return f.err
	}
	f.pointsWritten = append(f.pointsWritten, updates...)
	for _, u := range updates {
		for i := range f.matches {
			if f.matches[i].ID != u.MatchID {
				continue
			}
			for j := range f.matches[i].Teams {
				if f.matches[i].Teams[j].TeamName == u.TeamName {
					f.matches[i].Teams[j].Points = u.Points
				}
			}
		}
	}
	return nil
}

func (f *fakeMatchStore) RenameTeam(ctx context.Context, oldName, newName string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.matches {
		for j := range f.matches[i].Teams {
			if f.matches[i].Teams[j].TeamName == oldName {
				f.matches[i].Teams[j].TeamName = newName
			}
		}
	}
	return nil
}

func (f *fakeMatchStore) Delete(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.matches {
		if f.matches[i].ID == id {
			f.matches = append(f.matches[:i], f.matches[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMatchStore) Count(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.matches), nil
}

func (f *fakeMatchStore) TeamNames(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[string]bool)
	var names []string
	for _, m := range f.matches {
		for _, e := range m.Teams {
			if !seen[e.TeamName] {
				seen[e.TeamName] = true
				names = append(names, e.TeamName)
			}
		}
	}
	return names, nil
}

type fakeRosterStore struct {
	names []string
	err   error
}

func (f *fakeRosterStore) List(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out, nil
}

func (f *fakeRosterStore) Add(ctx context.Context, name string) error {
	if f.err != nil {
		return f.err
	}
	f.names = append(f.names, name)
	return nil
}

func (f *fakeRosterStore) Replace(ctx context.Context, names []string) error {
	if f.err != nil {
		return f.err
	}
	f.names = make([]string, len(names))
	copy(f.names, names)
	return nil
}

func (f *fakeRosterStore) Rename(ctx context.Context, oldName, newName string) error {
	if f.err != nil {
		return f.err
	}
	for i, n := range f.names {
		if n == oldName {
			f.names[i] = newName
		}
	}
	return nil
}

type fakeHistoryStore struct {
	snaps []domain.TournamentSnapshot
	err   error
}

func (f *fakeHistoryStore) Insert(ctx context.Context, snap domain.TournamentSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.snaps = append(f.snaps, snap)
	return nil
}

// List returns newest first, like the SQL store.
func (f *fakeHistoryStore) List(ctx context.Context) ([]domain.TournamentSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.TournamentSnapshot, len(f.snaps))
	for i, snap := range f.snaps {
		out[len(f.snaps)-1-i] = snap
	}
	return out, nil
}

func (f *fakeHistoryStore) UpdateMeta(ctx context.Context, id, name, date string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.snaps {
		if f.snaps[i].ID == id {
			f.snaps[i].Name = name
			f.snaps[i].Date = date
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeHistoryStore) Delete(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.snaps {
		if f.snaps[i].ID == id {
			f.snaps = append(f.snaps[:i], f.snaps[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeMetaStore struct {
	meta  domain.TournamentMeta
	saved bool
	err   error
}

func (f *fakeMetaStore) Get(ctx context.Context) (domain.TournamentMeta, bool, error) {
	if f.err != nil {
		return domain.TournamentMeta{}, false, f.err
	}
	return f.meta, f.saved, nil
}

func (f *fakeMetaStore) Save(ctx context.Context, meta domain.TournamentMeta) error {
	if f.err != nil {
		return f.err
	}
	f.meta = meta
	f.saved = true
	return nil
}
