package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tournament-tracker/internal/config"
	"tournament-tracker/internal/domain"
)

func newTestLedger(matches *fakeMatchStore, roster *fakeRosterStore, configs *fakeConfigStore, reseed bool) *LedgerService {
	return NewLedgerService(matches, roster, configs, &config.Config{ReseedOnEmpty: reseed}, zerolog.Nop())
}

func TestAddMatchSeedsFromRoster(t *testing.T) {
	matches := &fakeMatchStore{}
	roster := &fakeRosterStore{names: []string{"Alpha", "Bravo", "Charlie"}}
	svc := newTestLedger(matches, roster, &fakeConfigStore{}, false)

	m, err := svc.AddMatch(context.Background(), domain.MatchKindSemifinal, 2, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, domain.MatchKindSemifinal, m.Kind)
	assert.Equal(t, 2, m.Number)
	require.Len(t, m.Teams, 3)
	for i, name := range []string{"Alpha", "Bravo", "Charlie"} {
		assert.Equal(t, name, m.Teams[i].TeamName)
		assert.Zero(t, m.Teams[i].Kills)
		assert.Zero(t, m.Teams[i].Position)
		assert.Zero(t, m.Teams[i].Points)
	}
	assert.Len(t, matches.matches, 1)
}

func TestAddMatchValidation(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.MatchKind
		number  int
		teams   []string
		wantErr error
	}{
		{"unknown kind", "group-stage", 1, []string{"Alpha"}, ErrInvalidMatchKind},
		{"zero number", domain.MatchKindFinal, 0, []string{"Alpha"}, ErrInvalidMatchNumber},
		{"blank team", domain.MatchKindFinal, 1, []string{"Alpha", "  "}, ErrEmptyTeamName},
		{"duplicate team", domain.MatchKindFinal, 1, []string{"Alpha", "Alpha"}, ErrDuplicateTeam},
		{"empty roster fallback", domain.MatchKindFinal, 1, nil, ErrNoTeams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestLedger(&fakeMatchStore{}, &fakeRosterStore{}, &fakeConfigStore{}, false)
			_, err := svc.AddMatch(context.Background(), tt.kind, tt.number, tt.teams)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddMatchTrimsNames(t *testing.T) {
	svc := newTestLedger(&fakeMatchStore{}, &fakeRosterStore{}, &fakeConfigStore{}, false)

	m, err := svc.AddMatch(context.Background(), domain.MatchKindFinal, 1, []string{" Alpha ", "Bravo"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", m.Teams[0].TeamName)
}

func TestUpdateScoreComputesPoints(t *testing.T) {
	matches := &fakeMatchStore{}
	svc := newTestLedger(matches, &fakeRosterStore{}, &fakeConfigStore{}, false)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, []string{"Alpha", "Bravo"})
	require.NoError(t, err)

	entry, err := svc.UpdateScore(ctx, m.ID, "Alpha", "kills", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, entry.Kills)
	assert.Equal(t, 10, entry.Points)

	// 10 kills at weight 1 plus the 15-point bonus for first place.
	entry, err = svc.UpdateScore(ctx, m.ID, "Alpha", "position", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)
	assert.Equal(t, 25, entry.Points)

	stored, err := matches.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.Teams[0].Points)
}

func TestUpdateScoreClamps(t *testing.T) {
	svc := newTestLedger(&fakeMatchStore{}, &fakeRosterStore{}, &fakeConfigStore{}, false)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, []string{"Alpha"})
	require.NoError(t, err)

	entry, err := svc.UpdateScore(ctx, m.ID, "Alpha", "kills", -7)
	require.NoError(t, err)
	assert.Zero(t, entry.Kills)

	// Positions past the table clamp to the last configured one.
	entry, err = svc.UpdateScore(ctx, m.ID, "Alpha", "position", 99)
	require.NoError(t, err)
	assert.Equal(t, 10, entry.Position)
	assert.Equal(t, 1, entry.Points)
}

func TestUpdateScoreRejectsTakenPosition(t *testing.T) {
	svc := newTestLedger(&fakeMatchStore{}, &fakeRosterStore{}, &fakeConfigStore{}, false)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, []string{"Alpha", "Bravo"})
	require.NoError(t, err)

	_, err = svc.UpdateScore(ctx, m.ID, "Alpha", "position", 1)
	require.NoError(t, err)

	_, err = svc.UpdateScore(ctx, m.ID, "Bravo", "position", 1)
	assert.ErrorIs(t, err, ErrPositionTaken)

	// Clearing back to unplaced is always allowed, even for several teams.
	_, err = svc.UpdateScore(ctx, m.ID, "Alpha", "position", 0)
	require.NoError(t, err)
	_, err = svc.UpdateScore(ctx, m.ID, "Bravo", "position", 0)
	require.NoError(t, err)
}

func TestUpdateScoreErrors(t *testing.T) {
	svc := newTestLedger(&fakeMatchStore{}, &fakeRosterStore{}, &fakeConfigStore{}, false)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, []string{"Alpha"})
	require.NoError(t, err)

	_, err = svc.UpdateScore(ctx, "missing", "Alpha", "kills", 1)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = svc.UpdateScore(ctx, m.ID, "Zulu", "kills", 1)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = svc.UpdateScore(ctx, m.ID, "Alpha", "assists", 1)
	assert.ErrorIs(t, err, ErrUnknownScoreField)
}

func TestMatchesRepairsStalePoints(t *testing.T) {
	matches := &fakeMatchStore{}
	svc := newTestLedger(matches, &fakeRosterStore{}, &fakeConfigStore{}, false)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, []string{"Alpha"})
	require.NoError(t, err)
	_, err = svc.UpdateScore(ctx, m.ID, "Alpha", "kills", 5)
	require.NoError(t, err)

	// Corrupt the stored points behind the service's back.
	matches.matches[0].Teams[0].Points = 999

	listed, err := svc.Matches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, listed[0].Teams[0].Points)
	assert.Equal(t, 5, matches.matches[0].Teams[0].Points)
	require.Len(t, matches.pointsWritten, 1)
	assert.Equal(t, "Alpha", matches.pointsWritten[0].TeamName)
}

func TestRenameMatch(t *testing.T) {
	matches := &fakeMatchStore{}
	svc := newTestLedger(matches, &fakeRosterStore{}, &fakeConfigStore{}, false)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindSemifinal, 1, []string{"Alpha"})
	require.NoError(t, err)

	require.NoError(t, svc.RenameMatch(ctx, m.ID, domain.MatchKindFinal, 3))
	assert.Equal(t, domain.MatchKindFinal, matches.matches[0].Kind)
	assert.Equal(t, 3, matches.matches[0].Number)

	assert.ErrorIs(t, svc.RenameMatch(ctx, "missing", domain.MatchKindFinal, 1), ErrMatchNotFound)
	assert.ErrorIs(t, svc.RenameMatch(ctx, m.ID, "showmatch", 1), ErrInvalidMatchKind)
}

func TestRenameTeamPropagates(t *testing.T) {
	matches := &fakeMatchStore{}
	roster := &fakeRosterStore{names: []string{"Alpha", "Bravo"}}
	svc := newTestLedger(matches, roster, &fakeConfigStore{}, false)
	ctx := context.Background()

	_, err := svc.AddMatch(ctx, domain.MatchKindSemifinal, 1, nil)
	require.NoError(t, err)
	_, err = svc.AddMatch(ctx, domain.MatchKindFinal, 1, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RenameTeam(ctx, "Alpha", "Apex"))

	assert.Equal(t, []string{"Apex", "Bravo"}, roster.names)
	for _, m := range matches.matches {
		assert.Equal(t, "Apex", m.Teams[0].TeamName)
	}
}

func TestRenameTeamValidation(t *testing.T) {
	roster := &fakeRosterStore{names: []string{"Alpha", "Bravo"}}
	svc := newTestLedger(&fakeMatchStore{}, roster, &fakeConfigStore{}, false)
	ctx := context.Background()

	assert.ErrorIs(t, svc.RenameTeam(ctx, "Alpha", "  "), ErrEmptyTeamName)
	assert.ErrorIs(t, svc.RenameTeam(ctx, "Alpha", "Bravo"), ErrTeamNameTaken)

	// Renaming to the current name is a no-op, not a collision.
	require.NoError(t, svc.RenameTeam(ctx, "Alpha", "Alpha"))
}

func TestDeleteMatchReseedsEmptiedLedger(t *testing.T) {
	matches := &fakeMatchStore{}
	roster := &fakeRosterStore{names: []string{"Alpha", "Bravo"}}
	svc := newTestLedger(matches, roster, &fakeConfigStore{}, true)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindSemifinal, 2, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(ctx, m.ID))

	require.Len(t, matches.matches, 1)
	reseeded := matches.matches[0]
	assert.NotEqual(t, m.ID, reseeded.ID)
	assert.Equal(t, domain.MatchKindFinal, reseeded.Kind)
	assert.Equal(t, 1, reseeded.Number)
	assert.Len(t, reseeded.Teams, 2)
}

func TestDeleteMatchNoReseedWhenDisabled(t *testing.T) {
	matches := &fakeMatchStore{}
	roster := &fakeRosterStore{names: []string{"Alpha"}}
	svc := newTestLedger(matches, roster, &fakeConfigStore{}, false)
	ctx := context.Background()

	m, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(ctx, m.ID))
	assert.Empty(t, matches.matches)
}

func TestDeleteMatchNoReseedWhileOthersRemain(t *testing.T) {
	matches := &fakeMatchStore{}
	roster := &fakeRosterStore{names: []string{"Alpha"}}
	svc := newTestLedger(matches, roster, &fakeConfigStore{}, true)
	ctx := context.Background()

	first, err := svc.AddMatch(ctx, domain.MatchKindSemifinal, 1, nil)
	require.NoError(t, err)
	second, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(ctx, first.ID))
	require.Len(t, matches.matches, 1)
	assert.Equal(t, second.ID, matches.matches[0].ID)
}

func TestDeleteMatchNotFound(t *testing.T) {
	svc := newTestLedger(&fakeMatchStore{}, &fakeRosterStore{}, &fakeConfigStore{}, true)
	assert.ErrorIs(t, svc.DeleteMatch(context.Background(), "missing"), ErrMatchNotFound)
}

func TestReplaceRoster(t *testing.T) {
	roster := &fakeRosterStore{names: []string{"Old"}}
	svc := newTestLedger(&fakeMatchStore{}, roster, &fakeConfigStore{}, false)
	ctx := context.Background()

	teams, err := svc.ReplaceRoster(ctx, []string{" Alpha ", "Bravo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo"}, teams)
	assert.Equal(t, []string{"Alpha", "Bravo"}, roster.names)

	_, err = svc.ReplaceRoster(ctx, []string{"Alpha", "Alpha"})
	assert.ErrorIs(t, err, ErrDuplicateTeam)
}

func TestAddTeam(t *testing.T) {
	roster := &fakeRosterStore{names: []string{"Alpha"}}
	svc := newTestLedger(&fakeMatchStore{}, roster, &fakeConfigStore{}, false)
	ctx := context.Background()

	require.NoError(t, svc.AddTeam(ctx, " Bravo "))
	assert.Equal(t, []string{"Alpha", "Bravo"}, roster.names)

	assert.ErrorIs(t, svc.AddTeam(ctx, "Alpha"), ErrTeamNameTaken)
	assert.ErrorIs(t, svc.AddTeam(ctx, ""), ErrEmptyTeamName)
}

func TestAddTeamRejectsNameFromMatches(t *testing.T) {
	matches := &fakeMatchStore{}
	roster := &fakeRosterStore{}
	svc := newTestLedger(matches, roster, &fakeConfigStore{}, false)
	ctx := context.Background()

	_, err := svc.AddMatch(ctx, domain.MatchKindFinal, 1, []string{"Ghost"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AddTeam(ctx, "Ghost"), ErrTeamNameTaken)
}
