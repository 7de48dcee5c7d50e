// Package standings rolls per-match results into ranked tournament
// standings and into the ranked row sets handed to the exporter. It
// owns no state: every call aggregates the match list it is given.
package standings

import (
	"math"
	"sort"

	"tournament-tracker/internal/domain"
	"tournament-tracker/internal/scoring"
)

// Aggregate produces one standing per team name appearing in any match.
// A team's matches-played count goes up once per match it appears in,
// scored or not. Output is ordered by total points descending, ties
// broken by total kills descending, then by team name so equal totals
// still rank deterministically.
func Aggregate(matches []domain.Match) []domain.Standing {
	totals := make(map[string]*domain.Standing)
	var names []string

	for _, m := range matches {
		for _, e := range m.Teams {
			s, ok := totals[e.TeamName]
			if !ok {
				s = &domain.Standing{TeamName: e.TeamName}
				totals[e.TeamName] = s
				names = append(names, e.TeamName)
			}
			s.TotalKills += e.Kills
			s.TotalPoints += e.Points
			s.MatchesPlayed++
		}
	}

	out := make([]domain.Standing, 0, len(names))
	for _, name := range names {
		s := totals[name]
		s.AveragePoints = round2(float64(s.TotalPoints) / float64(s.MatchesPlayed))
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		if out[i].TotalKills != out[j].TotalKills {
			return out[i].TotalKills > out[j].TotalKills
		}
		return out[i].TeamName < out[j].TeamName
	})

	return out
}

// MatchRow is one ranked line of a single match's result table,
// including the kill/position point breakdown shown on exports.
type MatchRow struct {
	Rank           int
	TeamName       string
	Kills          int
	Position       int
	KillPoints     int
	PositionPoints int
	Points         int
}

// MatchRows ranks one match's entries with the same ordering rule used
// for overall standings.
func MatchRows(m domain.Match, cfg domain.ScoringConfig) []MatchRow {
	rows := make([]MatchRow, 0, len(m.Teams))
	for _, e := range m.Teams {
		rows = append(rows, MatchRow{
			TeamName:       e.TeamName,
			Kills:          e.Kills,
			Position:       e.Position,
			KillPoints:     scoring.Points(e.Kills, 0, cfg),
			PositionPoints: scoring.Points(0, e.Position, cfg),
			Points:         e.Points,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Kills != rows[j].Kills {
			return rows[i].Kills > rows[j].Kills
		}
		return rows[i].TeamName < rows[j].TeamName
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
