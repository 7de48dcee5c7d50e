// Package scoring holds the pure rule that turns one team's raw match
// result into points.
package scoring

import (
	"tournament-tracker/internal/domain"
)

// Points computes kills*weight plus the configured bonus for the
// finishing position. A position of 0 (not yet entered) or one missing
// from the table contributes nothing. Negative inputs count as 0, so
// the result is never negative.
func Points(kills, position int, cfg domain.ScoringConfig) int {
	if kills < 0 {
		kills = 0
	}

	points := kills * cfg.KillPointWeight
	if position > 0 {
		points += cfg.PositionPoints[position]
	}
	return points
}
