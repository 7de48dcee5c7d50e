// Package export turns the engine's ranked row sets into a spreadsheet:
// one sheet per match plus an overall standings sheet.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tournament-tracker/internal/domain"
	"tournament-tracker/internal/standings"
)

const overallSheetName = "Overall Standings"

var matchHeader = []interface{}{
	"Rank", "Team", "Kills", "Position", "Kill Points", "Position Points", "Total Points",
}

var overallHeader = []interface{}{
	"Rank", "Team Name", "Total Kills", "Total Points", "Matches Played", "Average Points",
}

// Workbook builds the tournament results spreadsheet. Matches and
// overall standings are expected to come straight from the ledger and
// the aggregation of it, so the rows here are already consistent with
// the current scoring rule.
func Workbook(matches []domain.Match, overall []domain.Standing, cfg domain.ScoringConfig) (*excelize.File, error) {
	f := excelize.NewFile()

	used := make(map[string]bool)
	first := true
	for _, m := range matches {
		sheet := sheetName(m, used)
		if err := addSheet(f, sheet, first); err != nil {
			return nil, err
		}
		first = false

		if err := f.SetSheetRow(sheet, "A1", &matchHeader); err != nil {
			return nil, err
		}
		for i, row := range standings.MatchRows(m, cfg) {
			position := interface{}(row.Position)
			if row.Position == 0 {
				position = "-"
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, err
			}
			values := []interface{}{
				row.Rank, row.TeamName, row.Kills, position,
				row.KillPoints, row.PositionPoints, row.Points,
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, err
			}
		}
	}

	if err := addSheet(f, overallSheetName, first); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(overallSheetName, "A1", &overallHeader); err != nil {
		return nil, err
	}
	for i, s := range overall {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			i + 1, s.TeamName, s.TotalKills, s.TotalPoints, s.MatchesPlayed, s.AveragePoints,
		}
		if err := f.SetSheetRow(overallSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// addSheet reuses the workbook's default sheet for the first sheet and
// creates the rest.
func addSheet(f *excelize.File, name string, first bool) error {
	if first {
		return f.SetSheetName(f.GetSheetName(0), name)
	}
	_, err := f.NewSheet(name)
	return err
}

// sheetName labels a match sheet, suffixing duplicates so two matches
// with the same kind and number both keep a sheet.
func sheetName(m domain.Match, used map[string]bool) string {
	kind := "Final"
	if m.Kind == domain.MatchKindSemifinal {
		kind = "Semi Final"
	}

	name := fmt.Sprintf("%s %d", kind, m.Number)
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s %d (%d)", kind, m.Number, i)
	}
	used[name] = true
	return name
}
