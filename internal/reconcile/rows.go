package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"TrackerSync/internal/domain"
)

const (
	// HeaderRows is the fixed header block of the solved-problems table;
	// data rows start right below it.
	HeaderRows = 9

	// StatusSolved marks a row as an accepted solve.
	StatusSolved = "✅"

	// RatingMissing is rendered for problems without a difficulty rating.
	RatingMissing = "N/A"

	problemURLFormat = "https://codeforces.com/problemset/problem/%d/%s"
)

// StartRow is where the next append lands: directly under the header for an
// empty table, otherwise right after the last data row.
func StartRow(existingCount int) int {
	return HeaderRows + existingCount + 1
}

// Rows projects the delta into table rows, continuing the existing table's
// sequence numbering. The adapter writing these never renumbers them.
func Rows(delta []domain.Submission, existingCount int) []domain.ProblemRow {
	rows := make([]domain.ProblemRow, 0, len(delta))
	for i, sub := range delta {
		rating := RatingMissing
		if sub.Rating != domain.RatingUnknown {
			rating = strconv.Itoa(sub.Rating)
		}
		rows = append(rows, domain.ProblemRow{
			Seq:      existingCount + i + 1,
			Date:     sub.CreatedAt,
			Name:     sub.Name,
			URL:      fmt.Sprintf(problemURLFormat, sub.Key.ContestID, sub.Key.Index),
			Rating:   rating,
			Tags:     strings.Join(sub.Tags, ", "),
			Status:   StatusSolved,
			Language: sub.Language,
		})
	}
	return rows
}
