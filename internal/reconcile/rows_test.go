package reconcile

import (
	"testing"

	"TrackerSync/internal/domain"
)

func TestRowsContinueSequence(t *testing.T) {
	t.Parallel()

	delta := []domain.Submission{
		accepted(1, "A", day(3)),
		accepted(2, "B", day(2)),
	}

	rows := Rows(delta, 7)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Seq != 8 || rows[1].Seq != 9 {
		t.Fatalf("expected seq 8,9 got %d,%d", rows[0].Seq, rows[1].Seq)
	}
	if rows[0].URL != "https://codeforces.com/problemset/problem/1/A" {
		t.Fatalf("unexpected url %s", rows[0].URL)
	}
	if rows[0].Status != StatusSolved {
		t.Fatalf("unexpected status %q", rows[0].Status)
	}
}

func TestRowsMissingRatingBecomesSentinel(t *testing.T) {
	t.Parallel()

	sub := accepted(9, "C", day(1))
	sub.Rating = domain.RatingUnknown
	sub.Tags = []string{"dp", "greedy"}

	rows := Rows([]domain.Submission{sub}, 0)
	if rows[0].Rating != RatingMissing {
		t.Fatalf("expected %q, got %q", RatingMissing, rows[0].Rating)
	}
	if rows[0].Tags != "dp, greedy" {
		t.Fatalf("unexpected tags %q", rows[0].Tags)
	}
}

func TestRowsZeroRatingIsKept(t *testing.T) {
	t.Parallel()

	sub := accepted(9, "C", day(1))
	sub.Rating = 0

	rows := Rows([]domain.Submission{sub}, 0)
	if rows[0].Rating != "0" {
		t.Fatalf("expected \"0\", got %q", rows[0].Rating)
	}
}

func TestRowsEditableFieldsStayBlank(t *testing.T) {
	t.Parallel()

	rows := Rows([]domain.Submission{accepted(1, "A", day(1))}, 0)
	row := rows[0]
	if row.TimeMin != "" || row.Attempts != "" || row.Approach != "" || row.Notes != "" {
		t.Fatalf("editable fields must start blank: %+v", row)
	}
	if row.Date.IsZero() {
		t.Fatal("date must be set")
	}
}

func TestStartRow(t *testing.T) {
	t.Parallel()

	if got := StartRow(0); got != 10 {
		t.Fatalf("empty table should start at 10, got %d", got)
	}
	if got := StartRow(5); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
}
