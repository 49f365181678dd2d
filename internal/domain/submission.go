package domain

import (
	"fmt"
	"time"
)

// VerdictAccepted is the provider's verdict string for an accepted submission.
const VerdictAccepted = "OK"

// RatingUnknown marks submissions whose problem carries no difficulty rating.
// A rating of 0 is a real (if unusual) value and is kept as-is.
const RatingUnknown = -1

// ProblemKey identifies a problem across repeated attempts. Two submissions
// with the same key are attempts at the same problem.
type ProblemKey struct {
	ContestID int
	Index     string
}

func (k ProblemKey) String() string {
	return fmt.Sprintf("%d-%s", k.ContestID, k.Index)
}

// Submission is one judged attempt fetched from the provider. Submissions are
// transient: fetched fresh each run and never persisted as-is.
type Submission struct {
	Key       ProblemKey
	Verdict   string
	CreatedAt time.Time
	Rating    int // RatingUnknown when the problem has no rating
	Tags      []string
	Language  string
	Name      string
}

// Accepted reports whether the judge accepted the submission.
func (s Submission) Accepted() bool {
	return s.Verdict == VerdictAccepted
}

// Window is the half-open tracking interval [Start, Start+Days·24h). Only
// submissions inside it count toward ingestion.
type Window struct {
	Start time.Time
	Days  int
}

// End returns the exclusive upper bound of the window.
func (w Window) End() time.Time {
	return w.Start.Add(time.Duration(w.Days) * 24 * time.Hour)
}

// Contains reports whether t falls inside the window. The start is inclusive,
// the end exclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End())
}
