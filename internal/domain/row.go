package domain

import "time"

// ProblemRow is the fixed-width tuple appended to the solved-problems table.
// Seq continues the existing table's numbering; the editable fields stay blank
// so the user can fill them in by hand later.
type ProblemRow struct {
	Seq      int
	Date     time.Time
	Name     string
	URL      string
	Rating   string // numeric string, or "N/A" when the problem is unrated
	Tags     string // joined by ", "
	TimeMin  string // editable, written blank
	Attempts string // editable, written blank
	Approach string // editable, written blank
	Status   string
	Language string
	Notes    string // editable, written blank
}

// Commit is one repository commit pulled from the commit-history API.
type Commit struct {
	SHA        string
	Message    string
	AuthoredAt time.Time
}
