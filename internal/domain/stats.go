package domain

import "time"

// UserStats is the profile snapshot returned by the user-info endpoint.
type UserStats struct {
	Handle    string `json:"handle"`
	Rating    int    `json:"rating"`
	Rank      string `json:"rank"`
	MaxRating int    `json:"maxRating"`
	MaxRank   string `json:"maxRank"`
}

// SolveStats summarizes the full accepted history, independent of the
// tracking window.
type SolveStats struct {
	TotalSolved   int            `json:"totalSolved"`
	AverageRating int            `json:"avgRating"`
	ByDifficulty  map[string]int `json:"byDifficulty"`
	UpdatedAt     time.Time      `json:"lastUpdated"`
}
