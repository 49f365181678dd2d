package stats

import (
	"fmt"
	"math"
	"time"

	"TrackerSync/internal/domain"
)

// BucketNames are the fixed difficulty buckets, 100-point ranges from 800
// with an open-ended top. Problems rated below 800 (or unrated) land in no
// bucket, matching the dashboard layout.
var BucketNames = []string{
	"800-899", "900-999", "1000-1099", "1100-1199",
	"1200-1299", "1300-1399", "1400-1499", "1500+",
}

// Aggregate summarizes the full accepted history: unlike ingestion it ignores
// the tracking window and works over every accepted submission ever fetched.
// The same earliest-per-problem canonicalization applies so repeated solves
// of one problem count once.
//
// AverageRating covers only problems that carry a rating: an absent rating
// drops the record from numerator and denominator both, while an explicit 0
// still counts.
func Aggregate(subs []domain.Submission, now time.Time) domain.SolveStats {
	byKey := make(map[domain.ProblemKey]domain.Submission)
	for _, sub := range subs {
		if !sub.Accepted() {
			continue
		}
		current, seen := byKey[sub.Key]
		if !seen || sub.CreatedAt.Before(current.CreatedAt) {
			byKey[sub.Key] = sub
		}
	}

	counts := make(map[string]int, len(BucketNames))
	for _, name := range BucketNames {
		counts[name] = 0
	}

	var ratingSum, rated int
	for _, sub := range byKey {
		if sub.Rating != domain.RatingUnknown {
			ratingSum += sub.Rating
			rated++
		}
		if name := bucketFor(sub.Rating); name != "" {
			counts[name]++
		}
	}

	average := 0
	if rated > 0 {
		average = int(math.Round(float64(ratingSum) / float64(rated)))
	}

	return domain.SolveStats{
		TotalSolved:   len(byKey),
		AverageRating: average,
		ByDifficulty:  counts,
		UpdatedAt:     now,
	}
}

func bucketFor(rating int) string {
	switch {
	case rating < 800:
		return ""
	case rating >= 1500:
		return "1500+"
	default:
		low := rating / 100 * 100
		return fmt.Sprintf("%d-%d", low, low+99)
	}
}
