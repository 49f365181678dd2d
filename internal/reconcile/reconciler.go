package reconcile

import (
	"errors"
	"fmt"
	"sort"

	"TrackerSync/internal/domain"
)

// Result of one reconciliation pass. TotalAcceptedInWindow counts canonical
// per-problem records inside the window before already-persisted keys are
// subtracted, so reporting stays accurate even when nothing new is appended.
type Result struct {
	Delta                 []domain.Submission
	TotalAcceptedInWindow int
}

// Reconcile keeps the earliest accepted submission per problem inside the
// window, orders the canonical set newest-first, and drops keys already
// persisted. Window filtering happens before canonicalization: an earlier
// acceptance outside the window must not suppress one inside it.
//
// Data-shape anomalies never abort a run; only a structurally invalid window
// or a nil key set is rejected, as those are programmer errors.
func Reconcile(subs []domain.Submission, window domain.Window, existing map[domain.ProblemKey]struct{}) (Result, error) {
	if existing == nil {
		return Result{}, errors.New("reconcile: existing key set is nil")
	}
	if window.Start.IsZero() || window.Days <= 0 {
		return Result{}, fmt.Errorf("reconcile: invalid window start=%v days=%d", window.Start, window.Days)
	}

	byKey := make(map[domain.ProblemKey]domain.Submission)
	var order []domain.ProblemKey
	for _, sub := range subs {
		if !sub.Accepted() || !window.Contains(sub.CreatedAt) {
			continue
		}
		current, seen := byKey[sub.Key]
		if !seen {
			byKey[sub.Key] = sub
			order = append(order, sub.Key)
			continue
		}
		// Strictly earlier only: ties keep the first-seen record.
		if sub.CreatedAt.Before(current.CreatedAt) {
			byKey[sub.Key] = sub
		}
	}

	canonical := make([]domain.Submission, 0, len(order))
	for _, key := range order {
		canonical = append(canonical, byKey[key])
	}
	sort.SliceStable(canonical, func(i, j int) bool {
		return canonical[i].CreatedAt.After(canonical[j].CreatedAt)
	})

	result := Result{TotalAcceptedInWindow: len(canonical)}
	for _, sub := range canonical {
		if _, present := existing[sub.Key]; present {
			continue
		}
		result.Delta = append(result.Delta, sub)
	}
	return result, nil
}
