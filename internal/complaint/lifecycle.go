// Package complaint owns the complaint lifecycle: which status transitions
// are legal, who may trigger them, and how payment completion intersects
// with status. All authorization passes through the access guard before any
// transition is applied.
package complaint

import "aptcare/backend/internal/models"

// transitions enumerates every legal status move. resolved → closed exists
// here but is reachable only through the payment path, never via SetStatus.
var transitions = map[string][]string{
	models.StatusPending:    {models.StatusInProgress, models.StatusResolved, models.StatusRejected},
	models.StatusInProgress: {models.StatusResolved, models.StatusRejected},
	models.StatusResolved:   {models.StatusClosed},
	models.StatusRejected:   {},
	models.StatusClosed:     {},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Terminal(status string) bool {
	return len(transitions[status]) == 0 && models.ValidStatus(status)
}

// priorityRank orders complaints for triage; higher means more urgent.
var priorityRank = map[string]int{
	models.PriorityLow:    1,
	models.PriorityMedium: 2,
	models.PriorityHigh:   3,
}

func PriorityRank(p string) int { return priorityRank[p] }
