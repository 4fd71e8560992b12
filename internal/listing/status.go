package listing

import "time"

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// Classify derives the lifecycle status of an event at now. Bounds are
// inclusive: an event is ongoing at both its start and its end instant.
// Records with end before start are classified from the raw values.
func Classify(start, end, now time.Time) Status {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case !now.After(end):
		return StatusOngoing
	default:
		return StatusCompleted
	}
}
