package domain

import "time"

// Assignment is the slice of the platform's assignment object this tool
// cares about. CurrentRubric is empty when no rubric is attached.
type Assignment struct {
	ID              int64
	Name            string
	SubmissionTypes []string
	DueAt           *time.Time
	CurrentRubric   string
}

// Upcoming reports whether the assignment accepts online uploads and is due
// after now. Only those assignments get rubric decisions.
func (a Assignment) Upcoming(now time.Time) bool {
	if a.DueAt == nil || !a.DueAt.After(now) {
		return false
	}
	for _, st := range a.SubmissionTypes {
		if st == "online_upload" {
			return true
		}
	}
	return false
}
