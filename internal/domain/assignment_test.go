package domain

import (
	"testing"
	"time"
)

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	testCases := []struct {
		name     string
		a        Assignment
		expected bool
	}{
		{"upload due later", Assignment{SubmissionTypes: []string{"online_upload"}, DueAt: &future}, true},
		{"upload already due", Assignment{SubmissionTypes: []string{"online_upload"}, DueAt: &past}, false},
		{"upload no due date", Assignment{SubmissionTypes: []string{"online_upload"}}, false},
		{"quiz due later", Assignment{SubmissionTypes: []string{"online_quiz"}, DueAt: &future}, false},
		{"mixed types", Assignment{SubmissionTypes: []string{"online_text_entry", "online_upload"}, DueAt: &future}, true},
		{"no types", Assignment{DueAt: &future}, false},
	}

	for _, tc := range testCases {
		if got := tc.a.Upcoming(now); got != tc.expected {
			t.Errorf("%s: Upcoming() = %v, want %v", tc.name, got, tc.expected)
		}
	}
}
