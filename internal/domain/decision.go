package domain

import (
	"fmt"
	"strings"
)

// DecisionKind is the classifier's output action for one assignment.
type DecisionKind int

const (
	NoMatch DecisionKind = iota
	Add
	Replace
	Skip
)

// String values are the exact tokens used in the decision-log CSV; the
// replay tool round-trips them, so they must not change.
func (k DecisionKind) String() string {
	switch k {
	case Add:
		return "ADD"
	case Replace:
		return "REPLACE"
	case Skip:
		return "SKIP"
	default:
		return "NO MATCH"
	}
}

// ParseDecisionKind accepts the CSV tokens case-insensitively (the log is
// hand-edited between runs).
func ParseDecisionKind(s string) (DecisionKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADD":
		return Add, nil
	case "REPLACE":
		return Replace, nil
	case "SKIP":
		return Skip, nil
	case "NO MATCH":
		return NoMatch, nil
	}
	return NoMatch, fmt.Errorf("unknown decision %q", s)
}

// Actionable reports whether a replayed row should result in an association.
func (k DecisionKind) Actionable() bool {
	return k == Add || k == Replace
}

// Decision is one row of the decision log: what the matcher suggested for an
// assignment and what the classifier decided to do about it.
type Decision struct {
	SISCourseID     string
	Assignment      string
	CurrentRubric   string
	SuggestedRubric string
	Overlap         int
	Kind            DecisionKind
}
