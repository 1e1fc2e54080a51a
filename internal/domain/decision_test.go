package domain

import "testing"

func TestDecisionKindString(t *testing.T) {
	testCases := []struct {
		kind     DecisionKind
		expected string
	}{
		{Add, "ADD"},
		{Replace, "REPLACE"},
		{Skip, "SKIP"},
		{NoMatch, "NO MATCH"},
	}

	for _, tc := range testCases {
		if got := tc.kind.String(); got != tc.expected {
			t.Errorf("String() = %q, want %q", got, tc.expected)
		}
	}
}

func TestParseDecisionKind(t *testing.T) {
	testCases := []struct {
		input    string
		expected DecisionKind
		wantErr  bool
	}{
		{"ADD", Add, false},
		{"add", Add, false},
		{" Replace ", Replace, false},
		{"SKIP", Skip, false},
		{"NO MATCH", NoMatch, false},
		{"no match", NoMatch, false},
		{"MAYBE", NoMatch, true},
		{"", NoMatch, true},
	}

	for _, tc := range testCases {
		got, err := ParseDecisionKind(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDecisionKind(%q) expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecisionKind(%q) error: %v", tc.input, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseDecisionKind(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestActionable(t *testing.T) {
	if !Add.Actionable() || !Replace.Actionable() {
		t.Error("ADD and REPLACE must be actionable")
	}
	if Skip.Actionable() || NoMatch.Actionable() {
		t.Error("SKIP and NO MATCH must not be actionable")
	}
}
