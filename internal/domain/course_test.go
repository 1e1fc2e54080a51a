package domain

import "testing"

func TestLevelFromSISID(t *testing.T) {
	testCases := []struct {
		sisID    string
		expected Level
	}{
		{"MATH401-202526", LevelPG},
		{"MATH400-202526", LevelUG},
		{"MATH399-202526", LevelUG},
		{"ENGL501-202526", LevelPG},
		{"no-code-here", LevelUG},
		{"", LevelUG},
		{"MATH401", LevelUG},  // no trailing dash, code not parseable
		{"MAT401-2025", LevelUG}, // only three letters
	}

	for _, tc := range testCases {
		result := LevelFromSISID(tc.sisID)
		if result != tc.expected {
			t.Errorf("LevelFromSISID(%q) = %v, want %v", tc.sisID, result, tc.expected)
		}
	}
}

func TestLevelFromTitle(t *testing.T) {
	testCases := []struct {
		title    string
		expected Level
	}{
		{"Postgraduate Essay Rubric", LevelPG},
		{"Undergraduate Essay Rubric", LevelUG},
		{"Generic Rubric", LevelNone},
		{"", LevelNone},
	}

	for _, tc := range testCases {
		result := LevelFromTitle(tc.title)
		if result != tc.expected {
			t.Errorf("LevelFromTitle(%q) = %v, want %v", tc.title, result, tc.expected)
		}
	}
}

func TestNewCourseTagsLevelOnce(t *testing.T) {
	c := NewCourse("MATH401-202526", 1234)
	if c.Level != LevelPG {
		t.Errorf("NewCourse level = %v, want %v", c.Level, LevelPG)
	}
	if c.ID != 1234 || c.SISID != "MATH401-202526" {
		t.Errorf("NewCourse ids = (%d, %q), want (1234, MATH401-202526)", c.ID, c.SISID)
	}
}

func TestRubricsByTitleLastWins(t *testing.T) {
	rubrics := []Rubric{
		{ID: 1, Title: "Undergraduate Essay Rubric"},
		{ID: 2, Title: "Undergraduate Essay Rubric"},
		{ID: 3, Title: "Undergraduate Lab Rubric"},
	}

	m := RubricsByTitle(rubrics)
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m))
	}
	if m["Undergraduate Essay Rubric"] != 2 {
		t.Errorf("title collision should be last-wins, got id %d", m["Undergraduate Essay Rubric"])
	}
}
