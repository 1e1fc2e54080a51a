package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Level is the coarse undergraduate/postgraduate classification derived from
// the numeric code embedded in a SIS course id.
type Level int

const (
	// LevelNone marks rubrics whose title carries neither level word.
	LevelNone Level = iota
	LevelUG
	LevelPG
)

func (l Level) String() string {
	switch l {
	case LevelUG:
		return "UG"
	case LevelPG:
		return "PG"
	default:
		return "none"
	}
}

// sisCodeRe matches the numeric code in ids like "MATH401-202526":
// four uppercase letters, three digits, a dash.
var sisCodeRe = regexp.MustCompile(`[A-Z]{4}(\d{3})-`)

// LevelFromSISID classifies a SIS course id. Codes above 400 are
// postgraduate; everything else, including ids with no parseable code,
// defaults to undergraduate.
func LevelFromSISID(sisID string) Level {
	m := sisCodeRe.FindStringSubmatch(sisID)
	if m == nil {
		return LevelUG
	}
	code, err := strconv.Atoi(m[1])
	if err != nil || code <= 400 {
		return LevelUG
	}
	return LevelPG
}

// Course pairs the externally assigned SIS id with the platform's numeric id.
// Courses are looked up, never created, by this tool.
type Course struct {
	SISID string
	ID    int64
	Level Level
}

func NewCourse(sisID string, id int64) Course {
	return Course{SISID: sisID, ID: id, Level: LevelFromSISID(sisID)}
}

// Rubric is level-tagged once at ingestion so pool filtering never re-scans
// titles at call sites.
type Rubric struct {
	ID    int64
	Title string
	Level Level
}

// LevelFromTitle tags a rubric by the level word in its title.
func LevelFromTitle(title string) Level {
	switch {
	case strings.Contains(title, "Postgraduate"):
		return LevelPG
	case strings.Contains(title, "Undergraduate"):
		return LevelUG
	default:
		return LevelNone
	}
}

func NewRubric(id int64, title string) Rubric {
	return Rubric{ID: id, Title: title, Level: LevelFromTitle(title)}
}

// RubricsByTitle builds the title-to-id lookup used when applying decisions.
// Title collisions are last-wins, same as the source-of-truth map upstream.
func RubricsByTitle(rubrics []Rubric) map[string]int64 {
	m := make(map[string]int64, len(rubrics))
	for _, r := range rubrics {
		m[r.Title] = r.ID
	}
	return m
}
