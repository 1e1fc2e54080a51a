// Package match holds the two pure decision primitives: scoring candidate
// rubrics against an assignment name, and classifying what to do with the
// winner. Everything here is deterministic and network-free.
package match

import (
	"regexp"
	"sort"
	"strings"

	"rubric-sync/internal/domain"
)

var wordRe = regexp.MustCompile(`[a-z]+`)

// WordOverlap counts distinct lowercase alphabetic tokens shared by a and b.
// Digits and punctuation act as separators, so "Essay 1: Reflection" and
// "Undergraduate Reflection Rubric" overlap on exactly one token.
func WordOverlap(a, b string) int {
	aw := tokens(a)
	n := 0
	for w := range tokens(b) {
		if aw[w] {
			aw[w] = false // count each shared token once
			n++
		}
	}
	return n
}

func tokens(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		out[w] = true
	}
	return out
}

// BestMatch picks the rubric that fits an assignment name best.
//
// The pool is first restricted to rubrics tagged with the course's level;
// an empty restricted pool means no suggestion. Survivors are scored by
// WordOverlap against the assignment name; the highest score wins, ties
// broken by ascending case-insensitive title. A zero score still produces a
// match when the level pool is non-empty.
func BestMatch(assignmentName string, pool []domain.Rubric, level domain.Level) *domain.Rubric {
	var leveled []domain.Rubric
	for _, r := range pool {
		if r.Level == level {
			leveled = append(leveled, r)
		}
	}
	if len(leveled) == 0 {
		return nil
	}

	scores := make(map[int64]int, len(leveled))
	for _, r := range leveled {
		scores[r.ID] = WordOverlap(assignmentName, r.Title)
	}

	sort.SliceStable(leveled, func(i, j int) bool {
		si, sj := scores[leveled[i].ID], scores[leveled[j].ID]
		if si != sj {
			return si > sj
		}
		return strings.ToLower(leveled[i].Title) < strings.ToLower(leveled[j].Title)
	})

	best := leveled[0]
	return &best
}

// Classify turns the current state plus the best match into an action.
//
// No candidate is terminal NO MATCH. A candidate with no current rubric is a
// straight ADD. Otherwise the overlap between the *current* rubric title and
// the *suggested* rubric title decides REPLACE (>= threshold) vs SKIP.
// Note the operands: current-vs-suggested, not assignment-vs-current; that
// is the contract and it is covered by its own test.
func Classify(currentTitle string, best *domain.Rubric, threshold int) (domain.DecisionKind, int) {
	if best == nil {
		return domain.NoMatch, 0
	}
	if strings.TrimSpace(currentTitle) == "" {
		return domain.Add, 0
	}
	overlap := WordOverlap(currentTitle, best.Title)
	if overlap >= threshold {
		return domain.Replace, overlap
	}
	return domain.Skip, overlap
}
