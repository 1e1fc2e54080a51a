// Package assign is the per-course pipeline: fetch current state, decide a
// rubric action for every upcoming online-upload assignment, and optionally
// commit the ADD/REPLACE decisions.
package assign

import (
	"context"
	"fmt"
	"log"
	"time"

	"rubric-sync/internal/apply"
	"rubric-sync/internal/canvas"
	"rubric-sync/internal/domain"
	"rubric-sync/internal/match"
)

type Runner struct {
	Client   *canvas.Client
	Executor *apply.Executor

	// Minimum current-vs-suggested title overlap to justify a replacement.
	Threshold int

	// Apply commits ADD/REPLACE decisions as they are made. Off, the runner
	// only produces the decision log for offline review.
	Apply bool
}

// ProcessCourse decides (and optionally applies) rubric actions for one
// course. Lookup misses and per-assignment failures are soft: logged,
// skipped, never fatal to the batch. The returned decisions are the rows for
// the decision log; a nil error with no decisions means a benign empty case.
func (r *Runner) ProcessCourse(ctx context.Context, sisID string, now time.Time) ([]domain.Decision, error) {
	course, err := r.Client.FindCourseBySISID(ctx, sisID)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", sisID, err)
	}
	log.Printf("course %d (%s, level %s)", course.ID, course.SISID, course.Level)

	rubrics, err := r.Client.ListRubrics(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", sisID, err)
	}
	if len(rubrics) == 0 {
		log.Printf("WARN: no rubrics in course %s", sisID)
		return nil, nil
	}
	rubricIDs := domain.RubricsByTitle(rubrics)

	assignments, err := r.Client.ListAssignments(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", sisID, err)
	}

	var upcoming []domain.Assignment
	for _, a := range assignments {
		if a.Upcoming(now) {
			upcoming = append(upcoming, a)
		}
	}
	log.Printf("%d upcoming online-upload assignments", len(upcoming))

	var decisions []domain.Decision
	for _, a := range upcoming {
		best := match.BestMatch(a.Name, rubrics, course.Level)
		kind, overlap := match.Classify(a.CurrentRubric, best, r.Threshold)

		if best == nil {
			log.Printf("WARN: no suitable rubric for %q (empty %s pool)", a.Name, course.Level)
			continue
		}

		d := domain.Decision{
			SISCourseID:     sisID,
			Assignment:      a.Name,
			CurrentRubric:   a.CurrentRubric,
			SuggestedRubric: best.Title,
			Overlap:         overlap,
			Kind:            kind,
		}
		decisions = append(decisions, d)

		current := a.CurrentRubric
		if current == "" {
			current = "None"
		}
		log.Printf("%s: current=%q suggested=%q overlap=%d decision=%s", a.Name, current, best.Title, overlap, kind)

		if r.Apply && kind.Actionable() {
			rubricID, ok := rubricIDs[best.Title]
			if !ok {
				// Suggested title came from this course's pool, so a miss
				// means a title collision shadowed the id. Log and move on.
				log.Printf("WARN: no rubric titled %q found in course %s", best.Title, sisID)
				continue
			}
			if r.Executor.Apply(ctx, course.ID, a.ID, rubricID) {
				log.Printf("applied %q to %q", best.Title, a.Name)
			} else {
				log.Printf("WARN: failed to apply %q to %q", best.Title, a.Name)
			}
		}
	}
	return decisions, nil
}
