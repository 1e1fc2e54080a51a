package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"rubric-sync/internal/apply"
	"rubric-sync/internal/canvas"
	"rubric-sync/internal/config"
	"rubric-sync/internal/domain"
	"rubric-sync/internal/export"
)

// Replays an edited decision log: only ADD/REPLACE rows are actionable, and
// each row is re-resolved against the platform (course by SIS id, rubric by
// title, assignment by exact trimmed name) before the association is made.
func main() {
	var (
		csvPath = flag.String("csv", "", "decision log CSV (required)")
		dryRun  = flag.Bool("dry-run", false, "preview actions without modifying anything")
	)
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("missing required flag: -csv")
	}

	cfg := config.Load()
	if cfg.CanvasURL == "" || cfg.CanvasToken == "" {
		log.Fatal("missing env vars: CANVAS_URL / CANVAS_TOKEN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Hour)
	defer cancel()

	client := canvas.New(cfg.CanvasURL, cfg.CanvasToken)
	client.Retry.MaxAttempts = cfg.HTTPMaxAttempts
	client.PagePause = cfg.PagePause
	// the replay loop paces per row itself, so no extra executor pause
	executor := apply.New(client, *dryRun, 0)

	rows, err := export.ReadDecisionsFile(*csvPath)
	if err != nil {
		log.Fatal(err)
	}

	var actionable []domain.Decision
	for _, d := range rows {
		if d.Kind.Actionable() {
			actionable = append(actionable, d)
		}
	}
	log.Printf("loaded %d rows from %s, %d actionable (ADD/REPLACE)", len(rows), *csvPath, len(actionable))

	applied, failed := 0, 0
	for _, d := range actionable {
		if replayRow(ctx, client, executor, d) {
			applied++
		} else {
			failed++
		}

		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			log.Fatal(ctx.Err())
		}
	}

	log.Printf("done: %d applied, %d failed", applied, failed)
}

func replayRow(ctx context.Context, client *canvas.Client, executor *apply.Executor, d domain.Decision) bool {
	course, err := client.FindCourseBySISID(ctx, d.SISCourseID)
	if err != nil {
		log.Printf("WARN: course not found for %s: %v", d.SISCourseID, err)
		return false
	}

	rubrics, err := client.ListRubrics(ctx, course.ID)
	if err != nil {
		log.Printf("WARN: %v", err)
		return false
	}
	rubricID, ok := domain.RubricsByTitle(rubrics)[d.SuggestedRubric]
	if !ok {
		log.Printf("WARN: rubric %q not found in course %s", d.SuggestedRubric, d.SISCourseID)
		return false
	}

	assignments, err := client.ListAssignments(ctx, course.ID)
	if err != nil {
		log.Printf("WARN: %v", err)
		return false
	}
	var target *domain.Assignment
	for i, a := range assignments {
		if strings.TrimSpace(a.Name) == strings.TrimSpace(d.Assignment) {
			target = &assignments[i]
			break
		}
	}
	if target == nil {
		log.Printf("WARN: no assignment named %q in course %s", d.Assignment, d.SISCourseID)
		return false
	}

	log.Printf("course %s (%d): %s -> %s", d.SISCourseID, course.ID, d.Assignment, d.SuggestedRubric)
	return executor.Apply(ctx, course.ID, target.ID, rubricID)
}
