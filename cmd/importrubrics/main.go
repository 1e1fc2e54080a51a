package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"rubric-sync/internal/canvas"
	"rubric-sync/internal/config"
	"rubric-sync/internal/export"
	"rubric-sync/internal/migrate"
)

// Selective import of new rubric definitions from a template course into
// each target course from the CSV. Each target is an independent unit of
// failure: a broken migration never stops the batch.
func main() {
	var (
		sourceID = flag.Int64("source", 0, "source course id, numeric (required)")
		matchStr = flag.String("match", "", "substring to match rubric titles, e.g. 202526 (required)")
		csvPath  = flag.String("csv", "", "CSV with sis_course_id column (required)")
		dryRun   = flag.Bool("dry-run", false, "preview only (no import)")
		noWait   = flag.Bool("no-wait", false, "do not wait for migrations to finish (fire and forget)")
	)
	flag.Parse()

	if *sourceID == 0 || *matchStr == "" || *csvPath == "" {
		log.Fatal("missing required flags: -source, -match, -csv")
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

	orch := &migrate.Orchestrator{
		Client:       client,
		Match:        *matchStr,
		Preview:      *dryRun,
		NoWait:       *noWait,
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
		MaxPolls:     cfg.MaxPolls,
	}

	// Operator context: show what the source has before touching targets.
	sourceRubrics, err := client.ListRubrics(ctx, *sourceID)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("source course %d has %d rubrics", *sourceID, len(sourceRubrics))

	sisIDs, err := export.ReadCourseListFile(*csvPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d destination courses from %s", len(sisIDs), *csvPath)

	counts := map[migrate.State]int{}
	for _, sisID := range sisIDs {
		course, err := client.FindCourseBySISID(ctx, sisID)
		if errors.Is(err, canvas.ErrNotFound) {
			log.Printf("WARN: could not find course for SIS ID %s", sisID)
			continue
		}
		if err != nil {
			log.Printf("WARN: %v", err)
			continue
		}

		log.Printf("processing target course %d (from %s)", course.ID, sisID)
		outcome, err := orch.Run(ctx, *sourceID, course.ID)
		counts[outcome.State]++
		if err != nil {
			log.Printf("WARN: course %s: migration %s (%s): %v", sisID, outcome.State, outcome.Reason, err)
		}

		// avoid hammering the API
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			log.Fatal(ctx.Err())
		}
	}

	log.Printf(
		"done: completed=%d running=%d skipped=%d failed=%d",
		counts[migrate.StateCompleted],
		counts[migrate.StateRunning],
		counts[migrate.StateSkipped],
		counts[migrate.StateFailed],
	)
}
