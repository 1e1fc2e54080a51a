package main

import (
	"context"
	"flag"
	"log"
	"time"

	"rubric-sync/internal/canvas"
	"rubric-sync/internal/config"
	"rubric-sync/internal/export"
)

// Splits a SIS-id CSV into courses that exist on the platform and courses
// that do not. No decision logic; just the existence probe.
func main() {
	var (
		csvPath     = flag.String("csv", "", "input CSV with sis_course_id column (required)")
		outPath     = flag.String("out", "valid_courses.csv", "output CSV for valid courses")
		invalidPath = flag.String("invalid", "", "optional output CSV for invalid courses")
	)
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("missing required flag: -csv")
	}

	cfg := config.Load()
	if cfg.CanvasURL == "" || cfg.CanvasToken == "" {
		log.Fatal("missing env vars: CANVAS_URL / CANVAS_TOKEN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	client := canvas.New(cfg.CanvasURL, cfg.CanvasToken)
	client.Retry.MaxAttempts = cfg.HTTPMaxAttempts

	sisIDs, err := export.ReadCourseListFile(*csvPath)
	if err != nil {
		log.Fatal(err)
	}

	var valid, invalid []string
	for _, sisID := range sisIDs {
		exists, err := client.CourseExists(ctx, sisID)
		if err != nil {
			log.Printf("WARN: checking %s: %v", sisID, err)
			invalid = append(invalid, sisID)
			continue
		}
		if exists {
			log.Printf("%s: found", sisID)
			valid = append(valid, sisID)
		} else {
			log.Printf("%s: not found", sisID)
			invalid = append(invalid, sisID)
		}
	}

	if err := export.WriteCourseListFile(*outPath, valid); err != nil {
		log.Fatal(err)
	}
	log.Printf("saved %d valid courses to %s", len(valid), *outPath)

	if *invalidPath != "" {
		if err := export.WriteCourseListFile(*invalidPath, invalid); err != nil {
			log.Fatal(err)
		}
		log.Printf("saved %d invalid courses to %s", len(invalid), *invalidPath)
	}
}
