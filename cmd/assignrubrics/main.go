package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"time"

	"rubric-sync/internal/apply"
	"rubric-sync/internal/assign"
	"rubric-sync/internal/canvas"
	"rubric-sync/internal/config"
	"rubric-sync/internal/domain"
	"rubric-sync/internal/export"
	"rubric-sync/internal/sftpclient"
)

func main() {
	var (
		csvPath    = flag.String("csv", "", "input CSV with sis_course_id column (required)")
		logPath    = flag.String("log", "", "optional CSV file to save decisions")
		dryRun     = flag.Bool("dry-run", false, "preview only; no rubric is applied")
		applyFlag  = flag.Bool("apply", true, "apply ADD/REPLACE decisions as they are made")
		threshold  = flag.Int("threshold", 1, "minimum word overlap to justify replacement")
		uploadSFTP = flag.Bool("sftp", false, "upload the decision log via SFTP (requires -log)")
	)
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("missing required flag: -csv")
	}
	if *uploadSFTP && *logPath == "" {
		log.Fatal("-sftp requires -log")
	}

	cfg := config.Load()
	if cfg.CanvasURL == "" || cfg.CanvasToken == "" {
		log.Fatal("missing env vars: CANVAS_URL / CANVAS_TOKEN")
	}

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 8*time.Hour)
	defer rootCancel()

	client := newClient(cfg)
	executor := apply.New(client, *dryRun, cfg.ApplyPause)
	runner := &assign.Runner{
		Client:    client,
		Executor:  executor,
		Threshold: *threshold,
		Apply:     *applyFlag,
	}

	sisIDs, err := export.ReadCourseListFile(*csvPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("processing %d courses from %s", len(sisIDs), *csvPath)

	now := time.Now().UTC()

	var decisions []domain.Decision
	failed := 0
	for _, sisID := range sisIDs {
		ds, err := runner.ProcessCourse(rootCtx, sisID, now)
		if err != nil {
			log.Printf("WARN: %v", err)
			failed++
			continue
		}
		decisions = append(decisions, ds...)

		// pace between courses
		select {
		case <-time.After(500 * time.Millisecond):
		case <-rootCtx.Done():
			log.Fatal(rootCtx.Err())
		}
	}

	log.Printf("done: %d courses (%d failed), %d decisions", len(sisIDs), failed, len(decisions))

	if *logPath != "" {
		if err := export.WriteDecisionsFile(*logPath, decisions); err != nil {
			log.Fatal(err)
		}
		log.Printf("decisions logged to %s", *logPath)
	}

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}
		upCtx, upCancel := context.WithTimeout(rootCtx, 5*time.Minute)
		defer upCancel()

		remoteName := filepath.Base(*logPath)
		if err := sftpclient.UploadFile(upCtx, upCfg, *logPath, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}

func newClient(cfg config.Config) *canvas.Client {
	c := canvas.New(cfg.CanvasURL, cfg.CanvasToken)
	c.Retry.MaxAttempts = cfg.HTTPMaxAttempts
	c.PagePause = cfg.PagePause
	return c
}
