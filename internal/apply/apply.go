// Package apply commits rubric decisions: one association create per
// decision row, with preview mode and fixed pacing between live calls.
package apply

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"rubric-sync/internal/canvas"
	"rubric-sync/internal/httpx"
)

type Executor struct {
	Client *canvas.Client

	// Preview suppresses the network call and reports success, so a decision
	// batch can be validated before committing anything.
	Preview bool

	// Pause after each live call, to respect the platform's rate limits.
	// Scheduling policy only; zero disables it.
	Pause time.Duration
}

func New(client *canvas.Client, preview bool, pause time.Duration) *Executor {
	return &Executor{Client: client, Preview: preview, Pause: pause}
}

// Apply creates the grading association for one assignment. A failed call is
// logged and reported false; the caller moves on to the next unit. There is
// no retry and no deduplication here: two calls make two associations unless
// the platform collapses them.
func (e *Executor) Apply(ctx context.Context, courseID, assignmentID, rubricID int64) bool {
	if e.Preview {
		log.Printf("[preview] would associate rubric %d with assignment %d in course %d", rubricID, assignmentID, courseID)
		return true
	}

	err := e.Client.CreateRubricAssociation(ctx, courseID, assignmentID, rubricID)
	if err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			log.Printf("WARN: association create failed: status=%d body=%s", herr.StatusCode, httpx.Snippet(herr.Body, 300))
			if strings.Contains(string(herr.Body), "association") {
				log.Printf("hint: check assignment ID and rubric context")
			}
		} else {
			log.Printf("WARN: association create failed: %v", err)
		}
		return false
	}

	if e.Pause > 0 {
		select {
		case <-time.After(e.Pause):
		case <-ctx.Done():
		}
	}
	return true
}
