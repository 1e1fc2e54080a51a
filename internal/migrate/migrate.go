// Package migrate drives the selective bulk-copy workflow that replicates
// missing rubric definitions from a template course into a target course.
package migrate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"rubric-sync/internal/canvas"
)

// State is where a single course's migration run ended up.
type State int

const (
	StateCreated State = iota
	StateWaitingForSelect
	StateListed
	StateFiltered
	StateSkipped
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateWaitingForSelect:
		return "waiting_for_select"
	case StateListed:
		return "listed"
	case StateFiltered:
		return "filtered"
	case StateSkipped:
		return "skipped"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome reports one run: terminal state, what was selected for import, and
// the final completion percentage when the run was polled to the end.
type Outcome struct {
	State       State
	MigrationID int64
	Imported    []string
	Completion  float64
	Reason      string
}

// Orchestrator runs the selective import for one target course at a time.
//
// The idempotency contract: the target's rubric titles are snapshotted,
// lowercased, before the migration is created, and only items absent from
// that snapshot make it into the trigger payload. Re-running against an
// unchanged target selects nothing. Rubrics added to the target out-of-band
// between snapshot and trigger are not seen; that race is accepted.
type Orchestrator struct {
	Client *canvas.Client

	// Match keeps only selective items whose title contains this substring,
	// case-insensitively.
	Match string

	// Preview stops before the trigger step; everything up to the item
	// selection runs and logs as in a live run.
	Preview bool

	// NoWait skips completion polling after the trigger (fire and forget);
	// the outcome is then Running with no visibility into the final state.
	NoWait bool

	PollInterval time.Duration
	PollTimeout  time.Duration // 0 = poll until terminal
	MaxPolls     int           // 0 = unbounded
}

// Run executes the state machine for one source-to-target pair. Benign empty
// selections end in StateSkipped with a nil error and a distinct Reason;
// failures end in StateFailed with the error returned. A failure never
// affects sibling courses; the caller logs and continues.
func (o *Orchestrator) Run(ctx context.Context, sourceCourseID, targetCourseID int64) (Outcome, error) {
	// Snapshot must precede migration creation (idempotency baseline).
	existing, err := o.snapshotTitles(ctx, targetCourseID)
	if err != nil {
		return Outcome{State: StateFailed, Reason: "snapshot failed"}, err
	}

	migrationID, err := o.Client.CreateSelectiveMigration(ctx, targetCourseID, sourceCourseID)
	if err != nil {
		return Outcome{State: StateFailed, Reason: "create failed"}, err
	}
	log.Printf("migration %d created for course %d (waiting_for_select)", migrationID, targetCourseID)

	items, err := o.Client.ListSelectiveItems(ctx, targetCourseID, migrationID)
	if err != nil {
		// Soft failure: only this course's migration is abandoned.
		return Outcome{State: StateFailed, MigrationID: migrationID, Reason: "list failed"}, err
	}
	if len(items) == 0 {
		log.Printf("migration %d: no rubric items in source course %d", migrationID, sourceCourseID)
		return Outcome{State: StateSkipped, MigrationID: migrationID, Reason: "no rubric items"}, nil
	}

	matched := filterByMatch(items, o.Match)
	if len(matched) == 0 {
		log.Printf("migration %d: no rubric titles matched %q", migrationID, o.Match)
		return Outcome{State: StateSkipped, MigrationID: migrationID, Reason: "no matches"}, nil
	}

	fresh := filterNew(matched, existing)
	if len(fresh) == 0 {
		log.Printf("migration %d: all matching rubrics already exist in course %d", migrationID, targetCourseID)
		return Outcome{State: StateSkipped, MigrationID: migrationID, Reason: "already present"}, nil
	}

	titles := make([]string, 0, len(fresh))
	for _, it := range fresh {
		titles = append(titles, it.Title)
		log.Printf("  - %s", it.Title)
	}
	log.Printf("migration %d: %d new rubrics to import", migrationID, len(fresh))

	if o.Preview {
		return Outcome{State: StateSkipped, MigrationID: migrationID, Imported: titles, Reason: "preview"}, nil
	}

	copyParams := make(map[string]string, len(fresh))
	for _, it := range fresh {
		copyParams[it.Property] = "1"
	}

	progressURL, err := o.Client.TriggerMigration(ctx, targetCourseID, migrationID, copyParams)
	if err != nil {
		return Outcome{State: StateFailed, MigrationID: migrationID, Imported: titles, Reason: "trigger failed"}, err
	}

	if o.NoWait {
		log.Printf("migration %d started for course %d (not waiting)", migrationID, targetCourseID)
		return Outcome{State: StateRunning, MigrationID: migrationID, Imported: titles, Reason: "no-wait"}, nil
	}
	if progressURL == "" {
		return Outcome{State: StateFailed, MigrationID: migrationID, Imported: titles, Reason: "no progress URL"},
			fmt.Errorf("migrate: migration %d returned no progress URL", migrationID)
	}

	return o.waitForCompletion(ctx, migrationID, progressURL, titles)
}

// snapshotTitles reads the target's current rubric titles into a lowercase set.
func (o *Orchestrator) snapshotTitles(ctx context.Context, courseID int64) (map[string]bool, error) {
	rubrics, err := o.Client.ListRubrics(ctx, courseID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(rubrics))
	for _, r := range rubrics {
		set[normTitle(r.Title)] = true
	}
	return set, nil
}

func filterByMatch(items []canvas.SelectiveItem, match string) []canvas.SelectiveItem {
	m := strings.ToLower(match)
	var out []canvas.SelectiveItem
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), m) {
			out = append(out, it)
		}
	}
	return out
}

func filterNew(items []canvas.SelectiveItem, existing map[string]bool) []canvas.SelectiveItem {
	var out []canvas.SelectiveItem
	for _, it := range items {
		if !existing[normTitle(it.Title)] {
			out = append(out, it)
		}
	}
	return out
}

func normTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// waitForCompletion polls the progress resource until the migration reaches
// completed or failed. The default is to wait forever, as before; PollTimeout
// and MaxPolls bound the loop when configured, and ctx cancels it.
func (o *Orchestrator) waitForCompletion(ctx context.Context, migrationID int64, progressURL string, titles []string) (Outcome, error) {
	interval := o.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if o.PollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.PollTimeout)
		defer cancel()
	}

	log.Printf("migration %d: waiting for completion...", migrationID)
	for polls := 1; ; polls++ {
		p, err := o.Client.GetProgress(ctx, progressURL)
		if err != nil {
			return Outcome{State: StateFailed, MigrationID: migrationID, Imported: titles, Reason: "poll failed"}, err
		}
		if p.Terminal() {
			state := StateCompleted
			if p.WorkflowState == "failed" {
				state = StateFailed
			}
			log.Printf("migration %d: %s (%.0f%% done)", migrationID, strings.ToUpper(p.WorkflowState), p.Completion)
			return Outcome{State: state, MigrationID: migrationID, Imported: titles, Completion: p.Completion, Reason: p.WorkflowState}, nil
		}
		if o.MaxPolls > 0 && polls >= o.MaxPolls {
			return Outcome{State: StateRunning, MigrationID: migrationID, Imported: titles, Completion: p.Completion, Reason: "poll budget exhausted"},
				fmt.Errorf("migrate: migration %d still %s after %d polls", migrationID, p.WorkflowState, polls)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return Outcome{State: StateRunning, MigrationID: migrationID, Imported: titles, Reason: "canceled"}, ctx.Err()
		}
	}
}
