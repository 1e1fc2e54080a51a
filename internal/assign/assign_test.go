package assign

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rubric-sync/internal/apply"
	"rubric-sync/internal/canvas"
	"rubric-sync/internal/domain"
)

func testNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newCourseServer(t *testing.T, associations *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/sis_course_id:MATH401-202526", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 42}`)
	})
	mux.HandleFunc("/api/v1/courses/42/rubrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "title": "Postgraduate Essay Rubric"},
			{"id": 2, "title": "Postgraduate Lab Rubric"},
			{"id": 3, "title": "Undergraduate Essay Rubric"}
		]`)
	})
	mux.HandleFunc("/api/v1/courses/42/assignments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 11, "name": "Essay 1", "submission_types": ["online_upload"], "due_at": "2026-09-01T23:59:00Z", "rubric_settings": {}},
			{"id": 12, "name": "Old Essay", "submission_types": ["online_upload"], "due_at": "2020-01-01T23:59:00Z", "rubric_settings": {}},
			{"id": 13, "name": "Quiz 1", "submission_types": ["online_quiz"], "due_at": "2026-09-01T23:59:00Z", "rubric_settings": {}}
		]`)
	})
	mux.HandleFunc("/api/v1/courses/42/rubric_associations", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(associations, 1)
		r.ParseForm()
		if got := r.PostForm.Get("rubric_association[rubric_id]"); got != "1" {
			t.Errorf("applied rubric id %s, want 1", got)
		}
		fmt.Fprint(w, `{"id": 1}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRunner(srv *httptest.Server, preview, applyDecisions bool) *Runner {
	c := canvas.New(srv.URL, "test-token")
	c.HTTP = srv.Client()
	c.PagePause = 0
	return &Runner{
		Client:    c,
		Executor:  apply.New(c, preview, 0),
		Threshold: 1,
		Apply:     applyDecisions,
	}
}

// PG course, "Essay 1" with no current rubric: best match is the
// postgraduate essay rubric (overlap 1 via "essay"), decision ADD, and the
// association is created. Past-due and quiz assignments are ignored.
func TestProcessCourseAddScenario(t *testing.T) {
	var associations int32
	srv := newCourseServer(t, &associations)

	decisions, err := newRunner(srv, false, true).ProcessCourse(context.Background(), "MATH401-202526", testNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("got %d decisions, want 1 (only the upcoming upload assignment)", len(decisions))
	}

	d := decisions[0]
	if d.Kind != domain.Add {
		t.Errorf("decision = %v, want ADD", d.Kind)
	}
	if d.SuggestedRubric != "Postgraduate Essay Rubric" {
		t.Errorf("suggested = %q, want Postgraduate Essay Rubric", d.SuggestedRubric)
	}
	if d.Assignment != "Essay 1" || d.SISCourseID != "MATH401-202526" {
		t.Errorf("decision row = %+v", d)
	}
	if atomic.LoadInt32(&associations) != 1 {
		t.Errorf("made %d association calls, want 1", associations)
	}
}

func TestProcessCoursePreviewIsReadOnly(t *testing.T) {
	var associations int32
	srv := newCourseServer(t, &associations)

	decisions, err := newRunner(srv, true, true).ProcessCourse(context.Background(), "MATH401-202526", testNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Decision logic runs identically in preview; only the mutation is held.
	if len(decisions) != 1 || decisions[0].Kind != domain.Add {
		t.Errorf("preview decisions = %+v", decisions)
	}
	if atomic.LoadInt32(&associations) != 0 {
		t.Errorf("preview made %d association calls, want 0", associations)
	}
}

func TestProcessCourseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newRunner(srv, false, false).ProcessCourse(context.Background(), "GONE101-202526", testNow())
	if err == nil {
		t.Fatal("expected error for unknown course")
	}
}
