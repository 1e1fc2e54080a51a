package apply

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"rubric-sync/internal/canvas"
)

func TestApplyPreviewMakesNoCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := canvas.New(srv.URL, "test-token")
	c.HTTP = srv.Client()
	e := New(c, true, 0)

	if !e.Apply(context.Background(), 9, 11, 77) {
		t.Error("preview apply must report success")
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("preview made %d network calls, want 0", got)
	}
}

func TestApplyLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/courses/9/rubric_associations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": 1}`)
	}))
	defer srv.Close()

	c := canvas.New(srv.URL, "test-token")
	c.HTTP = srv.Client()
	e := New(c, false, 0)

	if !e.Apply(context.Background(), 9, 11, 77) {
		t.Error("expected success on 200")
	}
}

func TestApplyFailureContinues(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors": {"association": "invalid"}}`)
	}))
	defer srv.Close()

	c := canvas.New(srv.URL, "test-token")
	c.HTTP = srv.Client()
	e := New(c, false, 0)

	if e.Apply(context.Background(), 9, 11, 77) {
		t.Error("expected failure on 400")
	}
	// Single-attempt profile: a failed mutation is never retried.
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("made %d calls, want 1", got)
	}
}
