// Package canvas is the REST client for the learning platform: course
// lookup, paginated rubric/assignment listings, rubric associations, and
// selective content migrations.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"rubric-sync/internal/domain"
	"rubric-sync/internal/httpx"
)

// ErrNotFound marks lookup misses (course by SIS id). Callers treat it as a
// soft failure: log, skip the unit, continue the batch.
var ErrNotFound = errors.New("canvas: not found")

type Client struct {
	BaseURL string // e.g. https://school.instructure.com
	Token   string
	HTTP    *http.Client

	// Retry profile for every call. Defaults to single-attempt: this tool
	// rate-limits with fixed pauses, not backoff.
	Retry httpx.RetryConfig

	// Pause between paginated fetches.
	PagePause time.Duration
}

func New(baseURL, token string) *Client {
	tr := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: tr,
		},
		Retry:     httpx.NoRetryConfig(),
		PagePause: 200 * time.Millisecond,
	}
}

func (c *Client) apiURL(format string, args ...any) string {
	return c.BaseURL + "/api/v1" + fmt.Sprintf(format, args...)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) (*http.Response, error) {
	return httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set("Authorization", "Bearer "+c.Token)
			return req, nil
		},
		out,
		c.Retry,
	)
}

func (c *Client) submitForm(ctx context.Context, method, rawURL string, values url.Values, out any) error {
	_, err := httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			req, err := httpx.FormRequest(ctx, method, rawURL, values)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+c.Token)
			return req, nil
		},
		out,
		c.Retry,
	)
	return err
}

// listPaginated follows rel="next" Link headers until the last page. fetch
// handles one page and returns the next page URL ("" on the last page).
func (c *Client) listPaginated(ctx context.Context, first string, fetch func(ctx context.Context, pageURL string) (string, error)) error {
	next := first
	for next != "" {
		n, err := fetch(ctx, next)
		if err != nil {
			return err
		}
		if n != "" && c.PagePause > 0 {
			select {
			case <-time.After(c.PagePause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		next = n
	}
	return nil
}

// FindCourseBySISID resolves the platform id for a SIS course id.
// Returns ErrNotFound when the platform has no such course.
func (c *Client) FindCourseBySISID(ctx context.Context, sisID string) (domain.Course, error) {
	var cr courseResponse
	_, err := c.getJSON(ctx, c.apiURL("/courses/sis_course_id:%s", url.PathEscape(sisID)), &cr)
	if err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
			return domain.Course{}, fmt.Errorf("%w: sis id %s", ErrNotFound, sisID)
		}
		return domain.Course{}, fmt.Errorf("canvas: find course %s: %w", sisID, err)
	}
	return domain.NewCourse(sisID, cr.ID), nil
}

// CourseExists is the existence probe used by the course filter tool.
func (c *Client) CourseExists(ctx context.Context, sisID string) (bool, error) {
	_, err := c.FindCourseBySISID(ctx, sisID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListRubrics fetches all rubrics of a course, level-tagged at ingestion.
func (c *Client) ListRubrics(ctx context.Context, courseID int64) ([]domain.Rubric, error) {
	var all []domain.Rubric
	err := c.listPaginated(ctx, c.apiURL("/courses/%d/rubrics", courseID), func(ctx context.Context, pageURL string) (string, error) {
		var page []rubricResponse
		resp, err := c.getJSON(ctx, pageURL, &page)
		if err != nil {
			return "", fmt.Errorf("canvas: list rubrics course=%d: %w", courseID, err)
		}
		for _, r := range page {
			all = append(all, domain.NewRubric(r.ID, r.Title))
		}
		return httpx.NextLink(resp.Header), nil
	})
	return all, err
}

// ListAssignments fetches all assignments of a course.
func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]domain.Assignment, error) {
	var all []domain.Assignment
	err := c.listPaginated(ctx, c.apiURL("/courses/%d/assignments", courseID), func(ctx context.Context, pageURL string) (string, error) {
		var page []assignmentResponse
		resp, err := c.getJSON(ctx, pageURL, &page)
		if err != nil {
			return "", fmt.Errorf("canvas: list assignments course=%d: %w", courseID, err)
		}
		for _, a := range page {
			all = append(all, domain.Assignment{
				ID:              a.ID,
				Name:            a.Name,
				SubmissionTypes: a.SubmissionTypes,
				DueAt:           a.dueTime(),
				CurrentRubric:   a.currentRubric(),
			})
		}
		return httpx.NextLink(resp.Header), nil
	})
	return all, err
}

// CreateRubricAssociation attaches a rubric to an assignment for grading.
// The platform replaces any prior association for the assignment on its own;
// this call carries no deduplication and is not retried.
func (c *Client) CreateRubricAssociation(ctx context.Context, courseID, assignmentID, rubricID int64) error {
	values := url.Values{
		"rubric_association[rubric_id]":        {fmt.Sprintf("%d", rubricID)},
		"rubric_association[association_id]":   {fmt.Sprintf("%d", assignmentID)},
		"rubric_association[association_type]": {"Assignment"},
		"rubric_association[title]":            {fmt.Sprintf("Auto-linked rubric %d", rubricID)},
		"rubric_association[use_for_grading]":  {"true"},
		"rubric_association[purpose]":          {"grading"},
	}
	if err := c.submitForm(ctx, http.MethodPost, c.apiURL("/courses/%d/rubric_associations", courseID), values, nil); err != nil {
		return fmt.Errorf("canvas: create rubric association course=%d assignment=%d: %w", courseID, assignmentID, err)
	}
	return nil
}

// CreateSelectiveMigration starts a course-copy job in waiting_for_select:
// nothing is copied until copy parameters are submitted.
func (c *Client) CreateSelectiveMigration(ctx context.Context, targetCourseID, sourceCourseID int64) (int64, error) {
	values := url.Values{
		"migration_type":             {"course_copy_importer"},
		"selective_import":           {"true"},
		"settings[source_course_id]": {fmt.Sprintf("%d", sourceCourseID)},
	}
	var mr migrationResponse
	if err := c.submitForm(ctx, http.MethodPost, c.apiURL("/courses/%d/content_migrations", targetCourseID), values, &mr); err != nil {
		return 0, fmt.Errorf("canvas: create migration target=%d source=%d: %w", targetCourseID, sourceCourseID, err)
	}
	return mr.ID, nil
}

// ListSelectiveItems returns the rubric entries selectable for a migration.
func (c *Client) ListSelectiveItems(ctx context.Context, targetCourseID, migrationID int64) ([]SelectiveItem, error) {
	var items []SelectiveItem
	u := c.apiURL("/courses/%d/content_migrations/%d/selective_data?type=rubrics", targetCourseID, migrationID)
	if _, err := c.getJSON(ctx, u, &items); err != nil {
		return nil, fmt.Errorf("canvas: list selective items migration=%d: %w", migrationID, err)
	}
	return items, nil
}

// TriggerMigration submits copy parameters (property key to "1") and starts
// the copy. Returns the progress URL to poll.
func (c *Client) TriggerMigration(ctx context.Context, targetCourseID, migrationID int64, copyParams map[string]string) (string, error) {
	values := url.Values{}
	for k, v := range copyParams {
		values.Set(k, v)
	}
	var mr migrationResponse
	u := c.apiURL("/courses/%d/content_migrations/%d", targetCourseID, migrationID)
	if err := c.submitForm(ctx, http.MethodPut, u, values, &mr); err != nil {
		return "", fmt.Errorf("canvas: trigger migration=%d: %w", migrationID, err)
	}
	return mr.ProgressURL, nil
}

// GetProgress reads a migration's progress resource. progressURL is absolute
// (the platform returns it fully qualified).
func (c *Client) GetProgress(ctx context.Context, progressURL string) (Progress, error) {
	var p Progress
	if _, err := c.getJSON(ctx, progressURL, &p); err != nil {
		return Progress{}, fmt.Errorf("canvas: progress: %w", err)
	}
	return p, nil
}
