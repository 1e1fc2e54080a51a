package canvas

import "time"

/* -------- Responses -------- */

type courseResponse struct {
	ID int64 `json:"id"`
}

type rubricResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type assignmentResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	SubmissionTypes []string `json:"submission_types"`
	DueAt           *string  `json:"due_at"`
	RubricSettings  struct {
		Title       string `json:"title"`
		RubricTitle string `json:"rubric_title"`
	} `json:"rubric_settings"`
}

func (a assignmentResponse) dueTime() *time.Time {
	if a.DueAt == nil || *a.DueAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *a.DueAt)
	if err != nil {
		return nil
	}
	return &t
}

// currentRubric reads the attached rubric title from the nested settings;
// the platform has used both field names over time.
func (a assignmentResponse) currentRubric() string {
	if a.RubricSettings.Title != "" {
		return a.RubricSettings.Title
	}
	return a.RubricSettings.RubricTitle
}

type migrationResponse struct {
	ID            int64  `json:"id"`
	WorkflowState string `json:"workflow_state"`
	ProgressURL   string `json:"progress_url"`
}

// SelectiveItem is one selectable entry from a migration's selective-data
// listing. Property is the opaque copy-parameter key used to include it.
type SelectiveItem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Property string `json:"property"`
}

// Progress is the migration progress resource.
type Progress struct {
	WorkflowState string  `json:"workflow_state"`
	Completion    float64 `json:"completion"`
}

// Terminal reports whether the migration reached a final state.
func (p Progress) Terminal() bool {
	return p.WorkflowState == "completed" || p.WorkflowState == "failed"
}
