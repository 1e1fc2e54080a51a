package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"rubric-sync/internal/domain"
)

// Decision log format. The replay tool and humans edit these files between
// runs, so keep header order EXACT.
var decisionHeader = []string{
	"sis_course_id",
	"assignment",
	"current_rubric",
	"suggested_rubric",
	"overlap",
	"decision",
}

// WriteDecisions writes the decision log.
func WriteDecisions(w io.Writer, decisions []domain.Decision) error {
	cw := csv.NewWriter(w)
	// match what spreadsheets expect
	cw.UseCRLF = true

	if err := cw.Write(decisionHeader); err != nil {
		return err
	}
	for _, d := range decisions {
		row := []string{
			d.SISCourseID,
			d.Assignment,
			d.CurrentRubric,
			d.SuggestedRubric,
			strconv.Itoa(d.Overlap),
			d.Kind.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteDecisionsFile(path string, decisions []domain.Decision) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteDecisions(f, decisions); err != nil {
		return err
	}
	return f.Close()
}

// ReadDecisions parses a decision log, tolerating column reordering (the
// file may have been edited in a spreadsheet). Rows with an unknown decision
// token are rejected with their line number.
func ReadDecisions(r io.Reader) ([]domain.Decision, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("decision log: read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, name := range decisionHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("decision log: missing column %q", name)
		}
	}

	var out []domain.Decision
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decision log: line %d: %w", line, err)
		}

		kind, err := domain.ParseDecisionKind(rec[col["decision"]])
		if err != nil {
			return nil, fmt.Errorf("decision log: line %d: %w", line, err)
		}
		overlap, _ := strconv.Atoi(rec[col["overlap"]])

		out = append(out, domain.Decision{
			SISCourseID:     rec[col["sis_course_id"]],
			Assignment:      rec[col["assignment"]],
			CurrentRubric:   rec[col["current_rubric"]],
			SuggestedRubric: rec[col["suggested_rubric"]],
			Overlap:         overlap,
			Kind:            kind,
		})
	}
	return out, nil
}

func ReadDecisionsFile(path string) ([]domain.Decision, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDecisions(f)
}
