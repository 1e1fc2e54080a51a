package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

const courseIDColumn = "sis_course_id"

// ReadCourseList reads the single-column input format. The header row is
// required; blank ids are skipped.
func ReadCourseList(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("course list: read header: %w", err)
	}
	idx := -1
	for i, name := range header {
		if name == courseIDColumn {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("course list: missing column %q", courseIDColumn)
	}

	var ids []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("course list: %w", err)
		}
		id := strings.TrimSpace(rec[idx])
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func ReadCourseListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCourseList(f)
}

// WriteCourseList writes SIS ids in the same single-column format.
func WriteCourseList(w io.Writer, ids []string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write([]string{courseIDColumn}); err != nil {
		return err
	}
	for _, id := range ids {
		if err := cw.Write([]string{id}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCourseListFile(path string, ids []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCourseList(f, ids); err != nil {
		return err
	}
	return f.Close()
}
