package analyze

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
)

// WriteJSON serializes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteIssuesCSV writes the issue list as CSV with a header row, in report
// order.
func (r *Report) WriteIssuesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"severity", "code", "courses", "message"}); err != nil {
		return err
	}
	for _, issue := range r.Issues {
		row := []string{
			string(issue.Severity),
			string(issue.Code),
			strings.Join(issue.Courses, ","),
			issue.Message,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
