// Package analyze runs structural checks over a prerequisite graph and
// assembles the findings into a deterministic Report. Defects in the data
// (cycles, dangling references, isolation, bottlenecks, long chains) are
// never errors: they are Issues inside a successfully produced Report.
package analyze

import "sort"

// Code identifies the check that produced an Issue.
type Code string

const (
	CodeCycle          Code = "cycle"
	CodeMissingPrereq  Code = "missing_prereq"
	CodeIsolatedCourse Code = "isolated_course"
	CodeBottleneck     Code = "bottleneck"
	CodeLongChain      Code = "long_chain"
)

// Severity communicates urgency; it never blocks issuing the report.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 99
}

// Evidence carries check-specific payload. Exactly the fields relevant to
// the issue's Code are populated: Cycle for cycle issues, ReferencedBy for
// missing_prereq, OutDegree for bottleneck, Length and Path for long_chain.
type Evidence struct {
	Cycle        []string `json:"cycle,omitempty"`
	ReferencedBy []string `json:"referenced_by,omitempty"`
	OutDegree    int      `json:"out_degree,omitempty"`
	Length       int      `json:"length,omitempty"`
	Path         []string `json:"path,omitempty"`
}

// Issue is one check finding. Issues are value objects: created once, never
// mutated.
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Courses  []string `json:"courses"`
	Message  string   `json:"message"`
	Meta     Evidence `json:"meta"`
}

func (i Issue) firstCourse() string {
	if len(i.Courses) == 0 {
		return ""
	}
	return i.Courses[0]
}

// sortIssues applies the total order required for diff-stable reports:
// severity (high first), then code, then first implicated course id.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		ia, ib := issues[a], issues[b]
		if ia.Severity.rank() != ib.Severity.rank() {
			return ia.Severity.rank() < ib.Severity.rank()
		}
		if ia.Code != ib.Code {
			return ia.Code < ib.Code
		}
		return ia.firstCourse() < ib.firstCourse()
	})
}
