package analyze

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/coursewise/prereqscope/internal/catalog"
)

func TestAnalyzeLinearCatalog(t *testing.T) {
	report := Analyze("test", []catalog.CourseRecord{
		rec("a"),
		rec("b", "a"),
		rec("c", "b"),
	}, Options{})

	m := report.Metrics
	if m.CourseCount != 3 || m.TotalNodesInGraph != 3 {
		t.Errorf("counts = %d/%d, want 3/3", m.CourseCount, m.TotalNodesInGraph)
	}
	if m.NumCycles != 0 || m.NumMissingPrereqs != 0 || m.NumIsolated != 0 {
		t.Errorf("defect counts = %+v, want all zero", m)
	}
	if m.LongestChainBlocked {
		t.Error("LongestChainBlocked = true, want false")
	}
	if m.LongestChainLen != 3 {
		t.Errorf("LongestChainLen = %d, want 3", m.LongestChainLen)
	}
	if !reflect.DeepEqual(m.LongestChainPath, []string{"a", "b", "c"}) {
		t.Errorf("LongestChainPath = %v, want [a b c]", m.LongestChainPath)
	}
	if len(report.Issues) != 0 {
		t.Errorf("Issues = %v, want none", report.Issues)
	}
}

func TestAnalyzeCyclicCatalog(t *testing.T) {
	report := Analyze("test", []catalog.CourseRecord{
		rec("a", "b"),
		rec("b", "a"),
	}, Options{})

	if report.Metrics.NumCycles != 1 {
		t.Fatalf("NumCycles = %d, want 1", report.Metrics.NumCycles)
	}
	if !report.Metrics.LongestChainBlocked {
		t.Error("LongestChainBlocked = false, want true")
	}
	if report.Metrics.LongestChainLen != 0 {
		t.Errorf("LongestChainLen = %d, want 0", report.Metrics.LongestChainLen)
	}

	var cycleIssues []Issue
	for _, issue := range report.Issues {
		if issue.Code == CodeCycle {
			cycleIssues = append(cycleIssues, issue)
		}
	}
	if len(cycleIssues) != 1 {
		t.Fatalf("cycle issues = %d, want 1", len(cycleIssues))
	}
	if !reflect.DeepEqual(cycleIssues[0].Courses, []string{"a", "b"}) {
		t.Errorf("cycle Courses = %v, want [a b]", cycleIssues[0].Courses)
	}
}

func TestAnalyzeIssueOrdering(t *testing.T) {
	// One of each severity: cycle (high), missing (high), bottleneck
	// (medium), isolated (low). Order: severity, then code, then course id.
	records := []catalog.CourseRecord{
		rec("x", "y"),
		rec("y", "x"),
		rec("needs-ghost", "ghost"),
		rec("loner"),
		rec("hub"),
		rec("d1", "hub"),
		rec("d2", "hub"),
		rec("d3", "hub"),
	}
	report := Analyze("test", records, Options{})

	var got []string
	for _, issue := range report.Issues {
		got = append(got, string(issue.Code))
	}
	want := []string{"cycle", "missing_prereq", "bottleneck", "isolated_course"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("issue order = %v, want %v", got, want)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	records := []catalog.CourseRecord{
		rec("a", "b"),
		rec("b", "a"),
		rec("c", "ghost", "phantom"),
		rec("loner"),
	}
	first := Analyze("test", records, Options{})
	second := Analyze("test", records, Options{})

	a, err := json.Marshal(first.Issues)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second.Issues)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("issue lists differ between runs:\n%s\n%s", a, b)
	}
}

func TestAnalyzeOptionDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	if opts != DefaultOptions() {
		t.Errorf("withDefaults = %+v, want %+v", opts, DefaultOptions())
	}
	custom := Options{MinBottleneck: 2}.withDefaults()
	if custom.MinBottleneck != 2 || custom.TopBottlenecks != 5 || custom.LongChainWarn != 6 {
		t.Errorf("withDefaults = %+v, want partial override", custom)
	}
}

func TestReportWriteIssuesCSV(t *testing.T) {
	report := Analyze("test", []catalog.CourseRecord{
		rec("b", "ghost"),
	}, Options{})

	var buf bytes.Buffer
	if err := report.WriteIssuesCSV(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("CSV lines = %d, want header + 1 issue", len(lines))
	}
	if lines[0] != "severity,code,courses,message" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "high,missing_prereq,ghost,") {
		t.Errorf("row = %q, want high,missing_prereq,ghost,...", lines[1])
	}
}

func TestReportWriteJSON(t *testing.T) {
	report := Analyze("catalog.json", []catalog.CourseRecord{rec("a")}, Options{})
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report JSON does not parse: %v", err)
	}
	if decoded["source_path"] != "catalog.json" {
		t.Errorf("source_path = %v", decoded["source_path"])
	}
	if _, ok := decoded["metrics"].(map[string]any); !ok {
		t.Error("metrics missing from report JSON")
	}
}
