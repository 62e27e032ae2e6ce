package analyze

import (
	"reflect"
	"testing"
)

func TestLongestChainLinear(t *testing.T) {
	g := edgeGraph([][2]string{{"a", "b"}, {"b", "c"}})
	res := LongestChain(g)
	if res.Blocked {
		t.Fatal("Blocked = true, want false")
	}
	if res.Length != 3 {
		t.Errorf("Length = %d, want 3", res.Length)
	}
	if !reflect.DeepEqual(res.Path, []string{"a", "b", "c"}) {
		t.Errorf("Path = %v, want [a b c]", res.Path)
	}
}

func TestLongestChainBlockedByCycle(t *testing.T) {
	g := edgeGraph([][2]string{{"a", "b"}, {"b", "a"}})
	res := LongestChain(g)
	if !res.Blocked {
		t.Fatal("Blocked = false, want true")
	}
	if res.Length != 0 || len(res.Path) != 0 {
		t.Errorf("result = %+v, want zero length and empty path", res)
	}
}

func TestLongestChainTieBreak(t *testing.T) {
	// Two maximum-length paths: a→c and b→c. The deterministic choice is the
	// lexicographically smallest predecessor.
	g := edgeGraph([][2]string{{"b", "c"}, {"a", "c"}})
	res := LongestChain(g)
	if res.Length != 2 {
		t.Fatalf("Length = %d, want 2", res.Length)
	}
	if !reflect.DeepEqual(res.Path, []string{"a", "c"}) {
		t.Errorf("Path = %v, want [a c]", res.Path)
	}
}

func TestLongestChainTieBreakEndNode(t *testing.T) {
	// Two chains of length 2 with different ends; the smaller end wins.
	g := edgeGraph([][2]string{{"a", "z"}, {"b", "c"}})
	res := LongestChain(g)
	if res.Length != 2 {
		t.Fatalf("Length = %d, want 2", res.Length)
	}
	if !reflect.DeepEqual(res.Path, []string{"b", "c"}) {
		t.Errorf("Path = %v, want [b c]", res.Path)
	}
}

func TestLongestChainBoundedByNodeCount(t *testing.T) {
	g := edgeGraph([][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}})
	res := LongestChain(g)
	if res.Blocked {
		t.Fatal("Blocked = true, want false")
	}
	if res.Length < 1 || res.Length > g.NodeCount() {
		t.Errorf("Length = %d, want within [1, %d]", res.Length, g.NodeCount())
	}
}

func TestLongestChainEmptyGraph(t *testing.T) {
	g := edgeGraph(nil)
	res := LongestChain(g)
	if res.Blocked || res.Length != 0 {
		t.Errorf("result = %+v, want unblocked zero result", res)
	}
}

func TestCheckLongChain(t *testing.T) {
	cases := []struct {
		name         string
		chainLen     int
		warn         int
		wantIssues   int
		wantSeverity Severity
	}{
		{name: "under threshold", chainLen: 6, warn: 6, wantIssues: 0},
		{name: "over threshold low", chainLen: 7, warn: 6, wantIssues: 1, wantSeverity: SeverityLow},
		{name: "over threshold medium", chainLen: 9, warn: 6, wantIssues: 1, wantSeverity: SeverityMedium},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var edges [][2]string
			for i := 0; i < tc.chainLen-1; i++ {
				edges = append(edges, [2]string{nodeName(i), nodeName(i + 1)})
			}
			g := edgeGraph(edges)

			issues, res := CheckLongChain(g, tc.warn)
			if res.Length != tc.chainLen {
				t.Fatalf("Length = %d, want %d", res.Length, tc.chainLen)
			}
			if len(issues) != tc.wantIssues {
				t.Fatalf("issues = %d, want %d", len(issues), tc.wantIssues)
			}
			if tc.wantIssues == 1 {
				issue := issues[0]
				if issue.Severity != tc.wantSeverity {
					t.Errorf("Severity = %s, want %s", issue.Severity, tc.wantSeverity)
				}
				wantEnd := nodeName(tc.chainLen - 1)
				if len(issue.Courses) != 1 || issue.Courses[0] != wantEnd {
					t.Errorf("Courses = %v, want [%s]", issue.Courses, wantEnd)
				}
				if issue.Meta.Length != tc.chainLen || len(issue.Meta.Path) != tc.chainLen {
					t.Errorf("Meta = %+v, want full path of length %d", issue.Meta, tc.chainLen)
				}
			}
		})
	}
}

func nodeName(i int) string {
	return string(rune('a' + i))
}
