package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    []CourseRecord
		wantErr error
	}{
		{
			name:  "valid records",
			input: `[{"id":"cs101","name":"Intro","prerequisites":[]},{"id":"cs201","name":"Data Structures","prerequisites":["cs101"]}]`,
			want: []CourseRecord{
				{ID: "cs101", Name: "Intro", Prerequisites: []string{}},
				{ID: "cs201", Name: "Data Structures", Prerequisites: []string{"cs101"}},
			},
		},
		{
			name:  "record without id is dropped",
			input: `[{"name":"orphan"},{"id":"cs101","name":"Intro"}]`,
			want: []CourseRecord{
				{ID: "cs101", Name: "Intro", Prerequisites: []string{}},
			},
		},
		{
			name:  "missing name defaults to Unknown",
			input: `[{"id":"cs101"}]`,
			want: []CourseRecord{
				{ID: "cs101", Name: "Unknown", Prerequisites: []string{}},
			},
		},
		{
			name:  "malformed prerequisites become empty",
			input: `[{"id":"cs101","name":"Intro","prerequisites":"cs100"}]`,
			want: []CourseRecord{
				{ID: "cs101", Name: "Intro", Prerequisites: []string{}},
			},
		},
		{
			name:  "non-string prerequisite entries are dropped",
			input: `[{"id":"cs201","name":"DS","prerequisites":["cs101",42,null]}]`,
			want: []CourseRecord{
				{ID: "cs201", Name: "DS", Prerequisites: []string{"cs101"}},
			},
		},
		{
			name:  "non-object entries are skipped",
			input: `["just a string",{"id":"cs101"}]`,
			want: []CourseRecord{
				{ID: "cs101", Name: "Unknown", Prerequisites: []string{}},
			},
		},
		{
			name:  "duplicate ids survive normalization",
			input: `[{"id":"cs101","name":"First"},{"id":"cs101","name":"Second"}]`,
			want: []CourseRecord{
				{ID: "cs101", Name: "First", Prerequisites: []string{}},
				{ID: "cs101", Name: "Second", Prerequisites: []string{}},
			},
		},
		{
			name:    "top-level object is rejected",
			input:   `{"id":"cs101"}`,
			wantErr: ErrInvalidCatalogShape,
		},
		{
			name:    "invalid JSON is rejected",
			input:   `[{"id":`,
			wantErr: ErrInvalidCatalogShape,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.input))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Parse error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Parse = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
		if !errors.Is(err, ErrCatalogNotFound) {
			t.Fatalf("LoadFile error = %v, want ErrCatalogNotFound", err)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		if err := os.WriteFile(path, []byte(`[{"id":"cs101","name":"Intro"}]`), 0o644); err != nil {
			t.Fatal(err)
		}
		records, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		if len(records) != 1 || records[0].ID != "cs101" {
			t.Errorf("LoadFile = %+v, want one cs101 record", records)
		}
	})
}
