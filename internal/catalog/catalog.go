// Package catalog loads raw course-catalog JSON and normalizes it into
// CourseRecords. Catalogs come from imperfect upstream sources, so individual
// malformed fields are repaired or skipped; only an unreadable source or a
// non-array top level is an error.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrCatalogNotFound indicates the catalog source could not be located.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrInvalidCatalogShape indicates the source is not a JSON array of
	// course objects.
	ErrInvalidCatalogShape = errors.New("catalog must be a JSON array of course objects")
)

// CourseRecord is the canonical, normalized form of one catalog entry.
type CourseRecord struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Prerequisites []string `json:"prerequisites"`
}

// Parse deserializes raw catalog bytes and normalizes every entry.
func Parse(data []byte) ([]CourseRecord, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalogShape, err)
	}
	items, ok := top.([]any)
	if !ok {
		return nil, ErrInvalidCatalogShape
	}
	return Normalize(items), nil
}

// Normalize converts loosely-typed records into CourseRecords.
//
// Entries without a string "id" are dropped. A missing or non-string "name"
// defaults to "Unknown". A missing or malformed "prerequisites" value becomes
// an empty list; non-string entries inside the list are dropped. Duplicate
// ids are kept: the graph builder folds them last-wins.
func Normalize(items []any) []CourseRecord {
	records := make([]CourseRecord, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok := obj["id"].(string)
		if !ok || id == "" {
			continue
		}
		name := "Unknown"
		if s, ok := obj["name"].(string); ok {
			name = s
		}
		rec := CourseRecord{ID: id, Name: name, Prerequisites: []string{}}
		if list, ok := obj["prerequisites"].([]any); ok {
			for _, p := range list {
				if s, ok := p.(string); ok {
					rec.Prerequisites = append(rec.Prerequisites, s)
				}
			}
		}
		records = append(records, rec)
	}
	return records
}

// LoadFile reads and parses a catalog file from disk.
func LoadFile(path string) ([]CourseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}
