// Package store persists catalogs and reports as uuid-named JSON files on
// disk. Ids are validated as UUIDs before any path is built, so a caller can
// never escape the storage directories.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/coursewise/prereqscope/internal/analyze"
)

// ErrNotFound indicates the requested catalog or report does not exist.
var ErrNotFound = errors.New("not found")

// Store owns the catalogs and reports directories.
type Store struct {
	catalogsDir string
	reportsDir  string
}

// New creates both directories if needed and returns a Store.
func New(catalogsDir, reportsDir string) (*Store, error) {
	for _, dir := range []string{catalogsDir, reportsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return &Store{catalogsDir: catalogsDir, reportsDir: reportsDir}, nil
}

// SaveCatalog writes raw catalog bytes under a fresh uuid and returns it.
func (s *Store) SaveCatalog(content []byte) (string, error) {
	id := uuid.New().String()
	path := filepath.Join(s.catalogsDir, id+".json")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write catalog %s: %w", id, err)
	}
	return id, nil
}

// CatalogPath returns the on-disk path for a catalog id. The path may not
// exist; callers relying on existence should check CatalogExists first.
func (s *Store) CatalogPath(id string) string {
	if uuid.Validate(id) != nil {
		return filepath.Join(s.catalogsDir, "invalid")
	}
	return filepath.Join(s.catalogsDir, id+".json")
}

// CatalogExists reports whether a catalog with this id is stored.
func (s *Store) CatalogExists(id string) bool {
	if uuid.Validate(id) != nil {
		return false
	}
	_, err := os.Stat(s.CatalogPath(id))
	return err == nil
}

// SaveReport serializes a report under a fresh uuid and returns it.
func (s *Store) SaveReport(r *analyze.Report) (string, error) {
	id := uuid.New().String()
	path := filepath.Join(s.reportsDir, id+".json")
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report %s: %w", id, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", id, err)
	}
	return id, nil
}

// LoadReport reads a stored report back. Returns ErrNotFound for unknown or
// malformed ids.
func (s *Store) LoadReport(id string) (*analyze.Report, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(s.reportsDir, id+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read report %s: %w", id, err)
	}
	var r analyze.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", id, err)
	}
	return &r, nil
}
