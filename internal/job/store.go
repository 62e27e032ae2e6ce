// Package job tracks asynchronous catalog analyses: an in-memory job store
// and a bounded worker pool that runs analyses off the request path.
package job

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

func (s Status) terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Job records one analysis request and its outcome.
type Job struct {
	ID        string    `json:"job_id"`
	CatalogID string    `json:"catalog_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ReportID  string    `json:"report_id,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Store is an in-memory job registry. Jobs are process-local; terminal jobs
// are swept after a TTL.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewStore allocates an empty Store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a new queued job for catalogID and returns a copy.
func (s *Store) Create(catalogID string) Job {
	now := time.Now().UTC()
	j := &Job{
		ID:        uuid.New().String(),
		CatalogID: catalogID,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()
	return *j
}

// Get returns a copy of the job, if known.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns up to limit jobs, newest first.
func (s *Store) List(limit int) []Job {
	s.mu.RLock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetRunning marks the job as picked up by a worker.
func (s *Store) SetRunning(id string) {
	s.update(id, func(j *Job) {
		j.Status = StatusRunning
	})
}

// SetDone marks the job as completed with the produced report id.
func (s *Store) SetDone(id, reportID string) {
	s.update(id, func(j *Job) {
		j.Status = StatusDone
		j.ReportID = reportID
	})
}

// SetFailed marks the job as failed with an error message.
func (s *Store) SetFailed(id, msg string) {
	s.update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = msg
	})
}

func (s *Store) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		fn(j)
		j.UpdatedAt = time.Now().UTC()
	}
}

// Cleanup removes terminal jobs not updated within ttl. Returns how many
// were removed.
func (s *Store) Cleanup(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, j := range s.jobs {
		if j.Status.terminal() && j.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// StartCleanup sweeps terminal jobs every interval until ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup(ttl)
			case <-ctx.Done():
				return
			}
		}
	}()
}
