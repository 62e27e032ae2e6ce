package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursewise/prereqscope/internal/catalog"
	"github.com/coursewise/prereqscope/internal/config"
	"github.com/coursewise/prereqscope/internal/graph"
	"github.com/coursewise/prereqscope/internal/ingest"
	"github.com/coursewise/prereqscope/internal/job"
	"github.com/coursewise/prereqscope/internal/metrics"
	"github.com/coursewise/prereqscope/internal/store"
	"github.com/coursewise/prereqscope/internal/traverse"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	runner *job.Runner
	jobs   *job.Store
	files  *store.Store
	ing    *ingest.Ingestor
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(runner *job.Runner, jobs *job.Store, files *store.Store, ing *ingest.Ingestor, loader *config.Loader) http.Handler {
	h := &Handler{runner: runner, jobs: jobs, files: files, ing: ing, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/catalogs", h.createCatalog)
	h.mux.HandleFunc("POST /v1/catalogs/{id}/analyze", h.analyzeCatalog)
	h.mux.HandleFunc("GET /v1/catalogs/{id}/chain/{target}", h.prereqChain)
	h.mux.HandleFunc("GET /v1/catalogs/{id}/unlocked", h.unlockedCourses)
	h.mux.HandleFunc("GET /v1/jobs", h.listJobs)
	h.mux.HandleFunc("GET /v1/jobs/{id}", h.getJob)
	h.mux.HandleFunc("GET /v1/reports/{id}", h.getReport)
	h.mux.HandleFunc("GET /v1/reports/{id}/issues.csv", h.getReportCSV)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// POST /v1/catalogs — ingest a catalog via multipart upload or source URL.
func (h *Handler) createCatalog(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	var (
		catalogID string
		source    string
		err       error
	)
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(h.ing.MaxUploadBytes()); err != nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid multipart body: %s", err))
			return
		}
		file, hdr, ferr := r.FormFile("file")
		if ferr != nil {
			writeError(w, http.StatusUnprocessableEntity, "missing 'file' in form data")
			return
		}
		defer file.Close()
		content, rerr := io.ReadAll(io.LimitReader(file, h.ing.MaxUploadBytes()+1))
		if rerr != nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("read upload: %s", rerr))
			return
		}
		catalogID, err = h.ing.Upload(content)
		source = "file: " + hdr.Filename
		metrics.CatalogsIngested.WithLabelValues("upload").Inc()

	case strings.HasPrefix(contentType, "application/json"):
		var body struct {
			SourceURL string `json:"source_url"`
		}
		if derr := json.NewDecoder(r.Body).Decode(&body); derr != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
			return
		}
		if body.SourceURL == "" {
			writeError(w, http.StatusUnprocessableEntity, "missing 'source_url' in JSON body")
			return
		}
		catalogID, err = h.ing.FetchURL(r.Context(), body.SourceURL)
		source = "url: " + body.SourceURL
		metrics.CatalogsIngested.WithLabelValues("url").Inc()

	default:
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be 'multipart/form-data' or 'application/json'")
		return
	}

	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, ingest.ErrTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, ingest.ErrUpstream):
			status = http.StatusBadGateway
		case errors.Is(err, ingest.ErrUnsafeURL), errors.Is(err, catalog.ErrInvalidCatalogShape):
			status = http.StatusUnprocessableEntity
		default:
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"catalog_id": catalogID,
		"stored_at":  time.Now().UTC(),
		"source":     source,
		"message":    "Catalog ingested successfully",
	})
}

// POST /v1/catalogs/{id}/analyze — queue an analysis job (202).
// The body may override individual analysis thresholds.
func (h *Handler) analyzeCatalog(w http.ResponseWriter, r *http.Request) {
	catalogID := r.PathValue("id")
	if !h.files.CatalogExists(catalogID) {
		writeError(w, http.StatusNotFound, "catalog not found")
		return
	}

	opts := h.loader.Config().Analysis
	var overrides struct {
		TopBottlenecks *int `json:"top_bottlenecks"`
		MinBottleneck  *int `json:"min_bottleneck"`
		LongChainWarn  *int `json:"long_chain_warn"`
	}
	if r.Body != nil {
		// Option overrides are optional; an empty body keeps the defaults.
		if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
			return
		}
	}
	if overrides.TopBottlenecks != nil {
		opts.TopBottlenecks = *overrides.TopBottlenecks
	}
	if overrides.MinBottleneck != nil {
		opts.MinBottleneck = *overrides.MinBottleneck
	}
	if overrides.LongChainWarn != nil {
		opts.LongChainWarn = *overrides.LongChainWarn
	}

	j := h.jobs.Create(catalogID)
	if !h.runner.Submit(j.ID, catalogID, opts) {
		h.jobs.SetFailed(j.ID, "job queue full")
		metrics.JobsDropped.Inc()
		writeError(w, http.StatusTooManyRequests, "job queue full")
		return
	}
	writeJSON(w, http.StatusAccepted, j)
}

// GET /v1/jobs/{id} — job status.
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	j, ok := h.jobs.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// GET /v1/jobs — recent jobs, newest first.
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.jobs.List(limit))
}

// GET /v1/reports/{id} — full JSON report.
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.files.LoadReport(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GET /v1/reports/{id}/issues.csv — issue list as CSV.
func (h *Handler) getReportCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.files.LoadReport(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_ = report.WriteIssuesCSV(w)
}

// course is the decorated node shape returned by traversal queries.
type course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func decorate(g *graph.Graph, ids []string) []course {
	out := make([]course, 0, len(ids))
	for _, id := range ids {
		out = append(out, course{ID: id, Name: g.Name(id)})
	}
	return out
}

// loadGraph builds the graph for a stored catalog, handling the 404 cases.
func (h *Handler) loadGraph(w http.ResponseWriter, catalogID string) (*graph.Graph, map[string]struct{}, bool) {
	records, err := catalog.LoadFile(h.files.CatalogPath(catalogID))
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogNotFound) {
			writeError(w, http.StatusNotFound, "catalog not found")
		} else {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return nil, nil, false
	}
	g, realIDs := graph.Build(records)
	return g, realIDs, true
}

// GET /v1/catalogs/{id}/chain/{target} — full ancestor chain of a course.
func (h *Handler) prereqChain(w http.ResponseWriter, r *http.Request) {
	g, _, ok := h.loadGraph(w, r.PathValue("id"))
	if !ok {
		return
	}
	target := r.PathValue("target")
	chain := traverse.Chain(g, target)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"target": target,
		"chain":  decorate(g, chain),
	})
}

// GET /v1/catalogs/{id}/unlocked?completed=a,b — one-step unlocked frontier.
func (h *Handler) unlockedCourses(w http.ResponseWriter, r *http.Request) {
	g, realIDs, ok := h.loadGraph(w, r.PathValue("id"))
	if !ok {
		return
	}
	completed := make(map[string]struct{})
	if raw := r.URL.Query().Get("completed"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				completed[id] = struct{}{}
			}
		}
	}
	unlocked := traverse.Unlocked(g, realIDs, completed)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"completed": len(completed),
		"unlocked":  decorate(g, unlocked),
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the job queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.runner.QueueUtilization()
	metrics.JobQueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
