// Package server exposes discovery over HTTP: upload an event log, run
// the pipeline as a job, fetch the artifacts as JSON.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procflow/procflow/pkg/cache"
	"github.com/procflow/procflow/pkg/discovery"
	"github.com/procflow/procflow/pkg/export"
	"github.com/procflow/procflow/pkg/parser"
)

// maxUploadBytes bounds in-memory log uploads.
const maxUploadBytes = 256 << 20

// Job tracks one discovery run.
type Job struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"` // pending, running, completed, failed
	InputName string         `json:"input_name"`
	StartTime time.Time      `json:"start_time"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Cached    bool           `json:"cached,omitempty"`
	Error     string         `json:"error,omitempty"`
	Result    *export.Bundle `json:"result,omitempty"`
}

// Server handles HTTP requests.
type Server struct {
	parserCfg parser.Config
	opts      discovery.Options
	cache     *cache.Cache // nil when disabled
	jobs      sync.Map     // jobID -> *Job
	mu        sync.Mutex   // guards job mutation
	mux       *http.ServeMux
}

// New creates a server. c may be nil to disable result caching.
func New(parserCfg parser.Config, opts discovery.Options, c *cache.Cache) *Server {
	s := &Server{
		parserCfg: parserCfg,
		opts:      opts,
		cache:     c,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/discover", s.handleDiscover)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving on addr until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	format := parser.ParseFormat(r.FormValue("format"))
	if format == parser.FormatUnknown {
		format = formatFromName(header.Filename)
	}
	if format == parser.FormatUnknown {
		writeError(w, http.StatusBadRequest, parser.ErrUnsupportedFormat)
		return
	}

	opts := s.opts
	if v := r.FormValue("min_frequency"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid min_frequency %q", v))
			return
		}
		opts.MinFrequency = f
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    "pending",
		InputName: header.Filename,
		StartTime: time.Now(),
	}
	s.jobs.Store(job.ID, job)

	// Encode the response before the worker starts; setStatus mutates the
	// job and must never run concurrently with an unlocked read.
	writeJSON(w, http.StatusAccepted, job)

	go s.run(job, content, format, opts)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	v, ok := s.jobs.Load(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown job"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, v.(*Job))
}

// run executes a discovery job, consulting the result cache first.
func (s *Server) run(job *Job, content []byte, format parser.Format, opts discovery.Options) {
	ctx := context.Background()
	s.setStatus(job, "running", nil, nil, false)

	if s.cache != nil {
		key := cache.Key(content, opts)
		if bundle, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			s.setStatus(job, "completed", bundle, nil, true)
			return
		}
	}

	p, err := parser.New(format, s.parserCfg)
	if err != nil {
		s.setStatus(job, "failed", nil, err, false)
		return
	}
	events, err := parser.Collect(ctx, p, bytes.NewReader(content))
	if err != nil {
		s.setStatus(job, "failed", nil, err, false)
		return
	}
	res, err := discovery.DiscoverEvents(ctx, events, opts)
	if err != nil {
		s.setStatus(job, "failed", nil, err, false)
		return
	}

	bundle := export.NewBundle(res)
	if s.cache != nil {
		// Best effort: a failed write only loses the cache hit.
		_ = s.cache.Set(ctx, cache.Key(content, opts), bundle)
	}
	s.setStatus(job, "completed", bundle, nil, false)
}

func (s *Server) setStatus(job *Job, status string, bundle *export.Bundle, err error, cached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.Status = status
	job.Cached = cached
	if bundle != nil {
		job.Result = bundle
	}
	if err != nil {
		job.Error = err.Error()
	}
	if status == "completed" || status == "failed" {
		now := time.Now()
		job.EndTime = &now
	}
}

func formatFromName(name string) parser.Format {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return parser.FormatUnknown
	}
	return parser.ParseFormat(strings.ToLower(name[idx+1:]))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
