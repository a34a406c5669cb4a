package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"iontrap-job-client/internal/domain"
	"iontrap-job-client/internal/domain/model"
	"iontrap-job-client/internal/domain/ports/repository"
)

// Server exposes a read-only local view of submitted jobs plus health and
// metrics endpoints. It never talks to the remote service itself.
type Server struct {
	jobs   repository.JobRepository
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(port int, jobs repository.JobRepository, log *zerolog.Logger) *Server {
	s := &Server{jobs: jobs, log: log}
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Routes(),
	}
	return s
}

// Routes builds the router; split out so tests can drive handlers without
// binding a port.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(s.log), RequestLog(s.log), Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
	})
	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("admin server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// jobView is the wire shape of a registry record.
type jobView struct {
	ID          string         `json:"id"`
	Handle      string         `json:"handle"`
	Machine     string         `json:"machine"`
	Shots       int            `json:"shots"`
	Status      string         `json:"status"`
	Reason      string         `json:"reason,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toView(job *model.Job) jobView {
	v := jobView{
		ID:          job.ID,
		Handle:      job.Handle,
		Machine:     job.Machine,
		Shots:       job.Shots,
		Status:      string(job.Status),
		Reason:      job.Reason,
		SubmittedAt: job.SubmittedAt,
		UpdatedAt:   job.UpdatedAt,
	}
	if job.Result != nil {
		v.Counts = job.Result.Counts()
	}
	return v
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, toView(job))
	}
	s.writeJSON(w, http.StatusOK, views)
}

// handleGetJob resolves by registry ID first, then by vendor handle, so
// either identifier found in logs works here.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.jobs.FindByID(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		job, err = s.jobs.FindByHandle(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toView(job))
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("encode response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}
