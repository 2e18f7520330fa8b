// Package server exposes the automation entry point: an HTTP handler that
// triggers a settlement run and reports the aggregate result as JSON.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/models"
)

// Runner is the scheduler surface the server needs.
type Runner interface {
	Run(ctx context.Context) (models.RunReport, error)
}

type Server struct {
	cfg   config.Config
	sched Runner
	log   zerolog.Logger
}

func New(cfg config.Config, sched Runner, log zerolog.Logger) *Server {
	return &Server{cfg: cfg, sched: sched, log: log}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/resolve", s.handleResolve)
	mux.HandleFunc("/api/health", s.handleHealth)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", srv.Addr).Msg("automation endpoint listening")
	return srv.ListenAndServe()
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := s.sched.Run(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("run aborted")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	errs := report.Errors
	if errs == nil {
		errs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"run_id":    report.ID,
		"resolved":  report.Resolved,
		"failed":    report.Failed,
		"errors":    errs,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
