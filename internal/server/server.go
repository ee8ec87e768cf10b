// Package server exposes crossing checks over a small HTTP API so deck tools
// can query the analyzer without shelling out to the CLI.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/balticwatch/cablewatch/internal/analysis"
	"github.com/balticwatch/cablewatch/internal/cable"
	"github.com/balticwatch/cablewatch/internal/geometry"
	"github.com/balticwatch/cablewatch/internal/store"
	"github.com/balticwatch/cablewatch/internal/trajectory"
)

// Server serves crossing checks against one loaded cable set.
type Server struct {
	set       *cable.Set
	cableFile string
	store     store.Store // nil disables run persistence and /v1/runs
	opts      analysis.Options
}

// New creates a Server. st may be nil when no run store is configured.
func New(set *cable.Set, cableFile string, st store.Store, opts analysis.Options) *Server {
	return &Server{set: set, cableFile: cableFile, store: st, opts: opts}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Get("/runs", s.handleRuns)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Routes(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("server: listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server: shutdown")
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cables": len(s.set.Cables),
	})
}

// checkRequest is the POST /v1/check body. An empty points list runs the
// default scenario.
type checkRequest struct {
	Name   string      `json:"name"`
	Points [][]float64 `json:"points"`
	Save   bool        `json:"save"`
}

// checkResponse wraps the analysis result with run metadata.
type checkResponse struct {
	Scenario string          `json:"scenario"`
	RunID    string          `json:"runId,omitempty"`
	Result   analysis.Result `json:"result"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	traj, err := trajectoryFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := analysis.Run(traj, s.set, s.opts)

	resp := checkResponse{Scenario: traj.Name, Result: result}
	if req.Save && s.store != nil {
		run, err := s.store.CreateRun(r.Context(), traj.Name, s.cableFile, result)
		if err != nil {
			zap.L().Error("server: save run failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save run")
			return
		}
		resp.RunID = run.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run store not configured")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), store.Filter{
		Scenario: r.URL.Query().Get("scenario"),
	})
	if err != nil {
		zap.L().Error("server: list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// trajectoryFromRequest validates the request track, falling back to the
// default scenario when no points are given.
func trajectoryFromRequest(req checkRequest) (trajectory.Trajectory, error) {
	if len(req.Points) == 0 {
		return trajectory.Default(), nil
	}
	if len(req.Points) < 2 {
		return trajectory.Trajectory{}, eris.New("at least 2 trajectory points required")
	}

	name := req.Name
	if name == "" {
		name = "ad-hoc"
	}
	traj := trajectory.Trajectory{Name: name, Points: make([]geometry.Point, 0, len(req.Points))}
	for i, pair := range req.Points {
		if len(pair) < 2 {
			return trajectory.Trajectory{}, eris.Errorf("point %d is not a [lon, lat] pair", i)
		}
		traj.Points = append(traj.Points, geometry.Point{Lon: pair[0], Lat: pair[1]})
	}
	return traj, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
