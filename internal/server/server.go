// Package server provides runway's read-mostly HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cleared-dev/runway/internal/chart"
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/metrics"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/projection"
	"github.com/cleared-dev/runway/internal/report"
	"github.com/cleared-dev/runway/internal/workspace"
)

// Server is the runway HTTP API server.
type Server struct {
	ws *workspace.Workspace
}

// NewServer creates a new API server over an opened workspace.
func NewServer(ws *workspace.Workspace) *Server {
	return &Server{ws: ws}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/projection", s.handleProjection)
		r.Get("/projection/chart.png", s.handleProjectionChart)
		r.Get("/instances", s.handleInstances)
		r.Get("/events", s.handleEvents)
		r.Get("/bills", s.handleBills)
		r.Get("/accounts", s.handleAccounts)
		r.Get("/portfolio", s.handlePortfolio)
		r.Post("/prices/refresh", s.handleRefresh)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.ws.Logger.Info().Str("addr", addr).Msg("api listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// instrument records request counts and latency by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.ws.Logger.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func (s *Server) projectionRequest(r *http.Request) (workspace.ProjectRequest, error) {
	q := r.URL.Query()
	req := workspace.ProjectRequest{Start: q.Get("start")}
	if v := q.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("days must be an integer")
		}
		req.Days = days
	}
	if v := q.Get("balance"); v != "" {
		req.Balance = model.ParseAmount(v)
		if !req.Balance.Valid {
			return req, errors.New("balance must be a number")
		}
	}
	return req, nil
}

func (s *Server) project(w http.ResponseWriter, r *http.Request) (*model.Projection, bool) {
	req, err := s.projectionRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	p, err := s.ws.Project(r.Context(), req)
	switch {
	case errors.Is(err, projection.ErrMissingStartingBalance):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	case errors.Is(err, projection.ErrInvalidStartDate):
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	case err != nil:
		s.internalError(w, err)
		return nil, false
	}
	return p, true
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := report.WriteProjectionCSV(w, p); err != nil {
			s.ws.Logger.Error().Err(err).Msg("writing projection csv")
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjectionChart(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	png, err := chart.RenderBalance(p)
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleInstances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start := q.Get("start")
	if start == "" {
		start = isodate.Today()
	}
	if !isodate.Valid(start) {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end := q.Get("end")
	if end == "" {
		end = isodate.MustAddDays(start, projection.ClampHorizon(s.ws.Config.Projection.HorizonDays)-1)
	}
	if !isodate.Valid(end) || end < start {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD on or after start")
		return
	}

	instances, err := s.ws.Instances(r.Context(), start, end)
	if errors.Is(err, workspace.ErrWindowTooLong) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start":     start,
		"end":       end,
		"instances": nonNil(instances),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, _, err := s.ws.Data.Events(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	bills, _, err := s.ws.Data.Bills(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(bills))
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accts, _, err := s.ws.Data.Accounts(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(accts))
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	pf, err := s.ws.Portfolio(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	pf.Positions = nonNil(pf.Positions)
	writeJSON(w, http.StatusOK, pf)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	rep, err := s.ws.RefreshPrices(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.ws.Logger.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}
