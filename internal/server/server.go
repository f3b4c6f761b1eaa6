// Package server exposes the ingestion and dashboard HTTP surface.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/gobx/statscollector/internal/observability"
	"github.com/gobx/statscollector/internal/runstats"
	"github.com/gobx/statscollector/internal/store"
)

// maxBodyBytes bounds an ingest payload; run-stats records are small.
const maxBodyBytes = 1 << 20

// Server routes ingestion and dashboard requests. The four core components
// hold no mutable state, so requests run concurrently without locking; the
// store is the only shared resource.
type Server struct {
	store     *store.Store
	logger    *slog.Logger
	metrics   *observability.IngestMetrics
	loadLimit int
	router    *httprouter.Router
}

// New builds a Server around an opened store. loadLimit bounds how many
// historical rows a dashboard read pulls.
func New(st *store.Store, logger *slog.Logger, loadLimit int) (*Server, error) {
	metricsHandler, meter, err := observability.NewMetrics()
	if err != nil {
		return nil, err
	}

	ingestMetrics, err := observability.NewIngestMetrics(meter)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:     st,
		logger:    logger,
		metrics:   ingestMetrics,
		loadLimit: loadLimit,
		router:    httprouter.New(),
	}

	s.router.POST("/ingest", s.handleIngest)
	s.router.GET("/dashboard/summary", s.handleSummary)
	s.router.Handler(http.MethodGet, "/health", observability.HealthHandler())
	s.router.Handler(http.MethodGet, "/readyz", observability.ReadyHandler(st.Ping))
	s.router.Handler(http.MethodGet, "/metrics", metricsHandler)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(rw http.ResponseWriter, hr *http.Request) {
	s.router.ServeHTTP(rw, hr)
}

func (s *Server) handleIngest(rw http.ResponseWriter, hr *http.Request, _ httprouter.Params) {
	started := time.Now()
	ctx := hr.Context()

	payload, readErr := io.ReadAll(io.LimitReader(hr.Body, maxBodyBytes))
	if readErr != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": "unreadable body"})

		return
	}

	rec, err := runstats.Validate(payload)
	if err != nil {
		var rejection *runstats.RejectionError
		if errors.As(err, &rejection) {
			s.metrics.RecordRejected(ctx, rejection.Field)
			s.logger.Info("payload rejected", "field", rejection.Field, "reason", rejection.Reason)
			writeJSON(rw, http.StatusUnprocessableEntity, map[string]string{
				"error": rejection.Reason,
				"field": rejection.Field,
			})

			return
		}

		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})

		return
	}

	insertErr := s.store.InsertRun(ctx, rec, time.Now().UTC())
	if insertErr != nil {
		s.logger.Error("store append failed", "error", insertErr)
		writeJSON(rw, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})

		return
	}

	s.metrics.RecordIngested(ctx, time.Since(started))
	s.logger.Debug("run admitted", "run_id", rec.RunID, "app_version", rec.AppVersion)
	writeJSON(rw, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSummary(rw http.ResponseWriter, hr *http.Request, _ httprouter.Params) {
	ctx := hr.Context()

	rows, err := s.store.RecentSamples(ctx, s.loadLimit)
	if err != nil {
		s.logger.Error("load samples failed", "error", err)
		writeJSON(rw, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})

		return
	}

	s.metrics.RecordRowsLoaded(ctx, len(rows))

	summary := runstats.Summarize(runstats.ParseSamples(rows))
	writeJSON(rw, http.StatusOK, summary)
}

func writeJSON(rw http.ResponseWriter, code int, body any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	// The status line is already written; an encode failure here only
	// truncates the body.
	_ = json.NewEncoder(rw).Encode(body)
}
