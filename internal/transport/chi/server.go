// Package chi exposes the analysis pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/domain"
	"github.com/kailas-cloud/listwise/internal/domain/analysis"
	healthuc "github.com/kailas-cloud/listwise/internal/usecase/health"
	"github.com/kailas-cloud/listwise/internal/usecase/stream"
)

// Analyzer runs the full pipeline for one listing.
type Analyzer interface {
	Analyze(ctx context.Context, listing domain.Listing) analysis.Report
}

// Streamer turns a finished report into the paced event sequence.
type Streamer interface {
	Events(ctx context.Context, report analysis.Report) <-chan stream.Event
}

// Server holds the HTTP handlers for the analysis API.
type Server struct {
	analyzer Analyzer
	streamer Streamer
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	analyzer Analyzer,
	streamer Streamer,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		analyzer: analyzer,
		streamer: streamer,
		health:   health,
		logger:   logger,
	}
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/analyze", s.Analyze)
	r.Post("/analyze-stream", s.AnalyzeStream)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Analyze handles POST /analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	listing, ok := s.decodeListing(w, r)
	if !ok {
		return
	}

	report := s.analyzer.Analyze(r.Context(), listing)
	writeJSON(w, http.StatusOK, reportToResponse(report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeListing parses and validates the request body, writing the error
// response itself on failure.
func (s *Server) decodeListing(w http.ResponseWriter, r *http.Request) (domain.Listing, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return domain.Listing{}, false
	}

	listing, err := domain.NewListing(req.ProductTitle, req.ProductDescription)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidListing) {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return domain.Listing{}, false
		}
		s.logger.Error("build listing", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return domain.Listing{}, false
	}

	return listing, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
