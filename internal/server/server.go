// Package server is the HTTP transport: routing, middleware, input
// sanitization and JSON serialization around the analysis service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phishguard/phishguard/internal/application"
	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/metrics"
)

// Server wraps the HTTP transport around the analysis service
type Server struct {
	svc     *application.AnalysisService
	cfg     *Config
	logger  *slog.Logger
	router  *mux.Router
	httpSrv *http.Server
}

func New(svc *application.AnalysisService, cfg *Config, logger *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	limiter := newRateLimiter(s.cfg.RateLimitPerMin, s.cfg.RateLimitWindow)

	s.router.Use(securityHeaders)
	s.router.Use(trustedHost(s.cfg.TrustedHosts))
	s.router.Use(corsMiddleware(s.cfg.AllowedOrigins))

	s.router.HandleFunc("/", instrument("root", s.handleRoot)).Methods(http.MethodGet)
	s.router.HandleFunc("/health", instrument("health", s.handleHealth)).Methods(http.MethodGet)
	s.router.Handle("/analyze",
		limiter.middleware(http.HandlerFunc(instrument("analyze", s.handleAnalyze)))).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/patterns", instrument("patterns", s.handlePatterns)).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", instrument("stats", s.handleStats)).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Router exposes the configured handler, mainly for tests
func (s *Server) Router() http.Handler { return s.router }

// Start blocks serving HTTP until the listener fails or Shutdown is called
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests within the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

type analyzeRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "PhishGuard API",
		"version": application.AnalysisVersion,
		"status":  "operational",
		"endpoints": map[string]string{
			"analyze":  "POST /analyze",
			"health":   "GET /health",
			"patterns": "GET /patterns",
			"stats":    "GET /stats",
			"metrics":  "GET /metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"models_loaded": true,
		"version":       application.AnalysisVersion,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContentBytes*2)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	kind := domain.ContentType(req.ContentType)
	if !kind.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content_type must be one of: email, sms, url"})
		return
	}

	content, err := sanitizeContent(req.Content, kind)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	result, err := s.svc.Analyze(r.Context(), content, kind)
	if err != nil {
		s.logger.Error("analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "analysis failed"})
		return
	}

	metrics.AnalysesTotal.WithLabelValues(string(kind), result.Classification).Inc()
	metrics.AnalysisDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	detectors := s.svc.Patterns()
	writeJSON(w, http.StatusOK, map[string]any{
		"detectors": detectors,
		"count":     len(detectors),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.svc.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "stats unavailable"})
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_analyses":    total,
		"by_classification": counts,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("response encoding failed", "error", err)
	}
}
