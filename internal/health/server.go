// Package health serves the watch-mode HTTP surface: probes, metrics and
// the latest scan's opportunities.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/promo-hedge/internal/metrics"
	"github.com/yourusername/promo-hedge/internal/models"
	"github.com/yourusername/promo-hedge/internal/ranking"
	"github.com/yourusername/promo-hedge/internal/service"
)

// ResultSource provides the most recent scan result
type ResultSource interface {
	Latest() (*service.ScanResult, bool)
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	LastScan string            `json:"last_scan,omitempty"`
}

// OpportunitiesResponse is the body of GET /api/v1/opportunities
type OpportunitiesResponse struct {
	ScanID        string               `json:"scan_id"`
	CompletedAt   time.Time            `json:"completed_at"`
	Count         int                  `json:"count"`
	Opportunities []models.Opportunity `json:"opportunities"`
	Stats         service.ScanStats    `json:"stats"`
	SportErrors   []service.SportError `json:"sport_errors,omitempty"`
}

// BucketsResponse is the body of GET /api/v1/opportunities/buckets
type BucketsResponse struct {
	ScanID      string               `json:"scan_id"`
	CompletedAt time.Time            `json:"completed_at"`
	Buckets     []ranking.BucketView `json:"buckets"`
}

// Server exposes probes, Prometheus metrics and scan results over HTTP.
type Server struct {
	serviceName string
	version     string
	commit      string
	port        string
	server      *http.Server
	logger      *logrus.Logger
	results     ResultSource
	metricsPath string
	mu          sync.RWMutex
	ready       bool
}

// Config holds the configuration for the server.
type Config struct {
	ServiceName    string
	Version        string
	Commit         string
	Port           string
	Logger         *logrus.Logger
	Results        ResultSource
	// MetricsPath serves the Prometheus registry when set, e.g. "/metrics"
	MetricsPath    string
	AllowedOrigins []string
}

// NewServer creates a new server. The port falls back to HEALTH_PORT, then 8080.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8080"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	s := &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		port:        port,
		logger:      log,
		results:     cfg.Results,
		metricsPath: cfg.MetricsPath,
	}
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Router(cfg.AllowedOrigins),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router builds the HTTP routes
func (s *Server) Router(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/live", s.handleLive)
	r.Get("/ready", s.handleReady)
	if s.metricsPath != "" {
		r.Handle(s.metricsPath, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/opportunities", s.handleOpportunities)
		r.Get("/opportunities/buckets", s.handleBuckets)
	})

	return r
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.serviceName,
		}).Info("HTTP server starting")

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("HTTP server shutdown failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.logger.Info("HTTP server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.serviceName,
	})
}

// handleReady reports 503 until the first successful scan
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{
		Service: s.serviceName,
		Checks:  make(map[string]string),
	}
	healthy := true

	if s.IsReady() {
		resp.Checks["service"] = "ok"
	} else {
		healthy = false
		resp.Checks["service"] = "not_ready"
	}

	if s.results != nil {
		if latest, ok := s.results.Latest(); ok {
			resp.Checks["scan"] = "ok"
			resp.LastScan = latest.CompletedAt.UTC().Format(time.RFC3339)
		} else {
			healthy = false
			resp.Checks["scan"] = "pending"
		}
	}

	if healthy {
		resp.Status = "ok"
		respondJSON(w, http.StatusOK, resp)
		return
	}
	resp.Status = "not_ready"
	respondJSON(w, http.StatusServiceUnavailable, resp)
}

// handleOpportunities lists the latest scan's opportunities.
// Query: sort=profit|roi, bucket=low|medium|high|ultra, limit=N (N >= 1; omit for all)
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.latest(w)
	if !ok {
		return
	}

	q := r.URL.Query()
	opps := latest.Opportunities

	if name := q.Get("bucket"); name != "" {
		b, err := ranking.ParseBucket(name)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		opps = ranking.Filter(opps, b)
	}

	switch q.Get("sort") {
	case "", "profit":
		opps = ranking.ByProfit(opps)
	case "roi":
		opps = ranking.ByROI(opps)
	default:
		respondError(w, http.StatusBadRequest, "sort must be profit or roi")
		return
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opps = ranking.Top(opps, limit)
	}
	if opps == nil {
		opps = []models.Opportunity{}
	}

	respondJSON(w, http.StatusOK, OpportunitiesResponse{
		ScanID:        latest.ID.String(),
		CompletedAt:   latest.CompletedAt,
		Count:         len(opps),
		Opportunities: opps,
		Stats:         latest.Stats,
		SportErrors:   latest.SportErrors,
	})
}

func (s *Server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.latest(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, BucketsResponse{
		ScanID:      latest.ID.String(),
		CompletedAt: latest.CompletedAt,
		Buckets:     ranking.Partition(latest.Opportunities),
	})
}

func (s *Server) latest(w http.ResponseWriter) (*service.ScanResult, bool) {
	if s.results == nil {
		respondError(w, http.StatusServiceUnavailable, "no scan results available")
		return nil, false
	}
	latest, ok := s.results.Latest()
	if !ok {
		respondError(w, http.StatusServiceUnavailable, "no scan has completed yet")
		return nil, false
	}
	return latest, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
