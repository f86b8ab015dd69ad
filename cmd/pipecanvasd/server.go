package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas"
)

var (
	// parseTotal counts validation requests by verdict.
	parseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipecanvasd_parse_total",
			Help: "Total number of pipeline parse requests",
		},
		[]string{"verdict"},
	)

	// parseDuration tracks parse handler latency.
	parseDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipecanvasd_parse_duration_seconds",
			Help:    "Time spent answering a parse request",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(parseTotal)
	prometheus.MustRegister(parseDuration)
}

// Server is the pipeline validator daemon.
type Server struct {
	logger *slog.Logger
	audit  *AuditStore
}

// NewServer creates a validator server. The audit store may be nil,
// in which case verdicts are not persisted and /pipelines/recent
// answers with an empty list.
func NewServer(logger *slog.Logger, audit *AuditStore) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger, audit: audit}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// The editor runs on an arbitrary local origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", s.handlePing)
	r.Post("/pipelines/parse", s.handleParse)
	r.Get("/pipelines/recent", s.handleRecent)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handlePing answers the health probe.
func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Ping": "Pong"})
}

// handleParse counts nodes and edges and checks the graph for cycles.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	report := pipecanvas.ValidationReport{
		NumNodes: len(req.Nodes),
		NumEdges: len(req.Edges),
		IsDAG:    isDAG(req.Nodes, req.Edges),
	}

	parseTotal.WithLabelValues(verdictLabel(report.IsDAG)).Inc()
	parseDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("pipeline parsed",
		slog.Int("nodes", report.NumNodes),
		slog.Int("edges", report.NumEdges),
		slog.Bool("is_dag", report.IsDAG),
	)

	if s.audit != nil {
		if err := s.audit.Record(ParseAudit{
			NumNodes: report.NumNodes,
			NumEdges: report.NumEdges,
			IsDAG:    report.IsDAG,
		}); err != nil {
			s.logger.Error("audit record failed", slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// handleRecent returns the latest parse verdicts, newest first.
// Optional ?limit=N caps the result (default 20).
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	audits := []ParseAudit{}
	if s.audit != nil {
		found, err := s.audit.Recent(limit)
		if err != nil {
			s.logger.Error("audit query failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "audit store unavailable"})
			return
		}
		if found != nil {
			audits = found
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"audits": audits})
}

func verdictLabel(isDAG bool) string {
	if isDAG {
		return "dag"
	}
	return "cyclic"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
