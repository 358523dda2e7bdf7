// Package server exposes the engagement engine over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quietbloom/tend/internal/chat"
	"github.com/quietbloom/tend/internal/engagement"
	"github.com/quietbloom/tend/internal/observability"
	"github.com/quietbloom/tend/internal/personalization"
	"github.com/quietbloom/tend/internal/store"
	"go.uber.org/zap"
)

// Server is the tend HTTP API server.
type Server struct {
	db        *store.DB
	ledger    *engagement.Ledger
	evaluator *engagement.Evaluator
	resolver  *chat.Resolver
	signals   *personalization.Generator
	log       *zap.Logger
	router    chi.Router
	version   string
	started   time.Time
}

// New creates a new Server wired to the given components.
func New(
	db *store.DB,
	ledger *engagement.Ledger,
	evaluator *engagement.Evaluator,
	resolver *chat.Resolver,
	signals *personalization.Generator,
	log *zap.Logger,
	version string,
) *Server {
	s := &Server{
		db:        db,
		ledger:    ledger,
		evaluator: evaluator,
		resolver:  resolver,
		signals:   signals,
		log:       log,
		version:   version,
		started:   time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.observe)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/engagement/activity", s.handleRecordActivity)
		r.Get("/engagement/streak", s.handleStreak)
		r.Get("/engagement/badges", s.handleBadges)
		r.Get("/catalog", s.handleCatalog)

		r.Post("/session/turn", s.handleTurn)
		r.Get("/session/personalization", s.handlePersonalization)

		r.Post("/text/scan-crisis", s.handleScanCrisis)
	})

	s.router = r
}

// observe records request latency by route pattern and status.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		observability.ObserveRequest(route, strconv.Itoa(ww.Status()), time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
	})
}
