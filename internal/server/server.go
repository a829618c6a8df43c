package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/catalog"
	"github.com/user/streamflix-go/internal/enrich"
	"github.com/user/streamflix-go/internal/live"
	"github.com/user/streamflix-go/internal/views"
	"github.com/user/streamflix-go/internal/watchlist"
)

// Prometheus metrics
var (
	entriesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "streamflix_entries_total",
		Help: "Total number of catalog entries",
	})

	viewIncrementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamflix_view_increments_total",
		Help: "Total number of view count increments",
	})

	requestsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamflix_requests_submitted_total",
		Help: "Total number of content requests submitted",
	})

	storeFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streamflix_store_fallbacks_total",
		Help: "Total number of operations served by the local fallback",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(entriesTotal)
	prometheus.MustRegister(viewIncrementsTotal)
	prometheus.MustRegister(requestsSubmittedTotal)
	prometheus.MustRegister(storeFallbacksTotal)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Uptime string `json:"uptime"`
}

// Server exposes the data layer over HTTP: health, metrics, and the JSON
// API consumed by the rendering layer
type Server struct {
	cat       *catalog.Catalog
	listeners *live.Listeners
	counter   *views.Counter
	watch     *watchlist.Watchlist
	fetcher   *enrich.Fetcher
	router    chi.Router
	server    *http.Server
	startTime time.Time
}

// NewServer creates a new HTTP server instance. fetcher may be nil when
// metadata enrichment is disabled.
func NewServer(cat *catalog.Catalog, listeners *live.Listeners, counter *views.Counter, watch *watchlist.Watchlist, fetcher *enrich.Fetcher) *Server {
	s := &Server{
		cat:       cat,
		listeners: listeners,
		counter:   counter,
		watch:     watch,
		fetcher:   fetcher,
		router:    chi.NewRouter(),
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", s.handleListEntries)
			r.Post("/", s.handleAddEntry)
			r.Get("/{id}", s.handleGetEntry)
			r.Patch("/{id}", s.handleUpdateEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
			r.Put("/{id}/views", s.handleSetViews)
			r.Post("/{id}/play", s.handlePlay)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", s.handleListRequests)
			r.Post("/", s.handleAddRequest)
			r.Patch("/{id}", s.handleUpdateRequest)
			r.Delete("/{id}", s.handleDeleteRequest)
		})

		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", s.handleWatchlist)
			r.Post("/", s.handleWatchlistToggle)
			r.Delete("/{id}", s.handleWatchlistRemove)
		})

		r.Get("/search", s.handleSearch)
		r.Get("/suggestions", s.handleSuggestions)

		r.Get("/guide-videos", s.handleGuideVideos)
		r.Put("/guide-videos", s.handleSaveGuideVideos)

		r.Get("/categories", s.handleCategories)
		r.Put("/categories", s.handleSaveCategories)

		r.Get("/legal", s.handleLegalPages)
		r.Get("/legal/{page}", s.handleLegalPage)
		r.Put("/legal/{page}", s.handleSaveLegalPage)

		r.Get("/navigation", s.handleNavigation)
		r.Put("/navigation", s.handleSaveNavigation)

		r.Get("/selected", s.handleSelected)
		r.Put("/selected", s.handleSetSelected)
	})
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth reports process and store health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeStatus := "healthy"
	if err := s.cat.Store().Ping(ctx); err != nil {
		storeStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	status := "healthy"
	if storeStatus != "healthy" {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status: status,
		Store:  storeStatus,
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// UpdateEntryCount updates the entries_total metric
func UpdateEntryCount(count int) {
	entriesTotal.Set(float64(count))
}

// RecordFallback records an operation served by the local store
func RecordFallback(op string) {
	storeFallbacksTotal.WithLabelValues(op).Inc()
}
