package server

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/dashboard"
	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/export"
	"github.com/nicktill/envmon/pkg/httpx"
	"github.com/nicktill/envmon/pkg/server/monitor"
	"github.com/nicktill/envmon/pkg/storage"
)

var startTime = time.Now()

// DatasetStatus summarizes what was loaded at startup.
type DatasetStatus struct {
	Window      string                 `json:"window"`
	LoadedAt    string                 `json:"loaded_at"`
	Buckets     map[string]int         `json:"buckets"`
	Sources     []monitor.SourceStatus `json:"sources,omitempty"`
	SourceBytes int64                  `json:"source_bytes,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status     string              `json:"status"`
	Version    string              `json:"version"`
	Uptime     string              `json:"uptime"`
	Dataset    DatasetStatus       `json:"dataset"`
	Cache      monitor.CacheStatus `json:"cache"`
	CacheStats *storage.Stats      `json:"cache_stats,omitempty"`
}

// Dependencies groups what SetupRoutes wires into the router.
type Dependencies struct {
	Dataset       *dataset.Dataset
	Cache         storage.Storage
	CacheMonitor  *monitor.CacheMonitor
	SourceMonitor *monitor.SourceMonitor
	Dashboard     *dashboard.Handler
	Export        *export.Handler
}

// handleHealth returns service health status. A failing render cache only
// degrades the service: charts are still rendered without it.
func handleHealth(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheStatus := deps.CacheMonitor.Status()

		response := HealthResponse{
			Status:  "healthy",
			Version: "1.0.0",
			Uptime:  time.Since(startTime).String(),
			Dataset: DatasetStatus{
				Window:   deps.Dataset.Window().String(),
				LoadedAt: deps.Dataset.LoadedAt().UTC().Format(time.RFC3339),
				Buckets:  make(map[string]int),
			},
			Cache: cacheStatus,
		}
		if !cacheStatus.Healthy {
			response.Status = "degraded"
		}

		for _, q := range deps.Dataset.Quantities() {
			response.Dataset.Buckets[q.Slug()] = deps.Dataset.Series(q).Len()
		}
		if deps.SourceMonitor != nil {
			response.Dataset.Sources = deps.SourceMonitor.Status()
			response.Dataset.SourceBytes = deps.SourceMonitor.TotalBytes()
		}

		if deps.Cache != nil {
			ctx, cancel := context.WithTimeout(r.Context(), config.CacheTimeout)
			defer cancel()
			if stats, err := deps.Cache.Stats(ctx); err == nil {
				response.CacheStats = stats
			} else {
				log.Printf("Failed to read cache stats: %v", err)
			}
		}

		httpx.RespondJSON(w, http.StatusOK, response)
	}
}

// SetupRoutes configures all HTTP routes for the server.
func SetupRoutes(router *mux.Router, deps Dependencies, webDir, port string) {
	router.Use(requestLogger)
	router.Use(corsMiddleware(port))

	// API routes
	api := router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/summary", deps.Dashboard.HandleSummary).Methods("GET")
	api.HandleFunc("/view", deps.Dashboard.HandleView).Methods("GET")
	api.HandleFunc("/series/{quantity}", deps.Dashboard.HandleSeries).Methods("GET")
	api.HandleFunc("/charts/{quantity:[a-z0-9]+}.{format:svg|png}", deps.Dashboard.HandleChart).Methods("GET")
	api.HandleFunc("/export/{quantity}", deps.Export.HandleExport).Methods("GET")
	api.HandleFunc("/health", handleHealth(deps)).Methods("GET")

	// WebSocket for range changes
	api.HandleFunc("/ws", deps.Dashboard.HandleWebSocket).Methods("GET")

	// Prometheus scrape endpoint
	router.HandleFunc("/metrics", deps.Dashboard.HandlePrometheusMetrics).Methods("GET")

	// Serve static files from the web directory
	router.PathPrefix("/web/").Handler(http.StripPrefix("/web/", http.FileServer(http.Dir(webDir))))

	// Root path serves dashboard.html
	dashboardPage := filepath.Join(webDir, "dashboard.html")
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, dashboardPage)
	}).Methods("GET")
}

// corsMiddleware creates CORS middleware that restricts to localhost origins only.
func corsMiddleware(port string) func(http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:" + port: true,
		"http://127.0.0.1:" + port: true,
		"http://localhost:3000":    true,
		"http://127.0.0.1:3000":    true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Only set CORS headers for allowed origins
			if allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
				w.Header().Set("Access-Control-Expose-Headers", "ETag, X-Request-ID")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes the connection through for WebSocket upgrades.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// requestLogger tags every request with an id and logs it once served.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("%s %s %d %v [%s]", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), id)
	})
}
