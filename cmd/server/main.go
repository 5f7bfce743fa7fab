package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/server"
	"github.com/nicktill/envmon/pkg/server/monitor"
)

func main() {
	log.Println("🌡️  Starting envmon...")

	cfg := server.LoadConfig()
	log.Printf("⚙️  Configuration: window = %v, cache = %s, web = %s", cfg.Window, cfg.Cache, cfg.WebDir)

	// The dashboard has nothing to show without all three sources
	ds, err := server.InitializeDataset(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to load sensor data: %v", err)
	}

	cache, err := server.InitializeCache(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize render cache: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	cacheMonitor := &monitor.CacheMonitor{}
	sourceMonitor := monitor.NewSourceMonitor(cfg.SourcePaths())
	dashboardHandler, exportHandler := server.InitializeHandlers(ds, cache, cacheMonitor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Pre-render charts in the background
	wg.Add(1)
	go server.WarmCharts(ctx, dashboardHandler, &wg)

	// Reclaim value log space when the cache lives on disk
	stopGC := make(chan bool)
	wg.Add(1)
	go server.RunCacheGC(cache, stopGC, &wg)

	router := mux.NewRouter()
	server.SetupRoutes(router, server.Dependencies{
		Dataset:       ds,
		Cache:         cache,
		CacheMonitor:  cacheMonitor,
		SourceMonitor: sourceMonitor,
		Dashboard:     dashboardHandler,
		Export:        exportHandler,
	}, cfg.WebDir, cfg.Port)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	go func() {
		log.Printf("🌐 Server starting on http://localhost:%s", cfg.Port)
		log.Println("📡 API endpoints:")
		log.Println("   GET  /v1/summary?range=           - Summary cards")
		log.Println("   GET  /v1/series/{quantity}        - Filtered buckets")
		log.Println("   GET  /v1/charts/{quantity}.svg    - Scatter plot (svg or png)")
		log.Println("   GET  /v1/export/{quantity}        - JSON or CSV export")
		log.Println("   GET  /v1/ws                       - Range selection over WebSocket")
		log.Println("   GET  /metrics                     - Prometheus endpoint")
		log.Println("✅ Server ready to accept requests")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutdown signal received...")

	// Stop background tasks before waiting on them
	cancel()
	close(stopGC)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	log.Println("🔄 Gracefully shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server shutdown warning: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("✅ All background tasks stopped cleanly")
	case <-time.After(5 * time.Second):
		log.Println("⚠️  Some background tasks did not stop in time (forcing exit)")
	}

	log.Println("👋 envmon exited cleanly")
}
