package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/dashboard"
	"github.com/nicktill/envmon/pkg/render"
	"github.com/nicktill/envmon/pkg/storage"
	"github.com/nicktill/envmon/pkg/storage/badger"
)

// WarmCharts renders the default charts into the render cache so the first
// page load does not pay for them. Failures are logged and retried with
// exponential backoff: 5s, 10s, 20s.
func WarmCharts(ctx context.Context, h *dashboard.Handler, wg *sync.WaitGroup) {
	defer wg.Done()

	const maxRetries = 3
	baseDelay := 5 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<(attempt-1))
			log.Printf("Retrying chart warmup in %v (attempt %d/%d)...", delay, attempt+1, maxRetries+1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}

		start := time.Now()
		n, err := h.Prerender(ctx, render.SVG)
		if err == nil {
			if n > 0 {
				log.Printf("Pre-rendered %d charts in %v", n, time.Since(start).Round(time.Millisecond))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		log.Printf("Chart warmup failed (attempt %d/%d): %v", attempt+1, maxRetries+1, err)
	}

	log.Printf("Chart warmup gave up after %d attempts, charts will render on demand", maxRetries+1)
}

// RunCacheGC runs BadgerDB value log garbage collection periodically for an
// on-disk render cache. In-memory and non-badger caches return immediately.
func RunCacheGC(store storage.Storage, stop chan bool, wg *sync.WaitGroup) {
	defer wg.Done()

	badgerStore, ok := store.(*badger.Storage)
	if !ok || badgerStore.InMemory() {
		return
	}

	ticker := time.NewTicker(config.CacheGCInterval)
	defer ticker.Stop()

	log.Printf("Render cache GC scheduler started (runs every %v)", config.CacheGCInterval)

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			if err := badgerStore.RunGC(config.CacheGCDiscardRatio); err != nil {
				log.Printf("Render cache GC failed: %v", err)
				continue
			}
			log.Printf("Render cache GC completed in %v", time.Since(start).Round(time.Millisecond))
		case <-stop:
			log.Println("Stopping render cache GC scheduler")
			return
		}
	}
}
