package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/nicktill/envmon/pkg/dashboard"
	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/ingest"
	"github.com/nicktill/envmon/pkg/server"
	"github.com/nicktill/envmon/pkg/server/monitor"
	"github.com/nicktill/envmon/pkg/storage"
	"github.com/nicktill/envmon/pkg/storage/badger"
	"github.com/nicktill/envmon/pkg/storage/memory"
)

// The worked example: three readings in the first five minutes, one after.
const exampleCSV = "1970-01-01T00:00:00.000000Z,10\n" +
	"1970-01-01T00:01:40.000000Z,12\n" +
	"1970-01-01T00:04:59.000000Z,14\n" +
	"1970-01-01T00:05:01.000000Z,100\n"

func writeDataset(t *testing.T, co2, temperature, humidity string) dataset.Paths {
	t.Helper()
	dir := t.TempDir()
	paths := dataset.Paths{
		CO2:         filepath.Join(dir, "co2.csv"),
		Temperature: filepath.Join(dir, "temperature.csv"),
		Humidity:    filepath.Join(dir, "humidity.csv"),
	}
	for path, body := range map[string]string{paths.CO2: co2, paths.Temperature: temperature, paths.Humidity: humidity} {
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return paths
}

func setupRouter(t *testing.T, paths dataset.Paths, cache storage.Storage) (*mux.Router, *monitor.CacheMonitor) {
	t.Helper()

	ds, err := dataset.Load(paths, dataset.Options{})
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}

	cacheMonitor := &monitor.CacheMonitor{}
	dashboardHandler, exportHandler := server.InitializeHandlers(ds, cache, cacheMonitor)

	router := mux.NewRouter()
	server.SetupRoutes(router, server.Dependencies{
		Dataset:      ds,
		Cache:        cache,
		CacheMonitor: cacheMonitor,
		Dashboard:    dashboardHandler,
		Export:       exportHandler,
	}, t.TempDir(), "8080")
	return router, cacheMonitor
}

func do(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestE2E_WorkedExample loads CSV files and reads the resampled buckets back
func TestE2E_WorkedExample(t *testing.T) {
	store := memory.New()
	defer store.Close()

	router, _ := setupRouter(t, writeDataset(t, exampleCSV, exampleCSV, exampleCSV), store)

	w := do(router, "/v1/export/co2?format=csv&range=all")
	if w.Code != http.StatusOK {
		t.Fatalf("Export failed with status %d: %s", w.Code, w.Body.String())
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 buckets, got %d rows", len(rows))
	}
	if rows[1][0] != "1970-01-01T00:05:00Z" || rows[1][1] != "12" || rows[1][2] != "3" {
		t.Errorf("first bucket = %v, want 00:05:00 mean 12 count 3", rows[1])
	}
	if rows[2][0] != "1970-01-01T00:10:00Z" || rows[2][1] != "100" {
		t.Errorf("second bucket = %v, want 00:10:00 mean 100", rows[2])
	}
}

// TestE2E_SummaryAndCharts walks the endpoints the dashboard page calls
func TestE2E_SummaryAndCharts(t *testing.T) {
	store, err := badger.New(badger.Config{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to create badger cache: %v", err)
	}
	defer store.Close()

	router, cacheMonitor := setupRouter(t, writeDataset(t, exampleCSV, exampleCSV, exampleCSV), store)

	w := do(router, "/v1/summary?range=24h")
	if w.Code != http.StatusOK {
		t.Fatalf("Summary failed with status %d: %s", w.Code, w.Body.String())
	}

	var view dashboard.View
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode summary: %v", err)
	}
	if len(view.Cards) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(view.Cards))
	}
	for _, card := range view.Cards {
		if card.Buckets != 2 || card.Latest == nil || *card.Latest != 100 {
			t.Errorf("card %s = %d buckets, latest %v", card.Quantity, card.Buckets, card.Latest)
		}
		// Two buckets cannot produce a 3σ outlier
		if card.OutlierCount != 0 {
			t.Errorf("card %s has %d outliers, want 0", card.Quantity, card.OutlierCount)
		}
	}

	for _, target := range []string{"/v1/charts/co2.svg?range=all", "/v1/charts/co2.svg?range=all"} {
		w = do(router, target)
		if w.Code != http.StatusOK {
			t.Fatalf("Chart failed with status %d: %s", w.Code, w.Body.String())
		}
		if !strings.HasPrefix(w.Body.String(), "<svg") {
			t.Errorf("Expected SVG body")
		}
	}

	status := cacheMonitor.Status()
	if status.Misses != 1 || status.Hits != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", status.Hits, status.Misses)
	}
}

// TestE2E_InvalidRequests checks error envelopes and lenient range parsing
func TestE2E_InvalidRequests(t *testing.T) {
	router, _ := setupRouter(t, writeDataset(t, exampleCSV, exampleCSV, exampleCSV), nil)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown quantity", "/v1/series/radon", http.StatusNotFound},
		{"unknown chart format", "/v1/charts/co2.bmp", http.StatusNotFound},
		{"bad export format", "/v1/export/co2?format=xlsx", http.StatusBadRequest},
		{"unknown range falls back", "/v1/series/co2?range=fortnight", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.target)
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

// TestE2E_BadInputIsFatal checks that a broken file stops the whole load
func TestE2E_BadInputIsFatal(t *testing.T) {
	tests := []struct {
		name string
		co2  string
		want error
	}{
		{"bad timestamp", "2024-01-01 00:00:00,400\n", ingest.ErrTimestamp},
		{"bad value", "2024-01-01T00:00:00.000000Z,lots\n", ingest.ErrMalformedRow},
		{"extra column", "2024-01-01T00:00:00.000000Z,400,1\n", ingest.ErrMalformedRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := writeDataset(t, tt.co2, exampleCSV, exampleCSV)
			_, err := dataset.Load(paths, dataset.Options{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ingest.ErrDataFormat) {
				t.Errorf("Expected a data format error, got %v", err)
			}
		})
	}

	paths := writeDataset(t, exampleCSV, exampleCSV, exampleCSV)
	paths.Temperature = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := dataset.Load(paths, dataset.Options{}); !errors.Is(err, ingest.ErrUnreadable) {
		t.Errorf("Expected ErrUnreadable, got %v", err)
	}
}
