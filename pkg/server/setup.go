package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/dashboard"
	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/export"
	"github.com/nicktill/envmon/pkg/series"
	"github.com/nicktill/envmon/pkg/server/monitor"
	"github.com/nicktill/envmon/pkg/storage"
	"github.com/nicktill/envmon/pkg/storage/badger"
	"github.com/nicktill/envmon/pkg/storage/memory"
)

// Config holds server configuration.
type Config struct {
	Port    string
	DataDir string
	WebDir  string
	Sources dataset.Paths
	Window  time.Duration

	// Cache is the render cache backend: badger, memory or off.
	Cache    string
	// CacheDir keeps the badger cache on disk. Empty means in-memory.
	CacheDir string
	CacheMB  int64
}

// LoadConfig loads configuration from an optional .env file and the environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env file: %v", err)
	}

	dataDir := getEnv("ENVMON_DATA_DIR", config.DefaultDataDir)

	return Config{
		Port:    getPort(),
		DataDir: dataDir,
		WebDir:  getEnv("ENVMON_WEB_DIR", config.DefaultWebDir),
		Sources: dataset.Paths{
			CO2:         getEnv("ENVMON_CO2_CSV", filepath.Join(dataDir, config.DefaultCO2File)),
			Temperature: getEnv("ENVMON_TEMPERATURE_CSV", filepath.Join(dataDir, config.DefaultTemperatureFile)),
			Humidity:    getEnv("ENVMON_HUMIDITY_CSV", filepath.Join(dataDir, config.DefaultHumidityFile)),
		},
		Window:   getEnvDuration("ENVMON_WINDOW", config.DefaultWindow),
		Cache:    strings.ToLower(getEnv("ENVMON_CACHE", config.CacheBadger)),
		CacheDir: getEnv("ENVMON_CACHE_DIR", ""),
		CacheMB:  getEnvInt64("ENVMON_CACHE_MB", config.DefaultCacheMB),
	}
}

// SourcePaths maps quantity slugs to their CSV files for the source monitor.
func (c Config) SourcePaths() map[string]string {
	paths := make(map[string]string, len(series.Quantities))
	for _, q := range series.Quantities {
		paths[q.Slug()] = c.Sources.Path(q)
	}
	return paths
}

// InitializeDataset loads and prepares every CSV source. Any error is fatal
// for the caller: there is no partial dashboard.
func InitializeDataset(cfg Config) (*dataset.Dataset, error) {
	log.Printf("Loading sensor data (window %v)...", cfg.Window)
	start := time.Now()

	ds, err := dataset.Load(cfg.Sources, dataset.Options{Window: cfg.Window})
	if err != nil {
		return nil, err
	}

	log.Printf("Dataset ready in %v", time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// InitializeCache opens the render cache. It returns a nil Storage when the
// cache is turned off.
func InitializeCache(cfg Config) (storage.Storage, error) {
	switch cfg.Cache {
	case config.CacheOff:
		log.Println("Render cache disabled")
		return nil, nil
	case config.CacheMemory:
		log.Println("Render cache: in-process map")
		return memory.New(), nil
	case config.CacheBadger, "":
		inMemory := cfg.CacheDir == ""
		if !inMemory {
			if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		store, err := badger.New(badger.Config{
			Path:        cfg.CacheDir,
			InMemory:    inMemory,
			MaxMemoryMB: cfg.CacheMB,
		})
		if err != nil {
			return nil, err
		}
		if inMemory {
			log.Printf("Render cache: BadgerDB in memory (%d MB)", cfg.CacheMB)
		} else {
			log.Printf("Render cache: BadgerDB at %s (%d MB)", cfg.CacheDir, cfg.CacheMB)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want %s, %s or %s)",
			cfg.Cache, config.CacheBadger, config.CacheMemory, config.CacheOff)
	}
}

// InitializeHandlers creates and configures all request handlers.
func InitializeHandlers(
	ds *dataset.Dataset,
	cache storage.Storage,
	cacheMonitor *monitor.CacheMonitor,
) (
	*dashboard.Handler,
	*export.Handler,
) {
	dashboardHandler := dashboard.NewHandler(ds, cache, cacheMonitor)
	log.Println("Dashboard handler created")

	exportHandler := export.NewHandler(ds)
	log.Println("Export handler created (JSON & CSV)")

	return dashboardHandler, exportHandler
}

// getEnv gets a string from environment variable or returns default.
func getEnv(key, defaultValue string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultValue
}

// getEnvInt64 gets an int64 from environment variable or returns default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s: %q, using default %d", key, val, defaultValue)
	}
	return defaultValue
}

// getEnvDuration gets a positive duration from environment variable or returns default.
// Plain integers are read as seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
		return parsed
	}
	if secs, err := strconv.ParseInt(val, 10, 64); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid value for %s: %q, using default %v", key, val, defaultValue)
	return defaultValue
}

// getPort gets the server port from PORT environment variable or returns default.
func getPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return config.DefaultPort
}
