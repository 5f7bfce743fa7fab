package config

import "time"

// Server defaults
const (
	DefaultPort    = "8080"
	DefaultDataDir = "./data"
	DefaultWebDir  = "./web"
	DefaultCacheMB = 16
)

// Default CSV file names inside the data directory
const (
	DefaultCO2File         = "co2.csv"
	DefaultTemperatureFile = "temperature.csv"
	DefaultHumidityFile    = "humidity.csv"
)

// Resampling and parsing
const (
	// DefaultWindow is the resample bucket width.
	DefaultWindow = 300 * time.Second

	// TimestampLayout is the only accepted timestamp format (YYYY-MM-DDTHH:MM:SS.ffffffZ).
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// Render cache backends
const (
	CacheBadger = "badger"
	CacheMemory = "memory"
	CacheOff    = "off"
)

// Render cache maintenance
const (
	// CacheGCInterval is how often an on-disk badger cache reclaims value log space.
	CacheGCInterval = 10 * time.Minute

	// CacheGCDiscardRatio rewrites a value log file once half of it is garbage.
	CacheGCDiscardRatio = 0.5
)

// HTTP timeouts
const (
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ShutdownTimeout    = 10 * time.Second
	CacheTimeout       = 2 * time.Second
)

// Chart defaults and limits
const (
	ChartDefaultWidth  = 900
	ChartDefaultHeight = 320
	ChartMinSize       = 200
	ChartMaxSize       = 2400
)

// WebSocket configuration
const (
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 4096
	WSWriteDeadline   = 10 * time.Second
	WSReadDeadline    = 60 * time.Second
	WSPingInterval    = 30 * time.Second
	WSMaxMessageSize  = 4096
)
