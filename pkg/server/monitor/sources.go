package monitor

import (
	"os"
	"sort"
	"sync"
	"time"
)

// SourceMonitor reports the CSV files the dataset was loaded from. File
// stats are cached so health checks do not hit the disk on every request.
type SourceMonitor struct {
	paths         map[string]string
	cached        []SourceStatus
	lastCheck     time.Time
	cacheDuration time.Duration
	mu            sync.Mutex
}

// SourceStatus describes one source file.
type SourceStatus struct {
	Quantity   string `json:"quantity"`
	Path       string `json:"path"`
	Exists     bool   `json:"exists"`
	SizeBytes  int64  `json:"size_bytes"`
	ModifiedAt string `json:"modified_at,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewSourceMonitor creates a monitor for the given quantity → path map.
func NewSourceMonitor(paths map[string]string) *SourceMonitor {
	cp := make(map[string]string, len(paths))
	for k, v := range paths {
		cp[k] = v
	}
	return &SourceMonitor{
		paths:         cp,
		cacheDuration: 10 * time.Second,
	}
}

// Status returns one entry per source, sorted by quantity (cached).
func (sm *SourceMonitor) Status() []SourceStatus {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.cached != nil && time.Since(sm.lastCheck) < sm.cacheDuration {
		return append([]SourceStatus(nil), sm.cached...)
	}

	statuses := make([]SourceStatus, 0, len(sm.paths))
	for _, quantity := range sortedKeys(sm.paths) {
		statuses = append(statuses, statSource(quantity, sm.paths[quantity]))
	}

	sm.cached = statuses
	sm.lastCheck = time.Now()
	return append([]SourceStatus(nil), statuses...)
}

// TotalBytes returns the combined size of all readable sources.
func (sm *SourceMonitor) TotalBytes() int64 {
	var total int64
	for _, s := range sm.Status() {
		total += s.SizeBytes
	}
	return total
}

func statSource(quantity, path string) SourceStatus {
	status := SourceStatus{Quantity: quantity, Path: path}

	info, err := os.Stat(path)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Exists = true
	status.SizeBytes = info.Size()
	status.ModifiedAt = info.ModTime().UTC().Format(time.RFC3339)
	return status
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
