package monitor

import (
	"sync"
	"time"
)

// maxConsecutiveErrors is how many cache failures in a row mark the cache unhealthy
const maxConsecutiveErrors = 3

// CacheMonitor tracks render cache effectiveness and failures.
// The zero value is ready to use.
type CacheMonitor struct {
	mu                sync.RWMutex
	hits              int64
	misses            int64
	errors            int64
	consecutiveErrors int
	lastError         string
	lastErrorAt       time.Time
}

// RecordHit records a chart served from the cache.
func (cm *CacheMonitor) RecordHit() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.hits++
	cm.consecutiveErrors = 0
}

// RecordMiss records a chart that had to be rendered.
func (cm *CacheMonitor) RecordMiss() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.misses++
	cm.consecutiveErrors = 0
}

// RecordError records a failed cache read or write.
func (cm *CacheMonitor) RecordError(err error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.errors++
	cm.consecutiveErrors++
	cm.lastErrorAt = time.Now()
	if err != nil {
		cm.lastError = err.Error()
	}
}

// IsHealthy reports false after more than three cache failures in a row.
// Charts are still rendered when the cache fails, so this is informational.
func (cm *CacheMonitor) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.consecutiveErrors <= maxConsecutiveErrors
}

// CacheStatus is the cache section of the health response.
type CacheStatus struct {
	Healthy           bool    `json:"healthy"`
	Hits              int64   `json:"hits"`
	Misses            int64   `json:"misses"`
	Errors            int64   `json:"errors"`
	HitRatio          float64 `json:"hit_ratio"`
	ConsecutiveErrors int     `json:"consecutive_errors,omitempty"`
	LastError         string  `json:"last_error,omitempty"`
	LastErrorAt       string  `json:"last_error_at,omitempty"`
}

// Status returns current cache counters for health checks.
func (cm *CacheMonitor) Status() CacheStatus {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	status := CacheStatus{
		Healthy: cm.consecutiveErrors <= maxConsecutiveErrors,
		Hits:    cm.hits,
		Misses:  cm.misses,
		Errors:  cm.errors,
	}

	if total := cm.hits + cm.misses; total > 0 {
		status.HitRatio = float64(cm.hits) / float64(total)
	}

	if cm.consecutiveErrors > 0 {
		status.ConsecutiveErrors = cm.consecutiveErrors
		status.LastError = cm.lastError
		status.LastErrorAt = cm.lastErrorAt.Format(time.RFC3339)
	}

	return status
}
