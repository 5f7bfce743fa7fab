package monitor

import (
	"errors"
	"testing"
)

func TestCacheMonitor_Counters(t *testing.T) {
	cm := &CacheMonitor{}
	cm.RecordMiss()
	cm.RecordHit()
	cm.RecordHit()
	cm.RecordHit()

	status := cm.Status()
	if status.Hits != 3 || status.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 3/1", status.Hits, status.Misses)
	}
	if status.HitRatio != 0.75 {
		t.Errorf("HitRatio = %v, want 0.75", status.HitRatio)
	}
	if !status.Healthy {
		t.Error("Status should be healthy")
	}
}

func TestCacheMonitor_ZeroValue(t *testing.T) {
	cm := &CacheMonitor{}
	status := cm.Status()
	if !status.Healthy {
		t.Error("Fresh monitor should be healthy")
	}
	if status.HitRatio != 0 {
		t.Errorf("HitRatio = %v, want 0", status.HitRatio)
	}
}

func TestCacheMonitor_RecordError(t *testing.T) {
	cm := &CacheMonitor{}
	cm.RecordError(errors.New("badger closed"))

	status := cm.Status()
	if status.Errors != 1 || status.ConsecutiveErrors != 1 {
		t.Errorf("Errors/ConsecutiveErrors = %d/%d, want 1/1", status.Errors, status.ConsecutiveErrors)
	}
	if status.LastError != "badger closed" {
		t.Errorf("LastError = %q, want %q", status.LastError, "badger closed")
	}
	if status.LastErrorAt == "" {
		t.Error("LastErrorAt should be set")
	}
}

func TestCacheMonitor_IsHealthy(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		recover  bool
		want     bool
	}{
		{"no failures", 0, false, true},
		{"at threshold", 3, false, true},
		{"over threshold", 4, false, false},
		{"recovered by hit", 10, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := &CacheMonitor{}
			for i := 0; i < tt.failures; i++ {
				cm.RecordError(errors.New("fail"))
			}
			if tt.recover {
				cm.RecordHit()
			}
			if got := cm.IsHealthy(); got != tt.want {
				t.Errorf("IsHealthy() = %v, want %v", got, tt.want)
			}
			if got := cm.Status().Healthy; got != tt.want {
				t.Errorf("Status().Healthy = %v, want %v", got, tt.want)
			}
		})
	}
}
