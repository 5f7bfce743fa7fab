package query

import (
	"strings"
	"time"
)

// Selector is one of the named dashboard time ranges
type Selector int

const (
	Last24h Selector = iota
	Last3d
	Last7d
	AllTime
)

// Selectors lists every selector from narrowest to widest
var Selectors = []Selector{Last24h, Last3d, Last7d, AllTime}

// DefaultSelector is used when no or an unknown range is requested
const DefaultSelector = Last24h

// Duration returns the window length. AllTime has no bound and returns 0.
func (s Selector) Duration() time.Duration {
	switch s {
	case Last24h:
		return 24 * time.Hour
	case Last3d:
		return 3 * 24 * time.Hour
	case Last7d:
		return 7 * 24 * time.Hour
	case AllTime:
		return 0
	default:
		return DefaultSelector.Duration()
	}
}

// String returns the short name used in URLs and WebSocket messages
func (s Selector) String() string {
	switch s {
	case Last24h:
		return "24h"
	case Last3d:
		return "3d"
	case Last7d:
		return "7d"
	case AllTime:
		return "all"
	default:
		return DefaultSelector.String()
	}
}

// Label returns the button caption
func (s Selector) Label() string {
	switch s {
	case Last24h:
		return "Last 24 hours"
	case Last3d:
		return "Last 3 days"
	case Last7d:
		return "Last 7 days"
	case AllTime:
		return "All time"
	default:
		return DefaultSelector.Label()
	}
}

// MarshalText encodes the selector by its short name
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText never fails: unknown names decode to DefaultSelector
func (s *Selector) UnmarshalText(text []byte) error {
	*s = ParseSelector(string(text))
	return nil
}

// ParseSelector maps a range name to a selector. Empty or unknown input
// yields DefaultSelector.
func ParseSelector(name string) Selector {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "24h", "1d", "day", "last24h":
		return Last24h
	case "3d", "72h", "last3d":
		return Last3d
	case "7d", "1w", "week", "168h", "last7d":
		return Last7d
	case "all", "alltime", "all-time", "max":
		return AllTime
	default:
		return DefaultSelector
	}
}
