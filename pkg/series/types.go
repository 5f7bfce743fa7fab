package series

import (
	"encoding/json"
	"fmt"
	"time"
)

// Label marks a bucket as normal or outlier
type Label int

const (
	Normal Label = iota
	Outlier
)

// String returns the lowercase label name
func (l Label) String() string {
	switch l {
	case Normal:
		return "normal"
	case Outlier:
		return "outlier"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// MarshalJSON encodes the label as its name
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a label name
func (l *Label) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "normal":
		*l = Normal
	case "outlier":
		*l = Outlier
	default:
		return fmt.Errorf("unknown label %q", name)
	}
	return nil
}

// Reading is a single raw sample from a CSV row
type Reading struct {
	Timestamp time.Time
	Value     float64
}

// Bucket aggregates all readings that fall in one resample window.
// WindowEnd is the right edge of the window and labels the bucket.
type Bucket struct {
	WindowEnd time.Time `json:"window_end"`
	Mean      float64   `json:"mean"`
	Count     int       `json:"count"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Label     Label     `json:"label"`
}

// IsOutlier reports whether the bucket was tagged as an outlier
func (b Bucket) IsOutlier() bool {
	return b.Label == Outlier
}

// Band is the outlier threshold computed over a whole series
type Band struct {
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	Enabled bool    `json:"enabled"`
}

// Contains reports whether v lies inside the band. A disabled band contains everything.
func (b Band) Contains(v float64) bool {
	if !b.Enabled {
		return true
	}
	return v >= b.Low && v <= b.High
}
