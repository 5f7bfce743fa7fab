package resample

import (
	"time"

	"github.com/nicktill/envmon/pkg/ingest"
	"github.com/nicktill/envmon/pkg/series"
)

// aggregate accumulates the readings of one window
type aggregate struct {
	windowEnd time.Time
	sum       float64
	count     int
	min       float64
	max       float64
}

func (a *aggregate) add(v float64) {
	if a.count == 0 || v < a.min {
		a.min = v
	}
	if a.count == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.count++
}

func (a *aggregate) bucket() series.Bucket {
	return series.Bucket{
		WindowEnd: a.windowEnd,
		Mean:      a.sum / float64(a.count),
		Count:     a.count,
		Min:       a.min,
		Max:       a.max,
		Label:     series.Normal,
	}
}

// ParseReadings parses record timestamps with layout. The first bad
// timestamp fails the whole source.
func ParseReadings(source string, records []ingest.Record, layout string) ([]series.Reading, error) {
	readings := make([]series.Reading, 0, len(records))
	for _, r := range records {
		ts, err := time.Parse(layout, r.Timestamp)
		if err != nil {
			return nil, &ingest.FormatError{
				Source: source,
				Line:   r.Line,
				Detail: err.Error(),
				Err:    ingest.ErrTimestamp,
			}
		}
		readings = append(readings, series.Reading{Timestamp: ts.UTC(), Value: r.Value})
	}
	return readings, nil
}

// Resample groups readings into fixed windows of the given width and
// returns one bucket per non-empty window, labeled by its right edge.
// A non-positive width falls back to DefaultWidth.
func Resample(readings []series.Reading, width time.Duration) series.Series {
	if width <= 0 {
		width = DefaultWidth
	}

	buckets := make(map[int64]*aggregate)
	for _, r := range readings {
		end := WindowEnd(r.Timestamp, width)
		key := end.UnixNano()

		agg, exists := buckets[key]
		if !exists {
			agg = &aggregate{windowEnd: end}
			buckets[key] = agg
		}
		agg.add(r.Value)
	}

	out := make([]series.Bucket, 0, len(buckets))
	for _, agg := range buckets {
		out = append(out, agg.bucket())
	}

	// series.New sorts by WindowEnd
	return series.New(out)
}

// WindowEnd returns the right edge of the window containing t.
// Windows are half-open [k*width, (k+1)*width) counted from the Unix epoch,
// so a timestamp exactly on a boundary starts the next window.
func WindowEnd(t time.Time, width time.Duration) time.Time {
	ns := t.UnixNano()
	w := int64(width)
	k := ns / w
	if ns%w < 0 {
		k-- // floor for pre-epoch timestamps
	}
	return time.Unix(0, (k+1)*w).UTC()
}
