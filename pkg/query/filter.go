// Package query selects time ranges of a tagged series for display and
// derives the counts shown on the summary cards.
package query

import (
	"time"

	"github.com/nicktill/envmon/pkg/series"
)

// Filter returns the buckets whose WindowEnd lies in [latest-d, latest],
// both ends inclusive, where latest is the newest bucket of s itself and d
// is sel's duration. AllTime returns s unchanged. s is never modified.
func Filter(s series.Series, sel Selector) series.Series {
	if s.Len() == 0 {
		return s
	}

	switch sel {
	case AllTime:
		return s
	case Last24h, Last3d, Last7d:
		return since(s, s.Last().Add(-sel.Duration()))
	default:
		return Filter(s, DefaultSelector)
	}
}

// Bounds returns the time range sel covers on s. For AllTime it is the span
// of the series itself.
func Bounds(s series.Series, sel Selector) (time.Time, time.Time) {
	latest := s.Last()
	if sel == AllTime {
		return s.First(), latest
	}
	return latest.Add(-sel.Duration()), latest
}

// since keeps the suffix of s starting at the first bucket not before cutoff
func since(s series.Series, cutoff time.Time) series.Series {
	return s.Slice(s.SearchFrom(cutoff), s.Len())
}

// OutlierCount returns how many buckets of s are labeled outlier
func OutlierCount(s series.Series) int {
	count := 0
	for i := 0; i < s.Len(); i++ {
		if s.At(i).IsOutlier() {
			count++
		}
	}
	return count
}

// Latest returns the newest bucket of s
func Latest(s series.Series) (series.Bucket, bool) {
	if s.Len() == 0 {
		return series.Bucket{}, false
	}
	return s.At(s.Len() - 1), true
}

// LatestLabel returns the label of the newest bucket. Pass the unfiltered
// series so the status reflects the freshest reading. Empty series are Normal.
func LatestLabel(s series.Series) series.Label {
	b, ok := Latest(s)
	if !ok {
		return series.Normal
	}
	return b.Label
}
