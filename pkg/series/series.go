// Package series holds the immutable bucketed time series shared by the
// resampler, the outlier tagger and the range filter.
package series

import (
	"sort"
	"time"
)

// Series is an ordered, read-only sequence of buckets sorted by WindowEnd.
// The zero value is an empty series.
type Series struct {
	buckets []Bucket
	band    Band
}

// New builds a series from buckets. The input is copied and sorted by
// WindowEnd, so callers may reuse their slice.
func New(buckets []Bucket) Series {
	cp := make([]Bucket, len(buckets))
	copy(cp, buckets)
	sort.Slice(cp, func(i, j int) bool {
		return cp[i].WindowEnd.Before(cp[j].WindowEnd)
	})
	return Series{buckets: cp}
}

// Len returns the number of buckets
func (s Series) Len() int {
	return len(s.buckets)
}

// At returns the i-th bucket
func (s Series) At(i int) Bucket {
	return s.buckets[i]
}

// Buckets returns a copy of the buckets
func (s Series) Buckets() []Bucket {
	cp := make([]Bucket, len(s.buckets))
	copy(cp, s.buckets)
	return cp
}

// Band returns the outlier band the series was tagged with
func (s Series) Band() Band {
	return s.band
}

// WithBand returns a copy of the series whose buckets carry the given labels.
// labels must have one entry per bucket.
func (s Series) WithBand(band Band, labels []Label) Series {
	cp := make([]Bucket, len(s.buckets))
	copy(cp, s.buckets)
	for i := range cp {
		cp[i].Label = labels[i]
	}
	return Series{buckets: cp, band: band}
}

// Slice returns the view of buckets [i, j). The view shares storage with s
// but cannot grow into it.
func (s Series) Slice(i, j int) Series {
	return Series{buckets: s.buckets[i:j:j], band: s.band}
}

// First returns the earliest WindowEnd, or the zero time for an empty series
func (s Series) First() time.Time {
	if len(s.buckets) == 0 {
		return time.Time{}
	}
	return s.buckets[0].WindowEnd
}

// Last returns the latest WindowEnd, or the zero time for an empty series
func (s Series) Last() time.Time {
	if len(s.buckets) == 0 {
		return time.Time{}
	}
	return s.buckets[len(s.buckets)-1].WindowEnd
}

// SearchFrom returns the index of the first bucket whose WindowEnd is not before t
func (s Series) SearchFrom(t time.Time) int {
	return sort.Search(len(s.buckets), func(i int) bool {
		return !s.buckets[i].WindowEnd.Before(t)
	})
}

// Equal reports whether two series hold the same buckets and band
func (s Series) Equal(o Series) bool {
	if len(s.buckets) != len(o.buckets) || s.band != o.band {
		return false
	}
	for i := range s.buckets {
		a, b := s.buckets[i], o.buckets[i]
		if !a.WindowEnd.Equal(b.WindowEnd) || a.Mean != b.Mean || a.Count != b.Count ||
			a.Min != b.Min || a.Max != b.Max || a.Label != b.Label {
			return false
		}
	}
	return true
}
