// Package outlier flags buckets whose mean lies outside a mean ± 3σ band
// computed once over the whole series.
package outlier

import (
	"math"

	"github.com/nicktill/envmon/pkg/series"
)

// Sigma is the band half-width in standard deviations
const Sigma = 3.0

// ComputeBand returns the threshold band over the bucket means.
// Uses the sample standard deviation (N-1). With fewer than two buckets the
// band is disabled.
func ComputeBand(s series.Series) series.Band {
	n := s.Len()
	if n < 2 {
		var band series.Band
		if n == 1 {
			band.Mean = s.At(0).Mean
		}
		return band
	}

	mean, std := meanStd(s)
	return series.Band{
		Mean:    mean,
		StdDev:  std,
		Low:     mean - Sigma*std,
		High:    mean + Sigma*std,
		Enabled: true,
	}
}

// Tag returns a copy of s with every bucket labeled against the band of the
// full series. Labels never change afterwards, whatever view is taken of s.
func Tag(s series.Series) series.Series {
	band := ComputeBand(s)

	labels := make([]series.Label, s.Len())
	for i := range labels {
		labels[i] = Classify(band, s.At(i).Mean)
	}
	return s.WithBand(band, labels)
}

// Classify labels a single value against band
func Classify(band series.Band, v float64) series.Label {
	if band.Contains(v) {
		return series.Normal
	}
	return series.Outlier
}

func meanStd(s series.Series) (float64, float64) {
	n := s.Len()

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.At(i).Mean
	}
	mean := sum / float64(n)

	sumSq := 0.0
	for i := 0; i < n; i++ {
		d := s.At(i).Mean - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / float64(n-1))
}
