package dashboard

import (
	"time"

	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/outlier"
	"github.com/nicktill/envmon/pkg/series"
)

var end = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

// hourly builds one tagged bucket per hour ending at end, oldest first
func hourly(hours int, value func(i int) float64) series.Series {
	buckets := make([]series.Bucket, hours)
	for i := range buckets {
		v := value(i)
		buckets[i] = series.Bucket{
			WindowEnd: end.Add(-time.Duration(hours-1-i) * time.Hour),
			Mean:      v,
			Count:     1,
			Min:       v,
			Max:       v,
		}
	}
	return outlier.Tag(series.New(buckets))
}

// testDataset has ten days of data with one CO2 spike five days back and a
// temperature spike in the newest bucket. Humidity is empty.
func testDataset() *dataset.Dataset {
	hours := 10 * 24
	co2 := hourly(hours, func(i int) float64 {
		if i == hours-1-5*24 {
			return 5000
		}
		return 400 + float64(i%3)
	})
	temp := hourly(hours, func(i int) float64 {
		if i == hours-1 {
			return 90
		}
		return 21
	})
	return dataset.New(map[series.Quantity]series.Series{
		series.CO2:         co2,
		series.Temperature: temp,
	}, time.Hour)
}
