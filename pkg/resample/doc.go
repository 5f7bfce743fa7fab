/*
Package resample turns raw sensor readings into fixed-width time buckets.

# Windows

Readings are grouped into half-open windows counted from the Unix epoch and each
window is labeled by its right edge. With the default 5 minute width:

	reading at 12:00:00  → bucket 12:05:00
	reading at 12:04:59  → bucket 12:05:00
	reading at 12:05:00  → bucket 12:10:00

Each bucket keeps the mean of its readings together with count, min and max.
Windows with no readings produce no bucket, so gaps in the data stay gaps.

# Usage

	records, err := ingest.LoadCSV("data/co2.csv")
	if err != nil {
	    return err
	}
	readings, err := resample.ParseReadings("co2", records, config.TimestampLayout)
	if err != nil {
	    return err
	}
	s := resample.Resample(readings, resample.DefaultWidth)
*/
package resample

import "github.com/nicktill/envmon/pkg/config"

// DefaultWidth is the bucket width used when none is configured
const DefaultWidth = config.DefaultWindow
