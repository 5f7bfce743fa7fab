package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/series"
)

// profile shapes one synthetic quantity: a daily sine around base plus noise
type profile struct {
	base      float64
	amplitude float64
	noise     float64
	spike     float64
	decimals  int
}

var profiles = map[series.Quantity]profile{
	series.CO2:         {base: 600, amplitude: 150, noise: 15, spike: 2500, decimals: 0},
	series.Temperature: {base: 21.5, amplitude: 2.5, noise: 0.2, spike: 38, decimals: 2},
	series.Humidity:    {base: 45, amplitude: 8, noise: 1, spike: 95, decimals: 1},
}

// spikeLength is how many consecutive readings a spike lasts
const spikeLength = 10

// generateOptions controls the synthetic data
type generateOptions struct {
	End      time.Time
	Span     time.Duration
	Interval time.Duration

	// SpikeEvery starts a spike every this many readings (0 = none)
	SpikeEvery int
	Seed       int64
}

// generate writes headerless timestamp,value rows for q, oldest first
func generate(w io.Writer, q series.Quantity, opts generateOptions) (int, error) {
	p, ok := profiles[q]
	if !ok {
		return 0, fmt.Errorf("no profile for %s", q)
	}
	if opts.Interval <= 0 || opts.Span <= 0 {
		return 0, fmt.Errorf("interval and span must be positive")
	}

	rng := rand.New(rand.NewSource(opts.Seed + int64(q)))
	writer := csv.NewWriter(w)

	start := opts.End.Add(-opts.Span).UTC()
	n := int(opts.Span / opts.Interval)
	for i := 0; i <= n; i++ {
		ts := start.Add(time.Duration(i) * opts.Interval)

		dayFraction := float64(ts.Hour()*3600+ts.Minute()*60+ts.Second()) / 86400
		v := p.base + p.amplitude*math.Sin(2*math.Pi*dayFraction) + rng.NormFloat64()*p.noise
		if opts.SpikeEvery > 0 && i >= opts.SpikeEvery && i%opts.SpikeEvery < spikeLength {
			v = p.spike
		}

		row := []string{ts.Format(config.TimestampLayout), strconv.FormatFloat(v, 'f', p.decimals, 64)}
		if err := writer.Write(row); err != nil {
			return i, err
		}
	}

	writer.Flush()
	return n + 1, writer.Error()
}
