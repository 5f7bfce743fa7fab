// Package dataset loads the three sensor files once at startup and keeps the
// resampled, outlier-tagged series for the lifetime of the process.
package dataset

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/ingest"
	"github.com/nicktill/envmon/pkg/outlier"
	"github.com/nicktill/envmon/pkg/resample"
	"github.com/nicktill/envmon/pkg/series"
)

// Paths holds one CSV file per quantity
type Paths struct {
	CO2         string
	Temperature string
	Humidity    string
}

// Path returns the file configured for q
func (p Paths) Path(q series.Quantity) string {
	switch q {
	case series.CO2:
		return p.CO2
	case series.Temperature:
		return p.Temperature
	case series.Humidity:
		return p.Humidity
	default:
		return ""
	}
}

// Options tunes resampling
type Options struct {
	// Window is the bucket width (0 = config.DefaultWindow)
	Window time.Duration

	// TimestampLayout overrides the timestamp format ("" = config.TimestampLayout)
	TimestampLayout string
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = config.DefaultWindow
	}
	if o.TimestampLayout == "" {
		o.TimestampLayout = config.TimestampLayout
	}
	return o
}

// Dataset is the read-only set of tagged series. Safe for concurrent use.
type Dataset struct {
	series   map[series.Quantity]series.Series
	window   time.Duration
	loadedAt time.Time
}

// Load reads, resamples and tags every quantity. The first bad file fails
// the whole load.
func Load(paths Paths, opts Options) (*Dataset, error) {
	opts = opts.withDefaults()

	all := make(map[series.Quantity]series.Series, len(series.Quantities))
	for _, q := range series.Quantities {
		path := paths.Path(q)
		if path == "" {
			return nil, fmt.Errorf("%s: %w: no file configured", q.Name(), ingest.ErrUnreadable)
		}

		start := time.Now()
		records, err := ingest.LoadCSV(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.Name(), err)
		}

		s, err := Prepare(path, records, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.Name(), err)
		}

		all[q] = s
		log.Printf("Loaded %s from %s: %d rows → %d buckets, %d outliers (%v)",
			q.Name(), path, len(records), s.Len(), countOutliers(s), time.Since(start).Round(time.Millisecond))
	}

	return New(all, opts.Window), nil
}

// Prepare turns raw records into a tagged series
func Prepare(source string, records []ingest.Record, opts Options) (series.Series, error) {
	opts = opts.withDefaults()

	readings, err := resample.ParseReadings(source, records, opts.TimestampLayout)
	if err != nil {
		return series.Series{}, err
	}

	return outlier.Tag(resample.Resample(readings, opts.Window)), nil
}

// New wraps already tagged series. Missing quantities are treated as empty.
func New(all map[series.Quantity]series.Series, window time.Duration) *Dataset {
	cp := make(map[series.Quantity]series.Series, len(series.Quantities))
	for _, q := range series.Quantities {
		cp[q] = all[q]
	}
	return &Dataset{
		series:   cp,
		window:   window,
		loadedAt: time.Now(),
	}
}

// Series returns the full tagged series for q
func (d *Dataset) Series(q series.Quantity) series.Series {
	return d.series[q]
}

// Quantities lists the quantities held, in display order
func (d *Dataset) Quantities() []series.Quantity {
	return append([]series.Quantity(nil), series.Quantities...)
}

// Window returns the bucket width used at load time
func (d *Dataset) Window() time.Duration {
	return d.window
}

// LoadedAt returns when the dataset was built
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Fingerprint identifies the loaded contents for render cache keys. It
// hashes every bucket and band, so any change to a loaded value yields a
// new fingerprint.
func (d *Dataset) Fingerprint() string {
	h := xxhash.New()
	buf := make([]byte, 8)
	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf, v)
		h.Write(buf)
	}
	writeFloat := func(v float64) {
		writeUint(math.Float64bits(v))
	}

	writeUint(uint64(d.window))
	for _, q := range series.Quantities {
		s := d.series[q]
		h.WriteString(q.Slug())
		writeUint(uint64(s.Len()))

		band := s.Band()
		writeFloat(band.Low)
		writeFloat(band.High)
		if band.Enabled {
			writeUint(1)
		} else {
			writeUint(0)
		}

		for i := 0; i < s.Len(); i++ {
			b := s.At(i)
			writeUint(uint64(b.WindowEnd.UnixNano()))
			writeFloat(b.Mean)
			writeUint(uint64(b.Count))
			writeFloat(b.Min)
			writeFloat(b.Max)
			writeUint(uint64(b.Label))
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func countOutliers(s series.Series) int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		if s.At(i).IsOutlier() {
			n++
		}
	}
	return n
}
