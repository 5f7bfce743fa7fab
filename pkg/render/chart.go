// Package render draws dashboard scatter plots with go-chart.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/series"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to plot
var ErrNoData = errors.New("render: no data in range")

var (
	normalColor  = chart.ColorBlue
	outlierColor = chart.ColorRed
	bandColor    = drawing.ColorFromHex("999999")
)

// ChartOptions describes one scatter plot
type ChartOptions struct {
	Title string
	Unit  string

	// Series holds the buckets to plot, already filtered to the range
	Series series.Series

	// From and To bound the X axis. Zero values use the series span.
	From time.Time
	To   time.Time

	Width  int
	Height int
	Format Format
}

// pointStyle renders points only, no connecting line
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func bandStyle() chart.Style {
	return chart.Style{
		StrokeColor:     bandColor,
		StrokeWidth:     1,
		StrokeDashArray: []float64{5, 5},
	}
}

// ScatterChart renders one point per bucket: normal buckets in blue, outliers
// in red, and dashed lines at the outlier band when it is enabled.
func ScatterChart(opts ChartOptions) ([]byte, error) {
	s := opts.Series
	if s.Len() == 0 {
		return nil, ErrNoData
	}

	var normalX, outlierX []time.Time
	var normalY, outlierY []float64
	minY, maxY := math.Inf(1), math.Inf(-1)

	for i := 0; i < s.Len(); i++ {
		b := s.At(i)
		if b.IsOutlier() {
			outlierX = append(outlierX, b.WindowEnd)
			outlierY = append(outlierY, b.Mean)
		} else {
			normalX = append(normalX, b.WindowEnd)
			normalY = append(normalY, b.Mean)
		}
		minY = math.Min(minY, b.Mean)
		maxY = math.Max(maxY, b.Mean)
	}

	from, to := xBounds(opts.From, opts.To, s)

	var plotted []chart.Series
	if len(normalX) > 0 {
		plotted = append(plotted, chart.TimeSeries{
			Name:    "normal",
			XValues: normalX,
			YValues: normalY,
			Style:   pointStyle(normalColor),
		})
	}
	if len(outlierX) > 0 {
		plotted = append(plotted, chart.TimeSeries{
			Name:    "outlier",
			XValues: outlierX,
			YValues: outlierY,
			Style:   pointStyle(outlierColor),
		})
	}

	band := s.Band()
	if band.Enabled {
		minY = math.Min(minY, band.Low)
		maxY = math.Max(maxY, band.High)
		plotted = append(plotted,
			chart.TimeSeries{
				Name:    "mean + 3σ",
				XValues: []time.Time{from, to},
				YValues: []float64{band.High, band.High},
				Style:   bandStyle(),
			},
			chart.TimeSeries{
				Name:    "mean - 3σ",
				XValues: []time.Time{from, to},
				YValues: []float64{band.Low, band.Low},
				Style:   bandStyle(),
			},
		)
	}

	yMin, yMax := padRange(minY, maxY)

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = config.ChartDefaultWidth
	}
	if height <= 0 {
		height = config.ChartDefaultHeight
	}

	title := opts.Title
	if opts.Unit != "" {
		title = fmt.Sprintf("%s (%s)", opts.Title, opts.Unit)
	}

	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat(timeLayout(to.Sub(from))),
			Range:          &chart.ContinuousRange{Min: timeToFloat(from), Max: timeToFloat(to)},
		},
		YAxis: chart.YAxis{
			Name:  opts.Unit,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: plotted,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.SVG
	if opts.Format == PNG {
		provider = chart.PNG
	}

	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", opts.Title, err)
	}
	return buf.Bytes(), nil
}

// xBounds picks the X axis span, widening it when it would be empty
func xBounds(from, to time.Time, s series.Series) (time.Time, time.Time) {
	if from.IsZero() {
		from = s.First()
	}
	if to.IsZero() {
		to = s.Last()
	}
	if !to.After(from) {
		from = from.Add(-5 * time.Minute)
		to = to.Add(5 * time.Minute)
	}
	return from, to
}

// padRange adds a 5% margin and widens flat ranges
func padRange(lo, hi float64) (float64, float64) {
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.05, 1)
		return lo - pad, hi + pad
	}
	margin := (hi - lo) * 0.05
	return lo - margin, hi + margin
}

func timeLayout(span time.Duration) string {
	switch {
	case span <= 36*time.Hour:
		return "15:04"
	case span <= 8*24*time.Hour:
		return "Jan 2 15:04"
	default:
		return "2006-01-02"
	}
}

func timeToFloat(t time.Time) float64 {
	return float64(t.UnixNano())
}
