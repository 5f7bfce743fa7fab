package render

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/nicktill/envmon/pkg/outlier"
	"github.com/nicktill/envmon/pkg/series"
)

func testSeries(values ...float64) series.Series {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]series.Bucket, len(values))
	for i, v := range values {
		buckets[i] = series.Bucket{
			WindowEnd: base.Add(time.Duration(i+1) * 5 * time.Minute),
			Mean:      v,
			Count:     1,
		}
	}
	return outlier.Tag(series.New(buckets))
}

func spiky() series.Series {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 400 + float64(i%5)
	}
	values[20] = 2000
	return testSeries(values...)
}

func TestScatterChart_SVG(t *testing.T) {
	out, err := ScatterChart(ChartOptions{
		Title:  "CO2",
		Unit:   "ppm",
		Series: spiky(),
	})
	if err != nil {
		t.Fatalf("ScatterChart failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("<svg")) {
		t.Errorf("Expected SVG output, got %q", out[:min(20, len(out))])
	}
	if !bytes.Contains(out, []byte("CO2 (ppm)")) {
		t.Error("Expected the title in the SVG")
	}
}

func TestScatterChart_PNG(t *testing.T) {
	out, err := ScatterChart(ChartOptions{
		Title:  "Humidity",
		Series: spiky(),
		Width:  400,
		Height: 200,
		Format: PNG,
	})
	if err != nil {
		t.Fatalf("ScatterChart failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Error("Expected PNG output")
	}
}

func TestScatterChart_Edges(t *testing.T) {
	tests := []struct {
		name string
		s    series.Series
	}{
		{"single point", testSeries(21.5)},
		{"flat", testSeries(5, 5, 5, 5)},
		{"zero flat", testSeries(0, 0)},
		{"negative", testSeries(-10, -12, -11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ScatterChart(ChartOptions{Title: tt.name, Series: tt.s}); err != nil {
				t.Errorf("ScatterChart failed: %v", err)
			}
		})
	}
}

func TestScatterChart_ExplicitBounds(t *testing.T) {
	s := testSeries(1, 2, 3)
	_, err := ScatterChart(ChartOptions{
		Title:  "Temperature",
		Series: s,
		From:   s.Last().Add(-24 * time.Hour),
		To:     s.Last(),
	})
	if err != nil {
		t.Fatalf("ScatterChart failed: %v", err)
	}
}

func TestScatterChart_NoData(t *testing.T) {
	_, err := ScatterChart(ChartOptions{Title: "empty"})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestPadRange(t *testing.T) {
	tests := []struct {
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{0, 100, -5, 105},
		{10, 10, 9, 11},
		{1000, 1000, 950, 1050},
	}
	for _, tt := range tests {
		lo, hi := padRange(tt.lo, tt.hi)
		if lo != tt.wantLo || hi != tt.wantHi {
			t.Errorf("padRange(%v, %v) = %v, %v; want %v, %v", tt.lo, tt.hi, lo, hi, tt.wantLo, tt.wantHi)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"svg", SVG},
		{"PNG", PNG},
		{".png", PNG},
		{"", SVG},
		{"gif", SVG},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if PNG.ContentType() != "image/png" || SVG.ContentType() != "image/svg+xml" {
		t.Error("Unexpected content types")
	}
}
