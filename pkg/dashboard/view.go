// Package dashboard builds the per-range views shown in the browser and
// serves them over HTTP and WebSocket.
package dashboard

import (
	"time"

	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/query"
	"github.com/nicktill/envmon/pkg/series"
)

// Point is one plotted bucket. T is the window end in Unix milliseconds.
type Point struct {
	T       int64   `json:"t"`
	V       float64 `json:"v"`
	Outlier bool    `json:"outlier,omitempty"`
}

// Card is the summary tile for one quantity
type Card struct {
	Quantity string `json:"quantity"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`

	// Latest is the newest bucket of the whole series, independent of range
	Latest   *float64     `json:"latest,omitempty"`
	LatestAt string       `json:"latest_at,omitempty"`
	Status   series.Label `json:"status"`

	// Range statistics over the filtered buckets
	Buckets      int     `json:"buckets"`
	OutlierCount int     `json:"outlier_count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`

	Band series.Band `json:"band"`
}

// View is everything the dashboard needs to redraw for one range
type View struct {
	Range    query.Selector     `json:"range"`
	Label    string             `json:"label"`
	LoadedAt string             `json:"loaded_at"`
	Cards    []Card             `json:"cards"`
	Series   map[string][]Point `json:"series,omitempty"`
}

// BuildView filters every quantity of ds to sel and collects cards and points
func BuildView(ds *dataset.Dataset, sel query.Selector) View {
	v := BuildSummary(ds, sel)
	v.Series = make(map[string][]Point, len(v.Cards))
	for _, q := range ds.Quantities() {
		v.Series[q.Slug()] = Points(query.Filter(ds.Series(q), sel))
	}
	return v
}

// BuildSummary is BuildView without the plotted points
func BuildSummary(ds *dataset.Dataset, sel query.Selector) View {
	quantities := ds.Quantities()
	v := View{
		Range:    sel,
		Label:    sel.Label(),
		LoadedAt: ds.LoadedAt().UTC().Format(time.RFC3339),
		Cards:    make([]Card, 0, len(quantities)),
	}
	for _, q := range quantities {
		v.Cards = append(v.Cards, BuildCard(q, ds.Series(q), sel))
	}
	return v
}

// BuildCard summarizes full filtered to sel. Status comes from the newest
// bucket of full so it does not change with the selected range.
func BuildCard(q series.Quantity, full series.Series, sel query.Selector) Card {
	card := Card{
		Quantity: q.Slug(),
		Name:     q.Name(),
		Unit:     q.Unit(),
		Status:   query.LatestLabel(full),
		Band:     full.Band(),
	}

	if b, ok := query.Latest(full); ok {
		latest := b.Mean
		card.Latest = &latest
		card.LatestAt = b.WindowEnd.UTC().Format(time.RFC3339)
	}

	view := query.Filter(full, sel)
	card.Buckets = view.Len()
	card.OutlierCount = query.OutlierCount(view)

	if view.Len() == 0 {
		return card
	}

	card.Min, card.Max = view.At(0).Mean, view.At(0).Mean
	var sum float64
	for i := 0; i < view.Len(); i++ {
		m := view.At(i).Mean
		sum += m
		if m < card.Min {
			card.Min = m
		}
		if m > card.Max {
			card.Max = m
		}
	}
	card.Mean = sum / float64(view.Len())

	return card
}

// Points converts s to plot points
func Points(s series.Series) []Point {
	points := make([]Point, s.Len())
	for i := range points {
		b := s.At(i)
		points[i] = Point{
			T:       b.WindowEnd.UnixMilli(),
			V:       b.Mean,
			Outlier: b.IsOutlier(),
		}
	}
	return points
}
