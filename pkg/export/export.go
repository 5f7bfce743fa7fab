package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nicktill/envmon/pkg/query"
	"github.com/nicktill/envmon/pkg/series"
)

// Version of the JSON export layout
const Version = "1.0"

// CSVHeader is the first row of every CSV export
var CSVHeader = []string{"window_end", "mean_value", "count", "min", "max", "label"}

// Result contains stats about the export
type Result struct {
	Quantity        string    `json:"quantity"`
	BucketsExported int       `json:"buckets_exported"`
	TimeRange       string    `json:"time_range"`
	Format          string    `json:"format"`
	ExportedAt      time.Time `json:"exported_at"`
}

// Metadata heads a JSON export
type Metadata struct {
	ExportedAt   time.Time      `json:"exported_at"`
	Quantity     string         `json:"quantity"`
	Unit         string         `json:"unit"`
	Range        query.Selector `json:"range"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	BucketCount  int            `json:"bucket_count"`
	OutlierCount int            `json:"outlier_count"`
	Band         series.Band    `json:"band"`
	Version      string         `json:"version"`
}

// Document is the full JSON export
type Document struct {
	Metadata Metadata        `json:"metadata"`
	Buckets  []series.Bucket `json:"buckets"`
}

// ExportJSON writes the buckets of full that fall in sel as indented JSON
func ExportJSON(w io.Writer, q series.Quantity, sel query.Selector, full series.Series) (*Result, error) {
	view := query.Filter(full, sel)

	doc := Document{
		Metadata: Metadata{
			ExportedAt:   time.Now().UTC(),
			Quantity:     q.Slug(),
			Unit:         q.Unit(),
			Range:        sel,
			BucketCount:  view.Len(),
			OutlierCount: query.OutlierCount(view),
			Band:         full.Band(),
			Version:      Version,
		},
		Buckets: view.Buckets(),
	}
	if view.Len() > 0 {
		doc.Metadata.StartTime = view.First()
		doc.Metadata.EndTime = view.Last()
	}
	if doc.Buckets == nil {
		doc.Buckets = []series.Bucket{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	return newResult(q, view, "json", doc.Metadata.ExportedAt), nil
}

// ExportCSV writes the buckets of full that fall in sel as CSV
func ExportCSV(w io.Writer, q series.Quantity, sel query.Selector, full series.Series) (*Result, error) {
	view := query.Filter(full, sel)

	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := 0; i < view.Len(); i++ {
		b := view.At(i)
		row := []string{
			b.WindowEnd.UTC().Format(time.RFC3339),
			strconv.FormatFloat(b.Mean, 'f', -1, 64),
			strconv.Itoa(b.Count),
			strconv.FormatFloat(b.Min, 'f', -1, 64),
			strconv.FormatFloat(b.Max, 'f', -1, 64),
			b.Label.String(),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return newResult(q, view, "csv", time.Now().UTC()), nil
}

func newResult(q series.Quantity, view series.Series, format string, at time.Time) *Result {
	result := &Result{
		Quantity:        q.Slug(),
		BucketsExported: view.Len(),
		Format:          format,
		ExportedAt:      at,
	}
	if view.Len() > 0 {
		result.TimeRange = fmt.Sprintf("%s to %s", view.First().Format(time.RFC3339), view.Last().Format(time.RFC3339))
	}
	return result
}
