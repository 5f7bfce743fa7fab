package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/outlier"
	"github.com/nicktill/envmon/pkg/query"
	"github.com/nicktill/envmon/pkg/series"
	"github.com/stretchr/testify/require"
)

var end = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

// fiveDays has hourly buckets over five days with a spike in the newest one
func fiveDays() series.Series {
	hours := 5 * 24
	buckets := make([]series.Bucket, hours)
	for i := range buckets {
		v := 45.5
		if i == hours-1 {
			v = 99
		}
		buckets[i] = series.Bucket{
			WindowEnd: end.Add(-time.Duration(hours-1-i) * time.Hour),
			Mean:      v,
			Count:     12,
			Min:       v - 1,
			Max:       v + 1,
		}
	}
	return outlier.Tag(series.New(buckets))
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	result, err := ExportCSV(&buf, series.Humidity, query.Last24h, fiveDays())
	require.NoError(t, err)
	require.Equal(t, 25, result.BucketsExported)
	require.Equal(t, "csv", result.Format)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 26)
	require.Equal(t, CSVHeader, rows[0])
	require.Equal(t, []string{"2024-06-29T12:00:00Z", "45.5", "12", "44.5", "46.5", "normal"}, rows[1])
	require.Equal(t, []string{"2024-06-30T12:00:00Z", "99", "12", "98", "100", "outlier"}, rows[25])
}

func TestExportCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	result, err := ExportCSV(&buf, series.CO2, query.AllTime, series.Series{})
	require.NoError(t, err)
	require.Zero(t, result.BucketsExported)
	require.Empty(t, result.TimeRange)
	require.Equal(t, "window_end,mean_value,count,min,max,label\n", buf.String())
}

func TestExportJSON(t *testing.T) {
	full := fiveDays()

	var buf bytes.Buffer
	result, err := ExportJSON(&buf, series.Humidity, query.Last3d, full)
	require.NoError(t, err)
	require.Equal(t, 73, result.BucketsExported)

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Equal(t, "humidity", doc.Metadata.Quantity)
	require.Equal(t, "%", doc.Metadata.Unit)
	require.Equal(t, query.Last3d, doc.Metadata.Range)
	require.Equal(t, 73, doc.Metadata.BucketCount)
	require.Equal(t, 1, doc.Metadata.OutlierCount)
	require.True(t, doc.Metadata.EndTime.Equal(end))
	require.True(t, doc.Metadata.StartTime.Equal(end.Add(-72*time.Hour)))
	require.Equal(t, full.Band(), doc.Metadata.Band)
	require.Equal(t, Version, doc.Metadata.Version)

	require.Len(t, doc.Buckets, 73)
	require.Equal(t, series.Outlier, doc.Buckets[72].Label)
}

func TestExportJSON_EmptyHasBucketArray(t *testing.T) {
	var buf bytes.Buffer
	_, err := ExportJSON(&buf, series.CO2, query.Last24h, series.Series{})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"buckets": []`)
}

func newRouter() *mux.Router {
	ds := dataset.New(map[series.Quantity]series.Series{series.Humidity: fiveDays()}, time.Hour)
	router := mux.NewRouter()
	router.HandleFunc("/v1/export/{quantity}", NewHandler(ds).HandleExport).Methods("GET")
	return router
}

func TestHandleExport(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name        string
		target      string
		status      int
		contentType string
		filename    string
	}{
		{"default json", "/v1/export/humidity", http.StatusOK, "application/json", "envmon-humidity-24h.json"},
		{"csv all", "/v1/export/rh?format=csv&range=all", http.StatusOK, "text/csv", "envmon-humidity-all.csv"},
		{"bad format", "/v1/export/humidity?format=xml", http.StatusBadRequest, "application/json", ""},
		{"unknown quantity", "/v1/export/pressure", http.StatusNotFound, "application/json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, tt.status, rr.Code)
			require.Equal(t, tt.contentType, rr.Header().Get("Content-Type"))
			if tt.filename != "" {
				require.Equal(t, "attachment; filename="+tt.filename, rr.Header().Get("Content-Disposition"))
			}
		})
	}
}

func TestHandleExport_CSVBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/export/humidity?format=csv&range=7d", nil)
	rr := httptest.NewRecorder()
	newRouter().ServeHTTP(rr, req)

	rows, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 121) // header + every bucket of the five days
}
