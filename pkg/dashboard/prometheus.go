package dashboard

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/nicktill/envmon/pkg/query"
	"github.com/nicktill/envmon/pkg/series"
)

// HandlePrometheusMetrics exports the loaded dataset in Prometheus text format
// so an external Prometheus or Grafana can scrape it.
//
// Format: https://prometheus.io/docs/instrumenting/exposition_formats/
func (h *Handler) HandlePrometheusMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	families := []struct {
		name, help, typ string
		value           func(q series.Quantity, s series.Series) (float64, bool)
	}{
		{"envmon_buckets", "Resampled buckets loaded per quantity", "gauge",
			func(_ series.Quantity, s series.Series) (float64, bool) { return float64(s.Len()), true }},
		{"envmon_outliers", "Buckets tagged as outliers per quantity", "gauge",
			func(_ series.Quantity, s series.Series) (float64, bool) { return float64(query.OutlierCount(s)), true }},
		{"envmon_latest_value", "Mean of the newest bucket", "gauge",
			func(_ series.Quantity, s series.Series) (float64, bool) {
				b, ok := query.Latest(s)
				return b.Mean, ok
			}},
		{"envmon_latest_outlier", "1 if the newest bucket is an outlier", "gauge",
			func(_ series.Quantity, s series.Series) (float64, bool) {
				if query.LatestLabel(s) == series.Outlier {
					return 1, true
				}
				return 0, true
			}},
		{"envmon_band_low", "Lower outlier threshold (mean - 3 sigma)", "gauge",
			func(_ series.Quantity, s series.Series) (float64, bool) { return s.Band().Low, s.Band().Enabled }},
		{"envmon_band_high", "Upper outlier threshold (mean + 3 sigma)", "gauge",
			func(_ series.Quantity, s series.Series) (float64, bool) { return s.Band().High, s.Band().Enabled }},
	}

	for _, f := range families {
		fmt.Fprintf(w, "# HELP %s %s\n", f.name, f.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", f.name, f.typ)
		for _, q := range h.ds.Quantities() {
			v, ok := f.value(q, h.ds.Series(q))
			if !ok {
				continue
			}
			writeSample(w, f.name, map[string]string{"quantity": q.Slug(), "unit": q.Unit()}, v)
		}
		fmt.Fprintf(w, "\n")
	}

	status := h.monitor.Status()
	counters := []struct {
		name, help string
		value      int64
	}{
		{"envmon_chart_cache_hits_total", "Charts served from the render cache", status.Hits},
		{"envmon_chart_cache_misses_total", "Charts rendered on demand", status.Misses},
		{"envmon_chart_cache_errors_total", "Render cache read or write failures", status.Errors},
	}
	for _, c := range counters {
		fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
		writeSample(w, c.name, nil, float64(c.value))
		fmt.Fprintf(w, "\n")
	}
}

func writeSample(w io.Writer, name string, labels map[string]string, v float64) {
	fmt.Fprintf(w, "%s%s %v\n", name, formatPrometheusLabels(labels), v)
}

// formatPrometheusLabels formats labels as {key="value",key2="value2"}
func formatPrometheusLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf(`%s="%s"`, k, escapePrometheusValue(labels[k])))
	}

	return "{" + strings.Join(pairs, ",") + "}"
}

// escapePrometheusValue escapes backslash, double-quote and line feed
func escapePrometheusValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
