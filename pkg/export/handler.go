package export

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/httpx"
	"github.com/nicktill/envmon/pkg/query"
	"github.com/nicktill/envmon/pkg/series"
)

// Handler handles export HTTP endpoints
type Handler struct {
	ds *dataset.Dataset
}

// NewHandler creates a new export handler
func NewHandler(ds *dataset.Dataset) *Handler {
	return &Handler{ds: ds}
}

// HandleExport handles GET /v1/export/{quantity}
// Query params:
//   - format: "json" or "csv" (default: json)
//   - range: 24h, 3d, 7d or all (default: 24h)
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["quantity"]
	q, ok := series.ParseQuantity(name)
	if !ok {
		httpx.RespondErrorString(w, http.StatusNotFound, fmt.Sprintf("unknown quantity %q", name))
		return
	}

	params := r.URL.Query()

	format := params.Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		httpx.RespondErrorString(w, http.StatusBadRequest, "Invalid format. Must be 'json' or 'csv'")
		return
	}

	sel := query.ParseSelector(params.Get("range"))
	full := h.ds.Series(q)

	filename := fmt.Sprintf("envmon-%s-%s.%s", q.Slug(), sel, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	var result *Result
	var err error
	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		result, err = ExportJSON(w, q, sel, full)
	} else {
		w.Header().Set("Content-Type", "text/csv")
		result, err = ExportCSV(w, q, sel, full)
	}

	if err != nil {
		// Headers are already sent, so only log
		log.Printf("Export of %s failed: %v", q.Slug(), err)
		return
	}

	log.Printf("Exported %d %s buckets (%s, %s)", result.BucketsExported, q.Slug(), format, sel)
}
