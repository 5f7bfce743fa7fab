package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/dataset"
	"github.com/nicktill/envmon/pkg/httpx"
	"github.com/nicktill/envmon/pkg/query"
	"github.com/nicktill/envmon/pkg/render"
	"github.com/nicktill/envmon/pkg/series"
	"github.com/nicktill/envmon/pkg/server/monitor"
	"github.com/nicktill/envmon/pkg/storage"
)

// Handler serves dashboard data. cache may be nil to render every request.
type Handler struct {
	ds      *dataset.Dataset
	cache   storage.Storage
	monitor *monitor.CacheMonitor
}

// NewHandler creates a dashboard handler
func NewHandler(ds *dataset.Dataset, cache storage.Storage, mon *monitor.CacheMonitor) *Handler {
	if mon == nil {
		mon = &monitor.CacheMonitor{}
	}
	return &Handler{
		ds:      ds,
		cache:   cache,
		monitor: mon,
	}
}

// SeriesResponse is the payload of GET /v1/series/{quantity}
type SeriesResponse struct {
	Range  query.Selector `json:"range"`
	Card   Card           `json:"card"`
	Points []Point        `json:"points"`
}

// HandleSeries handles GET /v1/series/{quantity}?range=
func (h *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	q, ok := h.quantity(w, r)
	if !ok {
		return
	}
	sel := selector(r)
	full := h.ds.Series(q)

	httpx.RespondJSONWithETag(w, r, SeriesResponse{
		Range:  sel,
		Card:   BuildCard(q, full, sel),
		Points: Points(query.Filter(full, sel)),
	})
}

// HandleSummary handles GET /v1/summary?range=
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSONWithETag(w, r, BuildSummary(h.ds, selector(r)))
}

// HandleView handles GET /v1/view?range=, the same payload the WebSocket sends
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSONWithETag(w, r, BuildView(h.ds, selector(r)))
}

// HandleChart handles GET /v1/charts/{quantity}.{format}?range=&width=&height=
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	q, ok := h.quantity(w, r)
	if !ok {
		return
	}

	sel := selector(r)
	format := render.ParseFormat(mux.Vars(r)["format"])
	width := chartSize(r.URL.Query().Get("width"), config.ChartDefaultWidth)
	height := chartSize(r.URL.Query().Get("height"), config.ChartDefaultHeight)

	body, err := h.Chart(r.Context(), q, sel, format, width, height)
	if errors.Is(err, render.ErrNoData) {
		httpx.RespondErrorString(w, http.StatusNotFound, fmt.Sprintf("no %s data loaded", q.Name()))
		return
	}
	if err != nil {
		log.Printf("Failed to render %s chart: %v", q.Slug(), err)
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}

	httpx.RespondBytes(w, r, format.ContentType(), body)
}

// Chart returns the rendered scatter plot for q over sel, from the render
// cache when possible.
func (h *Handler) Chart(ctx context.Context, q series.Quantity, sel query.Selector, format render.Format, width, height int) ([]byte, error) {
	key := storage.MakeKey("chart", h.ds.Fingerprint(), q.Slug(), sel.String(),
		format.String(), strconv.Itoa(width), strconv.Itoa(height))

	if body, ok := h.cached(ctx, key); ok {
		return body, nil
	}

	full := h.ds.Series(q)
	from, to := query.Bounds(full, sel)

	body, err := render.ScatterChart(render.ChartOptions{
		Title:  q.Name(),
		Unit:   q.Unit(),
		Series: query.Filter(full, sel),
		From:   from,
		To:     to,
		Width:  width,
		Height: height,
		Format: format,
	})
	if err != nil {
		return nil, err
	}

	h.store(ctx, key, body)
	return body, nil
}

// Prerender fills the render cache with the default-size chart of every
// quantity and range. Quantities without data are skipped.
func (h *Handler) Prerender(ctx context.Context, format render.Format) (int, error) {
	if h.cache == nil {
		return 0, nil
	}

	rendered := 0
	for _, q := range h.ds.Quantities() {
		for _, sel := range query.Selectors {
			if err := ctx.Err(); err != nil {
				return rendered, err
			}
			_, err := h.Chart(ctx, q, sel, format, config.ChartDefaultWidth, config.ChartDefaultHeight)
			if errors.Is(err, render.ErrNoData) {
				break
			}
			if err != nil {
				return rendered, fmt.Errorf("%s %s: %w", q.Slug(), sel, err)
			}
			rendered++
		}
	}
	return rendered, nil
}

// cached looks up a rendered chart. Cache failures count as misses.
func (h *Handler) cached(ctx context.Context, key storage.Key) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, config.CacheTimeout)
	defer cancel()

	body, err := h.cache.Get(ctx, key)
	switch {
	case err == nil:
		h.monitor.RecordHit()
		return body, true
	case errors.Is(err, storage.ErrNotFound):
		h.monitor.RecordMiss()
	default:
		log.Printf("Render cache read failed: %v", err)
		h.monitor.RecordError(err)
	}
	return nil, false
}

func (h *Handler) store(ctx context.Context, key storage.Key, body []byte) {
	if h.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, config.CacheTimeout)
	defer cancel()

	if err := h.cache.Put(ctx, key, body); err != nil {
		log.Printf("Render cache write failed: %v", err)
		h.monitor.RecordError(err)
	}
}

// quantity resolves the {quantity} route variable, writing a 404 if unknown
func (h *Handler) quantity(w http.ResponseWriter, r *http.Request) (series.Quantity, bool) {
	name := mux.Vars(r)["quantity"]
	q, ok := series.ParseQuantity(name)
	if !ok {
		httpx.RespondErrorString(w, http.StatusNotFound, fmt.Sprintf("unknown quantity %q", name))
	}
	return q, ok
}

// selector reads ?range=, falling back to the default range
func selector(r *http.Request) query.Selector {
	return query.ParseSelector(r.URL.Query().Get("range"))
}

// chartSize parses a width or height, clamped to the allowed chart sizes
func chartSize(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return max(config.ChartMinSize, min(n, config.ChartMaxSize))
}
