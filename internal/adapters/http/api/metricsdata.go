// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// MetricsDataHandler handles dashboard data requests.
type MetricsDataHandler struct {
	deps Dependencies
}

// NewMetricsDataHandler creates a new metrics data handler.
func NewMetricsDataHandler(deps Dependencies) *MetricsDataHandler {
	return &MetricsDataHandler{deps: deps}
}

// HandleGetMetricsData handles GET /api/metrics-data requests.
//
// The range comes from startDate/endDate (YYYY-MM-DD, both required
// together) or from days (a recent lookback). With neither, a default
// lookback applies.
func (h *MetricsDataHandler) HandleGetMetricsData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	startDate := q.Get("startDate")
	endDate := q.Get("endDate")
	if (startDate == "") != (endDate == "") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrPartialRange)
		return
	}

	days := 0
	if raw := q.Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadDays)
			return
		}
		days = parsed
	}

	dateRange, err := h.deps.ResolveRange(startDate, endDate, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, err := h.deps.MetricsData(r.Context(), dateRange)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
