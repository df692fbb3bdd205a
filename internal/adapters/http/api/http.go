// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/salesdeck/pulse/internal/adapters/llm"
	service "github.com/salesdeck/pulse/internal/app"
	"github.com/salesdeck/pulse/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ResolveRange validates request date parameters into a range.
	ResolveRange(startDate, endDate string, days int) (model.DateRange, error)

	// MetricsData assembles reconciled rows for a range.
	MetricsData(ctx context.Context, dateRange model.DateRange) (service.MetricsData, error)

	// Ask answers a natural-language question about the data.
	Ask(ctx context.Context, query string) (service.Answer, error)

	// Users lists active dialer accounts.
	Users(ctx context.Context) (service.UsersData, error)
}

// Response shapes mirror the service layer.
type (
	MetricsData = service.MetricsData
	Answer      = service.Answer
	UsersData   = service.UsersData
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	metricsDataHandler *MetricsDataHandler
	askHandler         *AskHandler
	usersHandler       *UsersHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		metricsDataHandler: NewMetricsDataHandler(deps),
		askHandler:         NewAskHandler(deps),
		usersHandler:       NewUsersHandler(deps),
		dashboardHandler:   newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/metrics-data", MetricsMiddleware(s.metricsDataHandler.HandleGetMetricsData, "metrics-data"))
	mux.HandleFunc("/api/ask", MetricsMiddleware(s.askHandler.HandlePostAsk, "ask"))
	mux.HandleFunc("/api/users", MetricsMiddleware(s.usersHandler.HandleGetUsers, "users"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// ModelResponse carries the model's raw text when JSON extraction
	// failed, so callers can see what it actually said.
	ModelResponse string `json:"modelResponse,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service-layer failures to HTTP status
// codes: caller mistakes to 400, model extraction failures to 422,
// upstream outages to 502, everything else to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var extractionErr *llm.ExtractionError

	switch {
	case errors.Is(err, service.ErrInvalidRange), errors.Is(err, service.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.As(err, &extractionErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:          "extraction_failed",
			Message:       err.Error(),
			ModelResponse: extractionErr.Raw,
		})
	case errors.Is(err, llm.ErrExtraction):
		writeError(w, http.StatusUnprocessableEntity, "extraction_failed", err)
	case errors.Is(err, service.ErrVendorUnavailable), errors.Is(err, llm.ErrCompletion):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
