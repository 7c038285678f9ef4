// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/skillforge/engine/internal/domain/analytics"
	"github.com/skillforge/engine/internal/domain/dedupe"
	"github.com/skillforge/engine/internal/domain/model"
	"github.com/skillforge/engine/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a raw platform event for async application.
	// Returns false on backpressure.
	Enqueue(ctx context.Context, e model.Event) bool

	// Recommend returns the ordered course list for a student.
	Recommend(ctx context.Context, studentID string) (types.RecommendationResult, error)

	// Analytics views.
	StudentAnalytics(ctx context.Context, studentID string) (analytics.StudentReport, error)
	CourseAnalytics(ctx context.Context, courseID string) (analytics.CourseReport, error)
	InstructorAnalytics(ctx context.Context, instructorID string) (analytics.InstructorReport, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	eventsHandler          *EventsHandler
	recommendationsHandler *RecommendationsHandler
	analyticsHandler       *AnalyticsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		eventsHandler:          NewEventsHandler(deps),
		recommendationsHandler: NewRecommendationsHandler(deps),
		analyticsHandler:       NewAnalyticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/analytics/", MetricsMiddleware(s.analyticsHandler.HandleGetAnalytics, "analytics"))
}

type ackResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// pathParam extracts the single path segment after prefix, or "" when the
// path is malformed.
func pathParam(path, prefix string) string {
	param := strings.TrimPrefix(path, prefix)
	if param == "" || strings.Contains(param, "/") {
		return ""
	}
	return param
}

// parseTS parses an RFC3339 timestamp, tolerating an empty value by
// substituting the current time.
func parseTS(ts string) (time.Time, error) {
	if strings.TrimSpace(ts) == "" {
		return time.Now().UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, errors.New("invalid ts; must be RFC3339")
	}
	return parsed, nil
}
