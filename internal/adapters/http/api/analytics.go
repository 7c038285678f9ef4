// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// AnalyticsHandler handles the three analytics views.
type AnalyticsHandler struct {
	deps Dependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Dependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// HandleGetAnalytics handles GET /analytics/{view}/{id} requests, where
// view is one of student, course, or instructor.
func (h *AnalyticsHandler) HandleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/analytics/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	view, id := parts[0], parts[1]

	switch view {
	case "student":
		report, err := h.deps.StudentAnalytics(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	case "course":
		report, err := h.deps.CourseAnalytics(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	case "instructor":
		report, err := h.deps.InstructorAnalytics(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}
