// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/skillforge/engine/internal/app"
)

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps Dependencies
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps Dependencies) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

// HandleGetRecommendations handles GET /recommendations/{student_id} requests.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	studentID := pathParam(r.URL.Path, "/recommendations/")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	result, err := h.deps.Recommend(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeServiceError maps service-level sentinel errors onto HTTP status
// codes. Anything unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrInstructorNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNotStudent),
		errors.Is(err, service.ErrNotInstructor):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
