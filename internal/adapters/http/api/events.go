// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/engine/internal/domain/model"
)

// eventRequest mirrors the wire schema for POST /events.
type eventRequest struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	TS      string `json:"ts"`

	UserID   string `json:"user_id"`
	CourseID string `json:"course_id"`
	QuizID   string `json:"quiz_id"`

	Score  *float64 `json:"score"`
	Rating *float64 `json:"rating"`
	Text   string   `json:"text"`

	Title string `json:"title"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// validate checks the fields each event type requires.
func (e eventRequest) validate() error {
	switch model.EventType(e.Type) {
	case model.EventCourseCreated:
		if strings.TrimSpace(e.Title) == "" {
			return errors.New("missing title")
		}
	case model.EventUserRegistered:
		if strings.TrimSpace(e.Name) == "" {
			return errors.New("missing name")
		}
		switch model.Role(e.Role) {
		case model.RoleStudent, model.RoleInstructor:
		default:
			return errors.New("invalid role")
		}
	case model.EventQuizAttempt:
		switch {
		case strings.TrimSpace(e.UserID) == "":
			return errors.New("missing user_id")
		case strings.TrimSpace(e.QuizID) == "":
			return errors.New("missing quiz_id")
		case strings.TrimSpace(e.CourseID) == "":
			return errors.New("missing course_id")
		}
	case model.EventEnrollment, model.EventUnenrollment:
		switch {
		case strings.TrimSpace(e.UserID) == "":
			return errors.New("missing user_id")
		case strings.TrimSpace(e.CourseID) == "":
			return errors.New("missing course_id")
		}
	case model.EventFeedback:
		switch {
		case strings.TrimSpace(e.UserID) == "":
			return errors.New("missing user_id")
		case strings.TrimSpace(e.CourseID) == "":
			return errors.New("missing course_id")
		}
		if e.Rating == nil && strings.TrimSpace(e.Text) == "" {
			return errors.New("feedback requires a rating or text")
		}
		if e.Rating != nil && (*e.Rating < 1 || *e.Rating > 5) {
			return errors.New("rating must be between 1 and 5")
		}
	default:
		return errors.New("unknown event type")
	}
	return nil
}

// EventsHandler handles event ingestion requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, ErrBadRequest, err))
		return
	}
	occurredAt, err := parseTS(req.TS)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, ErrBadRequest, err))
		return
	}

	// Events without an explicit ID get a fresh one; such events are
	// never treated as duplicates.
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		eventID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), eventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", EventID: eventID, Duplicate: true})
		return
	}

	event := model.Event{
		EventID:    eventID,
		Type:       model.EventType(req.Type),
		OccurredAt: occurredAt,
		UserID:     req.UserID,
		CourseID:   req.CourseID,
		QuizID:     req.QuizID,
		Score:      req.Score,
		Rating:     req.Rating,
		Text:       req.Text,
		Title:      req.Title,
		Name:       req.Name,
		Role:       req.Role,
	}

	if ok := h.deps.Enqueue(r.Context(), event); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), eventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", Wrap(op, ErrBackpressure, nil))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EventID: eventID})
}
