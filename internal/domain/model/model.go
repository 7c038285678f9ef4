// Package model contains domain models passed between layers.
package model

import "time"

// Role classifies platform users.
type Role string

// Known user roles.
const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
)

// User is a platform account. Only the fields the engine reads are kept;
// credentials and profile data live in the external persistence layer.
type User struct {
	ID   string
	Name string
	Role Role
}

// Course is a catalog entry. Popularity and feedback aggregates are always
// derived per request, never stored on the entity.
type Course struct {
	ID           string
	Title        string
	InstructorID string
}

// QuizAttempt is one graded (or ungraded) quiz submission. Immutable once
// recorded. CourseID is the resolved quiz->course link; an empty CourseID
// marks a link that could not be resolved and the attempt is skipped by
// every aggregation.
type QuizAttempt struct {
	ID           string
	StudentID    string
	QuizID       string
	CourseID     string
	Score        *float64 // nil when the attempt was never graded
	AttemptedAt  time.Time
	FeedbackText string // optional free text left with the attempt
}

// Enrollment is one enrollment interval. UnenrolledAt == nil means the
// student is currently enrolled. A student has at most one active
// enrollment per course at a time, but historical rows may repeat.
type Enrollment struct {
	ID           string
	StudentID    string
	CourseID     string
	EnrolledAt   time.Time
	UnenrolledAt *time.Time
}

// Active reports whether the enrollment is currently open.
func (e Enrollment) Active() bool {
	return e.UnenrolledAt == nil
}

// Feedback is course-level feedback left by a user.
type Feedback struct {
	ID       string
	CourseID string
	UserID   string
	Rating   *float64 // 1..5, nil when the user left comments only
	Comments string
}

// EventType discriminates ingestion events.
type EventType string

// Event types accepted by the ingestion pipeline.
const (
	EventCourseCreated  EventType = "course_created"
	EventUserRegistered EventType = "user_registered"
	EventQuizAttempt    EventType = "quiz_attempt"
	EventEnrollment     EventType = "enrollment"
	EventUnenrollment   EventType = "unenrollment"
	EventFeedback       EventType = "feedback"
)

// Event is a raw platform record submitted by clients. Fields are sparsely
// populated depending on Type; the worker validates what it needs.
type Event struct {
	EventID    string // unique id for idempotency
	Type       EventType
	OccurredAt time.Time

	UserID   string
	CourseID string
	QuizID   string

	Score  *float64 // quiz_attempt
	Rating *float64 // feedback
	Text   string   // attempt feedback text or feedback comments

	Title string // course_created
	Name  string // user_registered
	Role  string // user_registered
}
