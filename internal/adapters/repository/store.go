// Package repository defines the snapshot store interface and errors.
//
// The store stands in for the platform's persistence layer: the engine
// core never queries a database, it reads point-in-time snapshots of the
// raw collections. Reads return copies; callers may hold results across
// concurrent writes and observe an accepted weakly-consistent view.
package repository

import (
	"context"
	"time"

	"github.com/skillforge/engine/internal/domain/model"
)

// Reader is the read surface consumed by the engine core.
type Reader interface {
	// ListAttemptsForStudent returns the student's quiz attempts in
	// recording order.
	ListAttemptsForStudent(ctx context.Context, studentID string) ([]model.QuizAttempt, error)

	// ListAttemptsForCourse returns all attempts linked to the course.
	ListAttemptsForCourse(ctx context.Context, courseID string) ([]model.QuizAttempt, error)

	// ListEnrollmentsForStudent returns all enrollment rows for the
	// student, historical rows included.
	ListEnrollmentsForStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)

	// ListEnrollmentsForCourse returns all enrollment rows for the course.
	ListEnrollmentsForCourse(ctx context.Context, courseID string) ([]model.Enrollment, error)

	// ListFeedbackForCourse returns all feedback rows for the course.
	ListFeedbackForCourse(ctx context.Context, courseID string) ([]model.Feedback, error)

	// ListAllCourses returns the course catalog in creation order.
	ListAllCourses(ctx context.Context) ([]model.Course, error)

	// ListCoursesForInstructor returns the courses owned by the instructor.
	ListCoursesForInstructor(ctx context.Context, instructorID string) ([]model.Course, error)

	// GetCourse returns the course or ErrCourseNotFound.
	GetCourse(ctx context.Context, courseID string) (model.Course, error)

	// GetUser returns the user or ErrUserNotFound.
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// Writer is the ingestion surface used by the worker pool.
type Writer interface {
	// AddCourse registers a course, assigning an ID when missing.
	AddCourse(ctx context.Context, course model.Course) (model.Course, error)

	// AddUser registers a user, assigning an ID when missing.
	AddUser(ctx context.Context, user model.User) (model.User, error)

	// RecordAttempt stores an immutable quiz attempt. An attempt
	// referencing an unknown course is stored with its course link
	// cleared so downstream folds skip it.
	RecordAttempt(ctx context.Context, attempt model.QuizAttempt) (model.QuizAttempt, error)

	// RecordEnrollment opens an enrollment. Returns ErrAlreadyEnrolled
	// if the student already has an active enrollment in the course.
	RecordEnrollment(ctx context.Context, studentID, courseID string, at time.Time) (model.Enrollment, error)

	// RecordUnenrollment closes the active enrollment. Returns
	// ErrNotEnrolled if there is none.
	RecordUnenrollment(ctx context.Context, studentID, courseID string, at time.Time) error

	// RecordFeedback stores course-level feedback.
	RecordFeedback(ctx context.Context, feedback model.Feedback) (model.Feedback, error)
}

// Counts reports record totals for monitoring.
type Counts struct {
	Courses     int
	Users       int
	Attempts    int
	Enrollments int
	Feedback    int
}

// Store combines both surfaces.
type Store interface {
	Reader
	Writer

	// Counts returns current record totals.
	Counts(ctx context.Context) Counts
}
