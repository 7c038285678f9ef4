package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/engine/internal/domain/model"
)

// MemStore implements Store with mutex-protected in-memory collections.
// Slices keep recording order; reads hand out copies so callers always
// see a stable snapshot.
type MemStore struct {
	mu sync.RWMutex

	courses     map[string]model.Course
	courseOrder []string
	users       map[string]model.User
	attempts    []model.QuizAttempt
	enrollments []model.Enrollment
	feedback    []model.Feedback
}

// NewMemStore creates an empty store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		courses: make(map[string]model.Course),
		users:   make(map[string]model.User),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListAttemptsForStudent returns the student's attempts in recording order.
func (s *MemStore) ListAttemptsForStudent(_ context.Context, studentID string) ([]model.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.QuizAttempt
	for i := range s.attempts {
		if s.attempts[i].StudentID == studentID {
			out = append(out, s.attempts[i])
		}
	}
	return out, nil
}

// ListAttemptsForCourse returns all attempts linked to the course.
func (s *MemStore) ListAttemptsForCourse(_ context.Context, courseID string) ([]model.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.QuizAttempt
	for i := range s.attempts {
		if s.attempts[i].CourseID == courseID {
			out = append(out, s.attempts[i])
		}
	}
	return out, nil
}

// ListEnrollmentsForStudent returns all enrollment rows for the student.
func (s *MemStore) ListEnrollmentsForStudent(_ context.Context, studentID string) ([]model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Enrollment
	for i := range s.enrollments {
		if s.enrollments[i].StudentID == studentID {
			out = append(out, cloneEnrollment(s.enrollments[i]))
		}
	}
	return out, nil
}

// ListEnrollmentsForCourse returns all enrollment rows for the course.
func (s *MemStore) ListEnrollmentsForCourse(_ context.Context, courseID string) ([]model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Enrollment
	for i := range s.enrollments {
		if s.enrollments[i].CourseID == courseID {
			out = append(out, cloneEnrollment(s.enrollments[i]))
		}
	}
	return out, nil
}

// ListFeedbackForCourse returns all feedback rows for the course.
func (s *MemStore) ListFeedbackForCourse(_ context.Context, courseID string) ([]model.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Feedback
	for i := range s.feedback {
		if s.feedback[i].CourseID == courseID {
			out = append(out, s.feedback[i])
		}
	}
	return out, nil
}

// ListAllCourses returns the catalog in creation order.
func (s *MemStore) ListAllCourses(_ context.Context) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Course, 0, len(s.courseOrder))
	for _, id := range s.courseOrder {
		out = append(out, s.courses[id])
	}
	return out, nil
}

// ListCoursesForInstructor returns the instructor's courses in creation order.
func (s *MemStore) ListCoursesForInstructor(_ context.Context, instructorID string) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Course
	for _, id := range s.courseOrder {
		if s.courses[id].InstructorID == instructorID {
			out = append(out, s.courses[id])
		}
	}
	return out, nil
}

// GetCourse returns the course or ErrCourseNotFound.
func (s *MemStore) GetCourse(_ context.Context, courseID string) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[courseID]
	if !ok {
		return model.Course{}, ErrCourseNotFound
	}
	return course, nil
}

// GetUser returns the user or ErrUserNotFound.
func (s *MemStore) GetUser(_ context.Context, userID string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

// AddCourse registers a course, assigning an ID when missing.
func (s *MemStore) AddCourse(_ context.Context, course model.Course) (model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if _, exists := s.courses[course.ID]; !exists {
		s.courseOrder = append(s.courseOrder, course.ID)
	}
	s.courses[course.ID] = course
	return course, nil
}

// AddUser registers a user, assigning an ID when missing.
func (s *MemStore) AddUser(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
	return user, nil
}

// RecordAttempt stores an immutable quiz attempt. The course link is
// cleared when the referenced course is unknown, so aggregations skip
// the attempt instead of inventing a course bucket.
func (s *MemStore) RecordAttempt(_ context.Context, attempt model.QuizAttempt) (model.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if _, known := s.courses[attempt.CourseID]; !known {
		attempt.CourseID = ""
	}
	s.attempts = append(s.attempts, attempt)
	return attempt, nil
}

// RecordEnrollment opens an enrollment, enforcing the at-most-one-active
// toggle per student and course.
func (s *MemStore) RecordEnrollment(_ context.Context, studentID, courseID string, at time.Time) (model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.courses[courseID]; !known {
		return model.Enrollment{}, ErrCourseNotFound
	}
	if s.activeEnrollmentIndex(studentID, courseID) >= 0 {
		return model.Enrollment{}, ErrAlreadyEnrolled
	}

	enrollment := model.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: at,
	}
	s.enrollments = append(s.enrollments, enrollment)
	return enrollment, nil
}

// RecordUnenrollment closes the active enrollment.
func (s *MemStore) RecordUnenrollment(_ context.Context, studentID, courseID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.activeEnrollmentIndex(studentID, courseID)
	if idx < 0 {
		return ErrNotEnrolled
	}
	closedAt := at
	s.enrollments[idx].UnenrolledAt = &closedAt
	return nil
}

// RecordFeedback stores course-level feedback.
func (s *MemStore) RecordFeedback(_ context.Context, feedback model.Feedback) (model.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	s.feedback = append(s.feedback, feedback)
	return feedback, nil
}

// Counts returns current record totals.
func (s *MemStore) Counts(_ context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Counts{
		Courses:     len(s.courses),
		Users:       len(s.users),
		Attempts:    len(s.attempts),
		Enrollments: len(s.enrollments),
		Feedback:    len(s.feedback),
	}
}

// activeEnrollmentIndex finds the open enrollment row, or -1. Must hold s.mu.
func (s *MemStore) activeEnrollmentIndex(studentID, courseID string) int {
	for i := range s.enrollments {
		e := &s.enrollments[i]
		if e.StudentID == studentID && e.CourseID == courseID && e.UnenrolledAt == nil {
			return i
		}
	}
	return -1
}

// cloneEnrollment deep-copies the nullable UnenrolledAt so callers cannot
// alias store-internal state.
func cloneEnrollment(e model.Enrollment) model.Enrollment {
	if e.UnenrolledAt != nil {
		closedAt := *e.UnenrolledAt
		e.UnenrolledAt = &closedAt
	}
	return e
}
