package service

import "errors"

// Sentinel kinds for request validation. The HTTP layer maps these to
// status codes with errors.Is.
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrNotStudent         = errors.New("user is not a student")
	ErrCourseNotFound     = errors.New("course not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrNotInstructor      = errors.New("user is not an instructor")
)
