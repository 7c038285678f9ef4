package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyEnrolled = errors.New("student already enrolled")
	ErrNotEnrolled     = errors.New("student not enrolled")
)
