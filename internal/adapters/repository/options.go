// Package repository defines the snapshot store interface and errors.
package repository

import "github.com/skillforge/engine/internal/domain/model"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCourses seeds the catalog. Courses without IDs are skipped; the
// ingestion path is the place to mint IDs.
func WithCourses(courses []model.Course) Option {
	return func(s *MemStore) {
		for _, course := range courses {
			if course.ID == "" {
				continue
			}
			if _, exists := s.courses[course.ID]; !exists {
				s.courseOrder = append(s.courseOrder, course.ID)
			}
			s.courses[course.ID] = course
		}
	}
}

// WithUsers seeds the user table. Users without IDs are skipped.
func WithUsers(users []model.User) Option {
	return func(s *MemStore) {
		for _, user := range users {
			if user.ID == "" {
				continue
			}
			s.users[user.ID] = user
		}
	}
}
