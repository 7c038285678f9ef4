// Package types contains common types used across the application
package types

// RecommendationResult is the ordered recommendation list for a student.
// Diagnostics carries messages about upstream collections that could not
// be fetched; the list itself is then computed from partial data.
type RecommendationResult struct {
	StudentID   string   `json:"student_id"`
	CourseIDs   []string `json:"course_ids"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}
