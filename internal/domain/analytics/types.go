// Package analytics folds raw platform records into descriptive
// statistics for student, course, and instructor dashboards.
package analytics

import "time"

// ActivityKind discriminates recent-activity entries.
type ActivityKind string

// Known activity kinds.
const (
	ActivityQuizAttempt ActivityKind = "QUIZ_ATTEMPT"
	ActivityEnrollment  ActivityKind = "COURSE_ENROLLMENT"
)

// Activity is one entry in a student's recent-activity feed.
type Activity struct {
	Kind      ActivityKind `json:"kind"`
	Title     string       `json:"title"`
	CourseID  string       `json:"course_id"`
	QuizID    string       `json:"quiz_id,omitempty"`
	Score     *float64     `json:"score,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// CourseProgress summarizes one of a student's enrollments.
type CourseProgress struct {
	CourseID         string     `json:"course_id"`
	Title            string     `json:"title"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	TimeSpentMinutes int64      `json:"time_spent_minutes"`
	QuizAttempts     int        `json:"quiz_attempts"`
	AverageScore     float64    `json:"average_score"`
	LastAttemptAt    *time.Time `json:"last_attempt_at,omitempty"`
}

// StudentReport is the student analytics view.
type StudentReport struct {
	StudentID            string           `json:"student_id"`
	Courses              []CourseProgress `json:"courses"`
	RecentActivity       []Activity       `json:"recent_activity"`
	OverallScore         float64          `json:"overall_score"`
	TotalQuizAttempts    int              `json:"total_quiz_attempts"`
	TotalCoursesEnrolled int              `json:"total_courses_enrolled"`
	Diagnostics          []string         `json:"diagnostics,omitempty"`
}

// CourseReport is the course analytics view.
type CourseReport struct {
	CourseID      string   `json:"course_id"`
	Title         string   `json:"title"`
	TotalEnrolled int64    `json:"total_enrolled"`
	QuizAttempts  int      `json:"quiz_attempts"`
	AverageScore  float64  `json:"average_score"`
	HasQuizzes    bool     `json:"has_quizzes"`
	Diagnostics   []string `json:"diagnostics,omitempty"`
}

// QuizStats summarizes attempt performance within one course.
type QuizStats struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
	LowestScore   float64 `json:"lowest_score"`
}

// InstructorCourseStats is the per-course block of the instructor view.
type InstructorCourseStats struct {
	CourseID         string    `json:"course_id"`
	Title            string    `json:"title"`
	Enrollments      int       `json:"enrollments"`
	TimeSpentMinutes int64     `json:"time_spent_minutes"`
	QuizStats        QuizStats `json:"quiz_stats"`
}

// PopularCourse is one entry of the instructor's top-courses list.
type PopularCourse struct {
	CourseID     string  `json:"id"`
	Title        string  `json:"title"`
	Enrollments  int     `json:"enrollments"`
	AverageScore float64 `json:"avg_score"`
}

// InstructorReport is the instructor analytics view. Message is set
// instead of statistics when the instructor has no courses.
type InstructorReport struct {
	InstructorID          string                  `json:"instructor_id"`
	TotalStudents         int                     `json:"total_students"`
	TotalCourses          int                     `json:"total_courses"`
	TotalTimeSpentMinutes int64                   `json:"total_time_spent_minutes"`
	AverageTimePerStudent int64                   `json:"average_time_per_student"`
	Courses               []InstructorCourseStats `json:"courses"`
	PopularCourses        []PopularCourse         `json:"popular_courses"`
	Message               string                  `json:"message,omitempty"`
	Diagnostics           []string                `json:"diagnostics,omitempty"`
}
