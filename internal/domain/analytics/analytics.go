// Package analytics folds raw platform records into descriptive
// statistics for student, course, and instructor dashboards.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/skillforge/engine/internal/domain/model"
)

// Feed limits for the recent-activity view.
const (
	recentAttemptLimit    = 10
	recentEnrollmentLimit = 5
	activityFeedLimit     = 10
	popularCourseLimit    = 3
)

// Aggregator computes the three analytics views. It is stateless apart
// from the clock; every call is an independent fold over the snapshot
// collections handed in by the caller.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// timeSpentMinutes returns the wall-clock minutes an enrollment was
// active, using now for still-open enrollments, clamped to >= 0.
func (a *Aggregator) timeSpentMinutes(e *model.Enrollment) int64 {
	end := a.now()
	if e.UnenrolledAt != nil {
		end = *e.UnenrolledAt
	}
	minutes := int64(end.Sub(e.EnrolledAt).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// StudentReport builds the student view: one CourseProgress per
// enrollment, a merged recent-activity feed, and overall totals.
// courseTitles maps course IDs to titles; enrollments referencing a
// course missing from the map still appear, with an empty title.
func (a *Aggregator) StudentReport(
	studentID string,
	enrollments []model.Enrollment,
	attempts []model.QuizAttempt,
	courseTitles map[string]string,
) StudentReport {
	attemptsByCourse := make(map[string][]model.QuizAttempt)
	for i := range attempts {
		if attempts[i].CourseID == "" {
			continue
		}
		attemptsByCourse[attempts[i].CourseID] = append(attemptsByCourse[attempts[i].CourseID], attempts[i])
	}

	courses := make([]CourseProgress, 0, len(enrollments))
	activeCount := 0
	for i := range enrollments {
		enrollment := &enrollments[i]
		if enrollment.CourseID == "" {
			continue
		}
		if enrollment.Active() {
			activeCount++
		}

		courseAttempts := attemptsByCourse[enrollment.CourseID]
		progress := CourseProgress{
			CourseID:         enrollment.CourseID,
			Title:            courseTitles[enrollment.CourseID],
			EnrolledAt:       enrollment.EnrolledAt,
			TimeSpentMinutes: a.timeSpentMinutes(enrollment),
			QuizAttempts:     len(courseAttempts),
			AverageScore:     roundScore(averageScore(courseAttempts)),
		}
		if last := lastAttemptTime(courseAttempts); !last.IsZero() {
			lastCopy := last
			progress.LastAttemptAt = &lastCopy
		}
		courses = append(courses, progress)
	}

	return StudentReport{
		StudentID:            studentID,
		Courses:              courses,
		RecentActivity:       a.recentActivity(attempts, enrollments, courseTitles),
		OverallScore:         averageScore(attempts),
		TotalQuizAttempts:    len(attempts),
		TotalCoursesEnrolled: activeCount,
	}
}

// recentActivity merges the most recent attempts and enrollments into one
// feed, newest first, truncated to the feed limit.
func (a *Aggregator) recentActivity(
	attempts []model.QuizAttempt,
	enrollments []model.Enrollment,
	courseTitles map[string]string,
) []Activity {
	sortedAttempts := append([]model.QuizAttempt(nil), attempts...)
	sort.SliceStable(sortedAttempts, func(i, j int) bool {
		return sortedAttempts[i].AttemptedAt.After(sortedAttempts[j].AttemptedAt)
	})
	if len(sortedAttempts) > recentAttemptLimit {
		sortedAttempts = sortedAttempts[:recentAttemptLimit]
	}

	sortedEnrollments := append([]model.Enrollment(nil), enrollments...)
	sort.SliceStable(sortedEnrollments, func(i, j int) bool {
		return sortedEnrollments[i].EnrolledAt.After(sortedEnrollments[j].EnrolledAt)
	})
	if len(sortedEnrollments) > recentEnrollmentLimit {
		sortedEnrollments = sortedEnrollments[:recentEnrollmentLimit]
	}

	feed := make([]Activity, 0, len(sortedAttempts)+len(sortedEnrollments))
	for i := range sortedAttempts {
		attempt := &sortedAttempts[i]
		feed = append(feed, Activity{
			Kind:      ActivityQuizAttempt,
			Title:     courseTitles[attempt.CourseID],
			CourseID:  attempt.CourseID,
			QuizID:    attempt.QuizID,
			Score:     attempt.Score,
			Timestamp: attempt.AttemptedAt,
		})
	}
	for i := range sortedEnrollments {
		enrollment := &sortedEnrollments[i]
		feed = append(feed, Activity{
			Kind:      ActivityEnrollment,
			Title:     courseTitles[enrollment.CourseID],
			CourseID:  enrollment.CourseID,
			Timestamp: enrollment.EnrolledAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if len(feed) > activityFeedLimit {
		feed = feed[:activityFeedLimit]
	}
	return feed
}

// CourseReport builds the course view over the course's own records.
func (a *Aggregator) CourseReport(
	course model.Course,
	enrollments []model.Enrollment,
	attempts []model.QuizAttempt,
) CourseReport {
	var active int64
	for i := range enrollments {
		if enrollments[i].Active() {
			active++
		}
	}

	return CourseReport{
		CourseID:      course.ID,
		Title:         course.Title,
		TotalEnrolled: active,
		QuizAttempts:  len(attempts),
		AverageScore:  roundScore(averageScore(attempts)),
		HasQuizzes:    len(attempts) > 0,
	}
}

// InstructorReport builds the instructor view over the instructor's
// courses. Records referencing unresolved students are skipped; an
// instructor with no courses gets a structured no-data message instead
// of an error.
func (a *Aggregator) InstructorReport(
	instructorID string,
	courses []model.Course,
	enrollmentsByCourse map[string][]model.Enrollment,
	attemptsByCourse map[string][]model.QuizAttempt,
) InstructorReport {
	if len(courses) == 0 {
		return InstructorReport{
			InstructorID:   instructorID,
			Message:        "no courses found for this instructor",
			Courses:        []InstructorCourseStats{},
			PopularCourses: []PopularCourse{},
		}
	}

	uniqueStudents := make(map[string]bool)
	stats := make([]InstructorCourseStats, 0, len(courses))
	var totalMinutes int64

	for i := range courses {
		course := &courses[i]
		enrollmentCount := 0
		var courseMinutes int64

		for _, enrollment := range enrollmentsByCourse[course.ID] {
			if enrollment.StudentID == "" {
				continue
			}
			uniqueStudents[enrollment.StudentID] = true
			enrollmentCount++
			courseMinutes += a.timeSpentMinutes(&enrollment)
		}

		stats = append(stats, InstructorCourseStats{
			CourseID:         course.ID,
			Title:            course.Title,
			Enrollments:      enrollmentCount,
			TimeSpentMinutes: courseMinutes,
			QuizStats:        quizStats(attemptsByCourse[course.ID]),
		})
		totalMinutes += courseMinutes
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Enrollments > stats[j].Enrollments
	})

	popular := make([]PopularCourse, 0, popularCourseLimit)
	for i := 0; i < len(stats) && i < popularCourseLimit; i++ {
		popular = append(popular, PopularCourse{
			CourseID:     stats[i].CourseID,
			Title:        stats[i].Title,
			Enrollments:  stats[i].Enrollments,
			AverageScore: stats[i].QuizStats.AverageScore,
		})
	}

	totalStudents := len(uniqueStudents)
	var avgPerStudent int64
	if totalStudents > 0 {
		avgPerStudent = int64(math.Round(float64(totalMinutes) / float64(totalStudents)))
	}

	return InstructorReport{
		InstructorID:          instructorID,
		TotalStudents:         totalStudents,
		TotalCourses:          len(courses),
		TotalTimeSpentMinutes: totalMinutes,
		AverageTimePerStudent: avgPerStudent,
		Courses:               stats,
		PopularCourses:        popular,
	}
}

// quizStats folds graded attempts into summary statistics. Ungraded and
// negative scores are excluded from every aggregate.
func quizStats(attempts []model.QuizAttempt) QuizStats {
	var graded int
	var total, highest float64
	lowest := 100.0

	for i := range attempts {
		score := attempts[i].Score
		if score == nil || *score < 0 {
			continue
		}
		graded++
		total += *score
		highest = math.Max(highest, *score)
		lowest = math.Min(lowest, *score)
	}

	if graded == 0 {
		return QuizStats{}
	}
	return QuizStats{
		TotalAttempts: graded,
		AverageScore:  roundScore(total / float64(graded)),
		HighestScore:  highest,
		LowestScore:   lowest,
	}
}

// averageScore returns the mean of non-nil attempt scores, or 0 if none.
func averageScore(attempts []model.QuizAttempt) float64 {
	var count int
	var total float64
	for i := range attempts {
		if attempts[i].Score != nil {
			count++
			total += *attempts[i].Score
		}
	}
	if count == 0 {
		return 0.0
	}
	return total / float64(count)
}

// lastAttemptTime returns the latest attempt timestamp, or the zero time.
func lastAttemptTime(attempts []model.QuizAttempt) time.Time {
	var last time.Time
	for i := range attempts {
		if attempts[i].AttemptedAt.After(last) {
			last = attempts[i].AttemptedAt
		}
	}
	return last
}

// roundScore rounds to two decimals for presentation.
func roundScore(score float64) float64 {
	return math.Round(score*100.0) / 100.0
}
