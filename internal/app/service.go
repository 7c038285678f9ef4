// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	eventqueue "github.com/skillforge/engine/internal/adapters/mq/queue"
	workerpool "github.com/skillforge/engine/internal/adapters/mq/worker"
	"github.com/skillforge/engine/internal/adapters/repository"
	"github.com/skillforge/engine/internal/domain/analytics"
	"github.com/skillforge/engine/internal/domain/dedupe"
	"github.com/skillforge/engine/internal/domain/model"
	"github.com/skillforge/engine/internal/domain/ranking"
	"github.com/skillforge/engine/internal/domain/scoring"
	"github.com/skillforge/engine/internal/domain/sentiment"
	"github.com/skillforge/engine/internal/domain/types"
	"github.com/skillforge/engine/pkg/logger"
	"github.com/skillforge/engine/pkg/metrics"
)

// Service implements the API dependencies for the recommendation and
// analytics engine. Every read path is a fresh fold over the snapshot
// store; nothing derived is cached between requests.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool
	aggregator *scoring.Aggregator
	ranker     *ranking.Ranker
	analytics  *analytics.Aggregator

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	sentimentStep float64
	rankerOpts    []ranking.Option
	maxAttempts   int
	maxFeedback   int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore injects a pre-built snapshot store, e.g. one seeded with
// catalog fixtures.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSentimentStep sets the keyword analyzer's per-keyword increment.
func WithSentimentStep(step float64) Option {
	return func(s *Service) {
		if step > 0 {
			s.sentimentStep = step
		}
	}
}

// WithRankerOptions forwards options to the recommendation ranker.
func WithRankerOptions(opts ...ranking.Option) Option {
	return func(s *Service) {
		s.rankerOpts = append(s.rankerOpts, opts...)
	}
}

// WithInputCaps bounds how many attempt and feedback rows a single
// recommendation request folds over. Zero means unbounded.
func WithInputCaps(maxAttempts, maxFeedback int) Option {
	return func(s *Service) {
		if maxAttempts >= 0 {
			s.maxAttempts = maxAttempts
		}
		if maxFeedback >= 0 {
			s.maxFeedback = maxFeedback
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     100000,
		dedupeSize:    50000,
		sentimentStep: 0, // 0 keeps the analyzer default
		stopCh:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting engine service...")

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)

	var analyzerOpts []sentiment.Option
	if s.sentimentStep > 0 {
		analyzerOpts = append(analyzerOpts, sentiment.WithStep(s.sentimentStep))
	}
	s.aggregator = scoring.NewAggregator(
		scoring.WithAnalyzer(sentiment.NewKeywordAnalyzer(analyzerOpts...)),
	)
	s.ranker = ranking.NewRanker(s.rankerOpts...)
	s.analytics = analytics.NewAggregator()

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "engine service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping engine service...")

	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "engine service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it
// if not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen set, allowing a retry after
// a failed enqueue.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of tracked event IDs.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a raw platform event for asynchronous application to
// the snapshot store. Returns false when the queue rejected the event;
// the caller is expected to roll back its idempotency record.
func (s *Service) Enqueue(ctx context.Context, e model.Event) bool {
	if !s.eventQueue.Enqueue(ctx, e) {
		metrics.RecordEventRejected()
		s.logger.Warn(ctx, "event queue full, rejecting event",
			logger.String("eventID", e.EventID),
		)
		return false
	}

	metrics.RecordEventProcessed()
	metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	return true
}

// Recommend computes the ordered course recommendation list for a
// student. Upstream read failures degrade the result instead of failing
// it: the affected collection is treated as empty and a diagnostic is
// attached.
func (s *Service) Recommend(ctx context.Context, studentID string) (types.RecommendationResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecommendationLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := s.requireStudent(ctx, studentID); err != nil {
		return types.RecommendationResult{}, err
	}

	var diagnostics []string

	attempts, err := s.store.ListAttemptsForStudent(ctx, studentID)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("quiz attempts unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_attempts")
		attempts = nil
	}
	if s.maxAttempts > 0 && len(attempts) > s.maxAttempts {
		attempts = attempts[:s.maxAttempts]
	}

	studentEnrollments, err := s.store.ListEnrollmentsForStudent(ctx, studentID)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("enrollments unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_enrollments")
		studentEnrollments = nil
	}

	allCourses, err := s.store.ListAllCourses(ctx)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("course catalog unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_courses")
		allCourses = nil
	}

	var allEnrollments []model.Enrollment
	var allFeedback []model.Feedback
	for i := range allCourses {
		courseID := allCourses[i].ID

		enrollments, err := s.store.ListEnrollmentsForCourse(ctx, courseID)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("enrollments unavailable for course %s: %v", courseID, err))
			metrics.RecordErrorByComponent("repository", "list_enrollments")
			continue
		}
		allEnrollments = append(allEnrollments, enrollments...)

		feedback, err := s.store.ListFeedbackForCourse(ctx, courseID)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("feedback unavailable for course %s: %v", courseID, err))
			metrics.RecordErrorByComponent("repository", "list_feedback")
			continue
		}
		allFeedback = append(allFeedback, feedback...)
	}
	if s.maxFeedback > 0 && len(allFeedback) > s.maxFeedback {
		allFeedback = allFeedback[:s.maxFeedback]
	}

	set := s.aggregator.Aggregate(attempts, allEnrollments, allFeedback, allCourses)

	enrolled := make(map[string]bool, len(studentEnrollments))
	for i := range studentEnrollments {
		if studentEnrollments[i].Active() {
			enrolled[studentEnrollments[i].CourseID] = true
		}
	}

	recs := s.ranker.Rank(set, enrolled)

	if len(diagnostics) > 0 {
		metrics.RecordDegradedResult()
	}
	metrics.RecordRecommendationServed()

	return types.RecommendationResult{
		StudentID:   studentID,
		CourseIDs:   ranking.CourseIDs(recs),
		Diagnostics: diagnostics,
	}, nil
}

// StudentAnalytics builds the student dashboard view.
func (s *Service) StudentAnalytics(ctx context.Context, studentID string) (analytics.StudentReport, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalyticsLatency("student", float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordAnalyticsQuery("student")

	if err := s.requireStudent(ctx, studentID); err != nil {
		return analytics.StudentReport{}, err
	}

	var diagnostics []string

	enrollments, err := s.store.ListEnrollmentsForStudent(ctx, studentID)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("enrollments unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_enrollments")
		enrollments = nil
	}

	attempts, err := s.store.ListAttemptsForStudent(ctx, studentID)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("quiz attempts unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_attempts")
		attempts = nil
	}

	titles := make(map[string]string)
	courses, err := s.store.ListAllCourses(ctx)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("course catalog unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_courses")
	}
	for i := range courses {
		titles[courses[i].ID] = courses[i].Title
	}

	report := s.analytics.StudentReport(studentID, enrollments, attempts, titles)
	report.Diagnostics = diagnostics
	if len(diagnostics) > 0 {
		metrics.RecordDegradedResult()
	}
	return report, nil
}

// CourseAnalytics builds the course dashboard view.
func (s *Service) CourseAnalytics(ctx context.Context, courseID string) (analytics.CourseReport, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalyticsLatency("course", float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordAnalyticsQuery("course")

	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return analytics.CourseReport{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
		}
		return analytics.CourseReport{}, err
	}

	var diagnostics []string

	enrollments, err := s.store.ListEnrollmentsForCourse(ctx, courseID)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("enrollments unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_enrollments")
		enrollments = nil
	}

	attempts, err := s.store.ListAttemptsForCourse(ctx, courseID)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("quiz attempts unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_attempts")
		attempts = nil
	}

	report := s.analytics.CourseReport(course, enrollments, attempts)
	report.Diagnostics = diagnostics
	if len(diagnostics) > 0 {
		metrics.RecordDegradedResult()
	}
	return report, nil
}

// InstructorAnalytics builds the instructor dashboard view.
func (s *Service) InstructorAnalytics(ctx context.Context, instructorID string) (analytics.InstructorReport, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalyticsLatency("instructor", float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordAnalyticsQuery("instructor")

	user, err := s.store.GetUser(ctx, instructorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return analytics.InstructorReport{}, fmt.Errorf("%w: %s", ErrInstructorNotFound, instructorID)
		}
		return analytics.InstructorReport{}, err
	}
	if user.Role != model.RoleInstructor {
		return analytics.InstructorReport{}, fmt.Errorf("%w: %s", ErrNotInstructor, instructorID)
	}

	var diagnostics []string

	courses, err := s.store.ListCoursesForInstructor(ctx, instructorID)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("courses unavailable: %v", err))
		metrics.RecordErrorByComponent("repository", "list_courses")
		courses = nil
	}

	enrollmentsByCourse := make(map[string][]model.Enrollment, len(courses))
	attemptsByCourse := make(map[string][]model.QuizAttempt, len(courses))
	for i := range courses {
		courseID := courses[i].ID

		enrollments, err := s.store.ListEnrollmentsForCourse(ctx, courseID)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("enrollments unavailable for course %s: %v", courseID, err))
			metrics.RecordErrorByComponent("repository", "list_enrollments")
		} else {
			enrollmentsByCourse[courseID] = enrollments
		}

		attempts, err := s.store.ListAttemptsForCourse(ctx, courseID)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("quiz attempts unavailable for course %s: %v", courseID, err))
			metrics.RecordErrorByComponent("repository", "list_attempts")
		} else {
			attemptsByCourse[courseID] = attempts
		}
	}

	report := s.analytics.InstructorReport(instructorID, courses, enrollmentsByCourse, attemptsByCourse)
	report.Diagnostics = diagnostics
	if len(diagnostics) > 0 {
		metrics.RecordDegradedResult()
	}
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		counts := s.store.Counts(ctx)

		stats["queueLength"] = queueLen
		stats["dedupeTracked"] = s.deduper.Size()
		stats["courses"] = counts.Courses
		stats["users"] = counts.Users
		stats["quizAttempts"] = counts.Attempts
		stats["enrollments"] = counts.Enrollments
		stats["feedback"] = counts.Feedback

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
		metrics.UpdateStoreCounts(counts.Courses, counts.Users, counts.Attempts, counts.Enrollments, counts.Feedback)
	}

	return stats
}

// requireStudent verifies the subject exists and is a student.
func (s *Service) requireStudent(ctx context.Context, studentID string) error {
	user, err := s.store.GetUser(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
		}
		return err
	}
	if user.Role != model.RoleStudent {
		return fmt.Errorf("%w: %s", ErrNotStudent, studentID)
	}
	return nil
}
