// Package worker applies ingested platform events to the snapshot store.
//
// Workers only materialize raw records; no score or statistic is ever
// precomputed here. Rankings and analytics stay per-request folds.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/skillforge/engine/internal/adapters/repository"
	"github.com/skillforge/engine/internal/domain/model"
	"github.com/skillforge/engine/pkg/logger"
	"github.com/skillforge/engine/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Event is what workers read off the queue.
type Event = model.Event

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Applier is the write surface workers need from the snapshot store.
type Applier interface {
	repository.Writer
}

// Worker consumes events until stopped.
type Worker struct {
	queue   Queue
	applier Applier
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, applier Applier, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.apply(ctx, event); err != nil {
				metrics.RecordWorkerError()
				w.logger.Error(ctx, "failed to apply event",
					logger.String("eventID", event.EventID),
					logger.String("type", string(event.Type)),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight event.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// apply routes one event to the snapshot store. Enrollment toggles that
// race a previous state are skipped, not failed: the record is simply
// already reflected in the snapshot.
func (w *Worker) apply(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	switch event.Type {
	case model.EventCourseCreated:
		_, err := w.applier.AddCourse(ctx, model.Course{
			ID:           event.CourseID,
			Title:        event.Title,
			InstructorID: event.UserID,
		})
		return err

	case model.EventUserRegistered:
		_, err := w.applier.AddUser(ctx, model.User{
			ID:   event.UserID,
			Name: event.Name,
			Role: model.Role(event.Role),
		})
		return err

	case model.EventQuizAttempt:
		_, err := w.applier.RecordAttempt(ctx, model.QuizAttempt{
			StudentID:    event.UserID,
			QuizID:       event.QuizID,
			CourseID:     event.CourseID,
			Score:        event.Score,
			AttemptedAt:  event.OccurredAt,
			FeedbackText: event.Text,
		})
		return err

	case model.EventEnrollment:
		_, err := w.applier.RecordEnrollment(ctx, event.UserID, event.CourseID, event.OccurredAt)
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			w.logger.Debug(ctx, "enrollment already active; skipping",
				logger.String("studentID", event.UserID),
				logger.String("courseID", event.CourseID),
			)
			return nil
		}
		return err

	case model.EventUnenrollment:
		err := w.applier.RecordUnenrollment(ctx, event.UserID, event.CourseID, event.OccurredAt)
		if errors.Is(err, repository.ErrNotEnrolled) {
			w.logger.Debug(ctx, "no active enrollment to close; skipping",
				logger.String("studentID", event.UserID),
				logger.String("courseID", event.CourseID),
			)
			return nil
		}
		return err

	case model.EventFeedback:
		_, err := w.applier.RecordFeedback(ctx, model.Feedback{
			CourseID: event.CourseID,
			UserID:   event.UserID,
			Rating:   event.Rating,
			Comments: event.Text,
		})
		return err

	default:
		return fmt.Errorf("%w: %s", ErrUnknownEventType, event.Type)
	}
}

// Pool manages a fixed set of workers draining one queue.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates and wires workerCount workers. A non-positive count
// falls back to a CPU-based default.
func NewPool(workerCount int, queue Queue, applier Applier) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(queue, applier, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits briefly for each to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
			// Already signaled.
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(context.Background(), "worker did not stop in time",
				logger.String("worker", w.name))
		}
	}
}
