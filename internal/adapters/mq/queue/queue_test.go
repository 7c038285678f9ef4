package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/skillforge/engine/internal/adapters/mq/queue"
	"github.com/skillforge/engine/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	convey.Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()

		convey.Convey("When enqueueing and dequeueing events", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			event := model.Event{EventID: "evt-1", Type: model.EventQuizAttempt, UserID: "s1"}

			ok := q.Enqueue(ctx, event)

			convey.Convey("Then the event should round-trip", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(q.Len(ctx), convey.ShouldEqual, 1)

				select {
				case got := <-q.Dequeue(ctx):
					convey.So(got.EventID, convey.ShouldEqual, "evt-1")
					convey.So(got.Type, convey.ShouldEqual, model.EventQuizAttempt)
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for event")
				}
			})
		})

		convey.Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			convey.So(q.Enqueue(ctx, model.Event{EventID: "evt-1"}), convey.ShouldBeTrue)

			ok := q.Enqueue(ctx, model.Event{EventID: "evt-2"})

			convey.Convey("Then further enqueues should be rejected, not blocked", func() {
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(q.Len(ctx), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			convey.So(q.Enqueue(ctx, model.Event{EventID: "evt-1"}), convey.ShouldBeTrue)
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then enqueue should fail and state should report closed", func() {
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				convey.So(q.Enqueue(ctx, model.Event{EventID: "evt-2"}), convey.ShouldBeFalse)
			})

			convey.Convey("Then buffered events should drain before the channel closes", func() {
				events := q.Dequeue(ctx)

				got, open := <-events
				convey.So(open, convey.ShouldBeTrue)
				convey.So(got.EventID, convey.ShouldEqual, "evt-1")

				_, open = <-events
				convey.So(open, convey.ShouldBeFalse)
			})

			convey.Convey("Then closing again should be a no-op", func() {
				convey.So(q.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the consumer context is canceled", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			consumerCtx, cancel := context.WithCancel(ctx)
			events := q.Dequeue(consumerCtx)
			cancel()

			convey.So(q.Enqueue(ctx, model.Event{EventID: "evt-1"}), convey.ShouldBeTrue)

			convey.Convey("Then the dequeue channel should close", func() {
				select {
				case _, open := <-events:
					convey.So(open, convey.ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for channel close")
				}
			})
		})
	})
}
