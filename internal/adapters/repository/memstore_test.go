package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/skillforge/engine/internal/adapters/repository"
	"github.com/skillforge/engine/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func fptr(v float64) *float64 { return &v }

func TestMemStore(t *testing.T) {
	convey.Convey("Given an empty memstore", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		now := time.Now()

		convey.Convey("When adding courses and users", func() {
			course, err := store.AddCourse(ctx, model.Course{Title: "Algebra", InstructorID: "i1"})
			convey.So(err, convey.ShouldBeNil)
			user, err := store.AddUser(ctx, model.User{Name: "Dana", Role: model.RoleStudent})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then IDs should be assigned when missing", func() {
				convey.So(course.ID, convey.ShouldNotBeEmpty)
				convey.So(user.ID, convey.ShouldNotBeEmpty)
			})

			convey.Convey("Then lookups should return the records", func() {
				got, err := store.GetCourse(ctx, course.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Title, convey.ShouldEqual, "Algebra")

				gotUser, err := store.GetUser(ctx, user.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(gotUser.Name, convey.ShouldEqual, "Dana")
			})
		})

		convey.Convey("When looking up unknown records", func() {
			_, courseErr := store.GetCourse(ctx, "missing")
			_, userErr := store.GetUser(ctx, "missing")

			convey.Convey("Then sentinel errors should be returned", func() {
				convey.So(courseErr, convey.ShouldWrap, repository.ErrCourseNotFound)
				convey.So(userErr, convey.ShouldWrap, repository.ErrUserNotFound)
			})
		})

		convey.Convey("When listing the catalog", func() {
			c1, _ := store.AddCourse(ctx, model.Course{Title: "First", InstructorID: "i1"})
			c2, _ := store.AddCourse(ctx, model.Course{Title: "Second", InstructorID: "i2"})
			c3, _ := store.AddCourse(ctx, model.Course{Title: "Third", InstructorID: "i1"})

			convey.Convey("Then creation order should be preserved", func() {
				courses, err := store.ListAllCourses(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(courses), convey.ShouldEqual, 3)
				convey.So(courses[0].ID, convey.ShouldEqual, c1.ID)
				convey.So(courses[1].ID, convey.ShouldEqual, c2.ID)
				convey.So(courses[2].ID, convey.ShouldEqual, c3.ID)
			})

			convey.Convey("Then instructor filtering should work", func() {
				courses, err := store.ListCoursesForInstructor(ctx, "i1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(courses), convey.ShouldEqual, 2)
				convey.So(courses[0].ID, convey.ShouldEqual, c1.ID)
				convey.So(courses[1].ID, convey.ShouldEqual, c3.ID)
			})
		})

		convey.Convey("When recording an attempt against an unknown course", func() {
			attempt, err := store.RecordAttempt(ctx, model.QuizAttempt{
				StudentID: "s1", QuizID: "q1", CourseID: "ghost", Score: fptr(50), AttemptedAt: now,
			})

			convey.Convey("Then the course link should be cleared, not rejected", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(attempt.CourseID, convey.ShouldBeEmpty)

				attempts, err := store.ListAttemptsForStudent(ctx, "s1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(attempts), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When toggling enrollments", func() {
			course, _ := store.AddCourse(ctx, model.Course{Title: "Algebra", InstructorID: "i1"})

			convey.Convey("Then enrolling in an unknown course should fail", func() {
				_, err := store.RecordEnrollment(ctx, "s1", "ghost", now)
				convey.So(err, convey.ShouldWrap, repository.ErrCourseNotFound)
			})

			convey.Convey("Then double enrollment should be rejected", func() {
				_, err := store.RecordEnrollment(ctx, "s1", course.ID, now)
				convey.So(err, convey.ShouldBeNil)

				_, err = store.RecordEnrollment(ctx, "s1", course.ID, now)
				convey.So(err, convey.ShouldWrap, repository.ErrAlreadyEnrolled)
			})

			convey.Convey("Then unenrolling without an active enrollment should be rejected", func() {
				err := store.RecordUnenrollment(ctx, "s1", course.ID, now)
				convey.So(err, convey.ShouldWrap, repository.ErrNotEnrolled)
			})

			convey.Convey("Then a full cycle should leave a closed row and allow re-enrollment", func() {
				_, err := store.RecordEnrollment(ctx, "s1", course.ID, now)
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.RecordUnenrollment(ctx, "s1", course.ID, now.Add(time.Hour)), convey.ShouldBeNil)

				_, err = store.RecordEnrollment(ctx, "s1", course.ID, now.Add(2*time.Hour))
				convey.So(err, convey.ShouldBeNil)

				rows, err := store.ListEnrollmentsForStudent(ctx, "s1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(rows), convey.ShouldEqual, 2)
				convey.So(rows[0].Active(), convey.ShouldBeFalse)
				convey.So(rows[1].Active(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When reading enrollment rows", func() {
			course, _ := store.AddCourse(ctx, model.Course{Title: "Algebra", InstructorID: "i1"})
			_, err := store.RecordEnrollment(ctx, "s1", course.ID, now)
			convey.So(err, convey.ShouldBeNil)

			rows, err := store.ListEnrollmentsForCourse(ctx, course.ID)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then mutating the copy should not leak into the store", func() {
				closedAt := now.Add(time.Hour)
				rows[0].UnenrolledAt = &closedAt

				fresh, err := store.ListEnrollmentsForCourse(ctx, course.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(fresh[0].Active(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When recording feedback", func() {
			feedback, err := store.RecordFeedback(ctx, model.Feedback{CourseID: "c1", UserID: "s1", Rating: fptr(4)})

			convey.Convey("Then it should be listed per course", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(feedback.ID, convey.ShouldNotBeEmpty)

				rows, err := store.ListFeedbackForCourse(ctx, "c1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(rows), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When asking for counts", func() {
			course, _ := store.AddCourse(ctx, model.Course{Title: "Algebra", InstructorID: "i1"})
			_, _ = store.AddUser(ctx, model.User{Name: "Dana", Role: model.RoleStudent})
			_, _ = store.RecordAttempt(ctx, model.QuizAttempt{StudentID: "s1", QuizID: "q1", CourseID: course.ID, AttemptedAt: now})
			_, _ = store.RecordEnrollment(ctx, "s1", course.ID, now)
			_, _ = store.RecordFeedback(ctx, model.Feedback{CourseID: course.ID, UserID: "s1", Rating: fptr(5)})

			counts := store.Counts(ctx)

			convey.Convey("Then all collections should be reported", func() {
				convey.So(counts.Courses, convey.ShouldEqual, 1)
				convey.So(counts.Users, convey.ShouldEqual, 1)
				convey.So(counts.Attempts, convey.ShouldEqual, 1)
				convey.So(counts.Enrollments, convey.ShouldEqual, 1)
				convey.So(counts.Feedback, convey.ShouldEqual, 1)
			})
		})
	})

	convey.Convey("Given a memstore seeded through options", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(
			repository.WithCourses([]model.Course{
				{ID: "c1", Title: "Algebra", InstructorID: "i1"},
			}),
			repository.WithUsers([]model.User{
				{ID: "s1", Name: "Dana", Role: model.RoleStudent},
			}),
		)

		convey.Convey("Then the seed data should be readable", func() {
			course, err := store.GetCourse(ctx, "c1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(course.Title, convey.ShouldEqual, "Algebra")

			user, err := store.GetUser(ctx, "s1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(user.Role, convey.ShouldEqual, model.RoleStudent)
		})
	})
}
