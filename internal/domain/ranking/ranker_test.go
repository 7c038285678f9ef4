package ranking_test

import (
	"testing"
	"time"

	"github.com/skillforge/engine/internal/domain/model"
	"github.com/skillforge/engine/internal/domain/ranking"
	"github.com/skillforge/engine/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func fptr(v float64) *float64 { return &v }

// buildSet folds fixtures through the real aggregator so ranker tests
// exercise the same discovery-order contract production code relies on.
func buildSet(attempts []model.QuizAttempt, enrollments []model.Enrollment, feedbacks []model.Feedback, catalog []model.Course) *scoring.ScoreSet {
	return scoring.NewAggregator().Aggregate(attempts, enrollments, feedbacks, catalog)
}

func TestRanker(t *testing.T) {
	convey.Convey("Given a ranker with defaults", t, func() {
		ranker := ranking.NewRanker()
		now := time.Now()

		convey.Convey("When a course has no data at all", func() {
			set := buildSet(nil, nil, nil, []model.Course{{ID: "c1"}})
			cs, _ := set.Get("c1")

			convey.Convey("Then the composite score should be exactly zero", func() {
				convey.So(ranker.CompositeScore(cs), convey.ShouldEqual, 0.0)
			})

			convey.Convey("Then ranking an unenrolled student should apply no boost", func() {
				recs := ranker.Rank(set, nil)
				convey.So(len(recs), convey.ShouldEqual, 1)
				convey.So(recs[0].Score, convey.ShouldEqual, 0.0)
			})
		})

		convey.Convey("When an enrolled course averages below the review threshold", func() {
			attempts := []model.QuizAttempt{
				{StudentID: "s1", QuizID: "q1", CourseID: "c1", Score: fptr(40), AttemptedAt: now},
				{StudentID: "s1", QuizID: "q2", CourseID: "c1", Score: fptr(60), AttemptedAt: now},
			}
			catalog := []model.Course{{ID: "c1"}, {ID: "c2"}}
			set := buildSet(attempts, nil, nil, catalog)

			recs := ranker.Rank(set, map[string]bool{"c1": true})

			convey.Convey("Then it should receive the review boost and rank first", func() {
				convey.So(recs[0].CourseID, convey.ShouldEqual, "c1")
				// (50/100)*40 + min(2*5,20) + 0 + 0, then +50.
				convey.So(recs[0].Score, convey.ShouldAlmostEqual, 80.0, 1e-9)
				convey.So(recs[1].CourseID, convey.ShouldEqual, "c2")
				convey.So(recs[1].Score, convey.ShouldEqual, 0.0)
			})
		})

		convey.Convey("When an enrolled course is liked and scores between the thresholds", func() {
			attempts := []model.QuizAttempt{
				{StudentID: "s1", QuizID: "q1", CourseID: "c1", Score: fptr(75), AttemptedAt: now, FeedbackText: "love it, amazing, excellent, wonderful, great"},
			}
			set := buildSet(attempts, nil, nil, nil)
			cs, _ := set.Get("c1")

			convey.Convey("Then the practice boost should apply instead of the review boost", func() {
				// avg 75 is above the review threshold, sentiment 5*0.15 > 0.5.
				convey.So(cs.AverageSentiment(), convey.ShouldBeGreaterThan, 0.5)
				recs := ranker.Rank(set, map[string]bool{"c1": true})
				base := ranker.CompositeScore(cs)
				convey.So(recs[0].Score, convey.ShouldAlmostEqual, base+30.0, 1e-9)
			})
		})

		convey.Convey("When an unenrolled course is popular and well rated", func() {
			var enrollments []model.Enrollment
			for i := 0; i < 20; i++ {
				enrollments = append(enrollments, model.Enrollment{
					StudentID: "s" + string(rune('a'+i)), CourseID: "c2", EnrolledAt: now,
				})
			}
			enrollments = append(enrollments, model.Enrollment{StudentID: "z1", CourseID: "c3", EnrolledAt: now})
			feedbacks := []model.Feedback{
				{CourseID: "c2", UserID: "u1", Rating: fptr(4.2)},
			}
			catalog := []model.Course{{ID: "c2"}, {ID: "c3"}}
			set := buildSet(nil, enrollments, feedbacks, catalog)

			recs := ranker.Rank(set, nil)

			convey.Convey("Then it should receive the popularity boost and outrank the quiet course", func() {
				convey.So(recs[0].CourseID, convey.ShouldEqual, "c2")
				// min(20/5,20) = 4, then +40.
				convey.So(recs[0].Score, convey.ShouldAlmostEqual, 44.0, 1e-9)
				convey.So(recs[1].CourseID, convey.ShouldEqual, "c3")
				convey.So(recs[1].Score, convey.ShouldAlmostEqual, 0.2, 1e-9)
			})
		})

		convey.Convey("When popularity or rating sit exactly on the gate", func() {
			var enrollments []model.Enrollment
			for i := 0; i < 10; i++ {
				enrollments = append(enrollments, model.Enrollment{
					StudentID: "s" + string(rune('a'+i)), CourseID: "c1", EnrolledAt: now,
				})
			}
			feedbacks := []model.Feedback{{CourseID: "c1", UserID: "u1", Rating: fptr(3.5)}}
			set := buildSet(nil, enrollments, feedbacks, []model.Course{{ID: "c1"}})

			recs := ranker.Rank(set, nil)

			convey.Convey("Then no boost should apply; both gates are strict", func() {
				convey.So(recs[0].Score, convey.ShouldAlmostEqual, 2.0, 1e-9) // popularity component only
			})
		})

		convey.Convey("When more than ten courses exist", func() {
			catalog := make([]model.Course, 0, 15)
			for i := 0; i < 15; i++ {
				catalog = append(catalog, model.Course{ID: "course-" + string(rune('a'+i))})
			}
			set := buildSet(nil, nil, nil, catalog)

			recs := ranker.Rank(set, nil)

			convey.Convey("Then the output should be capped at ten", func() {
				convey.So(len(recs), convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When fewer than ten courses exist", func() {
			set := buildSet(nil, nil, nil, []model.Course{{ID: "c1"}, {ID: "c2"}})

			recs := ranker.Rank(set, nil)

			convey.Convey("Then all of them should be returned", func() {
				convey.So(len(recs), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When composite scores tie", func() {
			catalog := []model.Course{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
			set := buildSet(nil, nil, nil, catalog)

			recs := ranker.Rank(set, nil)

			convey.Convey("Then discovery order should be preserved", func() {
				convey.So(ranking.CourseIDs(recs), convey.ShouldResemble, []string{"c1", "c2", "c3"})
			})
		})

		convey.Convey("When ranking the same snapshot twice", func() {
			attempts := []model.QuizAttempt{
				{StudentID: "s1", QuizID: "q1", CourseID: "c1", Score: fptr(55), AttemptedAt: now},
				{StudentID: "s1", QuizID: "q2", CourseID: "c2", Score: fptr(95), AttemptedAt: now},
			}
			catalog := []model.Course{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
			enrolled := map[string]bool{"c1": true}

			first := ranker.Rank(buildSet(attempts, nil, nil, catalog), enrolled)
			second := ranker.Rank(buildSet(attempts, nil, nil, catalog), enrolled)

			convey.Convey("Then results should be identical", func() {
				convey.So(second, convey.ShouldResemble, first)
			})
		})
	})

	convey.Convey("Given a ranker with custom configuration", t, func() {
		now := time.Now()

		convey.Convey("When max results is lowered", func() {
			ranker := ranking.NewRanker(ranking.WithMaxResults(2))
			set := buildSet(nil, nil, nil, []model.Course{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}})

			recs := ranker.Rank(set, nil)

			convey.Convey("Then the output should honor the cap", func() {
				convey.So(len(recs), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When boost magnitudes are overridden", func() {
			ranker := ranking.NewRanker(ranking.WithBoosts(100, 60, 80))
			attempts := []model.QuizAttempt{
				{StudentID: "s1", QuizID: "q1", CourseID: "c1", Score: fptr(10), AttemptedAt: now},
			}
			set := buildSet(attempts, nil, nil, nil)
			cs, _ := set.Get("c1")

			recs := ranker.Rank(set, map[string]bool{"c1": true})

			convey.Convey("Then the custom review boost should apply", func() {
				convey.So(recs[0].Score, convey.ShouldAlmostEqual, ranker.CompositeScore(cs)+100.0, 1e-9)
			})
		})
	})
}
