// Package scoring folds raw platform records into per-course score records.
package scoring

import (
	"github.com/skillforge/engine/internal/domain/model"
	"github.com/skillforge/engine/internal/domain/sentiment"
)

// CourseScore is the derived per-course record consumed by the ranker.
// Built fresh per request; it has no identity and is never persisted.
type CourseScore struct {
	CourseID              string
	Scores                []float64
	ActivityCount         int
	FeedbackSentiments    []float64
	Popularity            int64
	OverallFeedbackRating float64
}

// AverageScore returns the mean attempt score, or 0 with no attempts.
// The zero default is the "no data" convention of the composite score,
// distinct from the null-exclusion rule applied when averaging.
func (cs *CourseScore) AverageScore() float64 {
	return mean(cs.Scores)
}

// AverageSentiment returns the mean feedback sentiment, or 0 with none.
func (cs *CourseScore) AverageSentiment() float64 {
	return mean(cs.FeedbackSentiments)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// ScoreSet holds CourseScore records keyed by course, preserving the order
// in which courses were first discovered. The ranker's tie-breaking
// contract depends on this order.
type ScoreSet struct {
	byID  map[string]*CourseScore
	order []string
}

// NewScoreSet creates an empty set.
func NewScoreSet() *ScoreSet {
	return &ScoreSet{byID: make(map[string]*CourseScore)}
}

// Get returns the record for courseID, if present.
func (s *ScoreSet) Get(courseID string) (*CourseScore, bool) {
	cs, ok := s.byID[courseID]
	return cs, ok
}

// Len returns the number of distinct courses in the set.
func (s *ScoreSet) Len() int {
	return len(s.order)
}

// CourseIDs returns the course IDs in discovery order.
func (s *ScoreSet) CourseIDs() []string {
	return append([]string(nil), s.order...)
}

func (s *ScoreSet) ensure(courseID string) *CourseScore {
	if cs, ok := s.byID[courseID]; ok {
		return cs
	}
	cs := &CourseScore{CourseID: courseID}
	s.byID[courseID] = cs
	s.order = append(s.order, courseID)
	return cs
}

// Aggregator builds ScoreSets from raw snapshot collections.
type Aggregator struct {
	analyzer sentiment.Analyzer
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		analyzer: sentiment.NewKeywordAnalyzer(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregate folds attempts, enrollments, feedback, and the course catalog
// into one CourseScore per course. Courses are discovered first through
// attempts, then through the catalog, so a course without any attempt
// still appears with zero defaults. Attempts whose course link is
// unresolved are skipped entirely.
func (a *Aggregator) Aggregate(
	attempts []model.QuizAttempt,
	enrollments []model.Enrollment,
	feedbacks []model.Feedback,
	allCourses []model.Course,
) *ScoreSet {
	set := NewScoreSet()

	for i := range attempts {
		attempt := &attempts[i]
		if attempt.CourseID == "" {
			continue
		}
		cs := set.ensure(attempt.CourseID)

		if attempt.Score != nil {
			cs.Scores = append(cs.Scores, *attempt.Score)
		}
		cs.ActivityCount++
		if attempt.FeedbackText != "" {
			cs.FeedbackSentiments = append(cs.FeedbackSentiments, a.analyzer.Analyze(attempt.FeedbackText))
		}
	}

	for i := range allCourses {
		set.ensure(allCourses[i].ID)
	}

	activeByCourse := make(map[string]int64)
	for i := range enrollments {
		if enrollments[i].Active() {
			activeByCourse[enrollments[i].CourseID]++
		}
	}

	ratingsByCourse := make(map[string][]float64)
	for i := range feedbacks {
		fb := &feedbacks[i]
		if fb.CourseID == "" {
			continue
		}
		if fb.Rating != nil {
			ratingsByCourse[fb.CourseID] = append(ratingsByCourse[fb.CourseID], *fb.Rating)
		}
		if fb.Comments != "" {
			if cs, ok := set.Get(fb.CourseID); ok {
				cs.FeedbackSentiments = append(cs.FeedbackSentiments, a.analyzer.Analyze(fb.Comments))
			}
		}
	}

	for _, id := range set.order {
		cs := set.byID[id]
		cs.Popularity = activeByCourse[id]
		cs.OverallFeedbackRating = mean(ratingsByCourse[id])
	}

	return set
}
