// Package ranking turns aggregated course scores into an ordered
// recommendation list.
package ranking

import (
	"math"
	"sort"

	"github.com/skillforge/engine/internal/domain/scoring"
)

// Composite score weights. The four base components sum to at most 100.
const (
	scoreWeight              = 40.0
	activityPointsPerAttempt = 5.0
	activityCap              = 20.0
	sentimentWeight          = 20.0
	popularityDivisor        = 5.0
	popularityCap            = 20.0
	percentScale             = 100.0
)

// Default boost configuration. These values were tuned against the live
// platform; keep them unless there is new signal.
const (
	defaultMaxResults        = 10
	defaultReviewThreshold   = 70.0
	defaultPracticeThreshold = 80.0
	defaultPositiveSentiment = 0.5
	defaultLowScoreBoost     = 50.0
	defaultPracticeBoost     = 30.0
	defaultPopularBoost      = 40.0
	defaultMinPopularity     = 10
	defaultMinOverallRating  = 3.5
)

// Recommendation pairs a course with its final composite score.
type Recommendation struct {
	CourseID string
	Score    float64
	Enrolled bool
}

// Ranker computes composite scores and orders courses for a student.
type Ranker struct {
	maxResults        int
	reviewThreshold   float64
	practiceThreshold float64
	positiveSentiment float64
	lowScoreBoost     float64
	practiceBoost     float64
	popularBoost      float64
	minPopularity     int64
	minOverallRating  float64
}

// NewRanker creates a ranker with configuration options.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		maxResults:        defaultMaxResults,
		reviewThreshold:   defaultReviewThreshold,
		practiceThreshold: defaultPracticeThreshold,
		positiveSentiment: defaultPositiveSentiment,
		lowScoreBoost:     defaultLowScoreBoost,
		practiceBoost:     defaultPracticeBoost,
		popularBoost:      defaultPopularBoost,
		minPopularity:     defaultMinPopularity,
		minOverallRating:  defaultMinOverallRating,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// CompositeScore returns the pre-boost score for a single course:
// performance, activity, feedback sentiment, and popularity components,
// each bounded, summed. A course with no feedback at all contributes 0
// on the sentiment component, so a course with no data anywhere scores
// exactly 0.
func (r *Ranker) CompositeScore(cs *scoring.CourseScore) float64 {
	score := (cs.AverageScore() / percentScale) * scoreWeight
	score += math.Min(float64(cs.ActivityCount)*activityPointsPerAttempt, activityCap)
	if len(cs.FeedbackSentiments) > 0 {
		score += ((cs.AverageSentiment() + 1.0) / 2.0) * sentimentWeight
	}
	score += math.Min(float64(cs.Popularity)/popularityDivisor, popularityCap)
	return score
}

// boost returns the contextual adjustment for a course. The branches are
// mutually exclusive: at most one boost applies.
func (r *Ranker) boost(cs *scoring.CourseScore, enrolled bool) float64 {
	if enrolled {
		switch {
		case cs.AverageScore() < r.reviewThreshold:
			return r.lowScoreBoost
		case cs.AverageSentiment() > r.positiveSentiment && cs.AverageScore() < r.practiceThreshold:
			return r.practiceBoost
		}
		return 0.0
	}
	if cs.Popularity > r.minPopularity && cs.OverallFeedbackRating > r.minOverallRating {
		return r.popularBoost
	}
	return 0.0
}

// Rank scores every course in the set and returns up to the configured
// number of recommendations, best first. The sort is stable: courses with
// equal composite scores keep the order in which they were discovered
// during aggregation.
func (r *Ranker) Rank(set *scoring.ScoreSet, enrolledCourseIDs map[string]bool) []Recommendation {
	recs := make([]Recommendation, 0, set.Len())
	for _, id := range set.CourseIDs() {
		cs, ok := set.Get(id)
		if !ok {
			continue
		}
		enrolled := enrolledCourseIDs[id]
		recs = append(recs, Recommendation{
			CourseID: id,
			Score:    r.CompositeScore(cs) + r.boost(cs, enrolled),
			Enrolled: enrolled,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > r.maxResults {
		recs = recs[:r.maxResults]
	}
	return recs
}

// CourseIDs projects recommendations onto their ordered course IDs.
func CourseIDs(recs []Recommendation) []string {
	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.CourseID
	}
	return ids
}
