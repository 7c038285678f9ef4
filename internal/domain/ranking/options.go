// Package ranking turns aggregated course scores into an ordered
// recommendation list.
package ranking

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithMaxResults caps the number of recommendations returned.
func WithMaxResults(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// WithReviewThreshold sets the average score below which an enrolled
// course is boosted for review.
func WithReviewThreshold(threshold float64) Option {
	return func(r *Ranker) {
		if threshold > 0 {
			r.reviewThreshold = threshold
		}
	}
}

// WithPracticeThreshold sets the average score below which an enrolled
// course with positive sentiment is boosted for practice.
func WithPracticeThreshold(threshold float64) Option {
	return func(r *Ranker) {
		if threshold > 0 {
			r.practiceThreshold = threshold
		}
	}
}

// WithPositiveSentimentThreshold sets the sentiment gate for the
// practice boost.
func WithPositiveSentimentThreshold(threshold float64) Option {
	return func(r *Ranker) {
		r.positiveSentiment = threshold
	}
}

// WithBoosts sets the three boost magnitudes: enrolled-but-struggling,
// enrolled-needs-practice, and popular-unenrolled.
func WithBoosts(lowScore, practice, popular float64) Option {
	return func(r *Ranker) {
		if lowScore > 0 {
			r.lowScoreBoost = lowScore
		}
		if practice > 0 {
			r.practiceBoost = practice
		}
		if popular > 0 {
			r.popularBoost = popular
		}
	}
}

// WithPopularityGate sets the active-enrollment count and overall rating
// a course must exceed to receive the popular-unenrolled boost.
func WithPopularityGate(minEnrollments int64, minRating float64) Option {
	return func(r *Ranker) {
		if minEnrollments > 0 {
			r.minPopularity = minEnrollments
		}
		if minRating > 0 {
			r.minOverallRating = minRating
		}
	}
}
