// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New(); Load layers file and env on top of them.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory ingestion queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRecommendations caps the length of a recommendation list.
	MaxRecommendations int `koanf:"max_recommendations"`

	// ReviewScoreThreshold is the average score below which an enrolled
	// course is flagged for review.
	ReviewScoreThreshold float64 `koanf:"review_score_threshold"`

	// PracticeScoreThreshold is the average score at or above which a
	// well-liked course is suggested for more practice.
	PracticeScoreThreshold float64 `koanf:"practice_score_threshold"`

	// PositiveSentimentThreshold is the minimum average sentiment for the
	// practice boost.
	PositiveSentimentThreshold float64 `koanf:"positive_sentiment_threshold"`

	// Boost magnitudes added to the composite score.
	EnrolledLowScoreBoost float64 `koanf:"enrolled_low_score_boost"`
	PositiveFeedbackBoost float64 `koanf:"positive_feedback_boost"`
	PopularCourseBoost    float64 `koanf:"popular_course_boost"`

	// PopularityBoostMinEnrollments gates the popularity boost on active
	// enrollment count.
	PopularityBoostMinEnrollments int64 `koanf:"popularity_boost_min_enrollments"`

	// RatingBoostThreshold gates the popularity boost on overall rating.
	RatingBoostThreshold float64 `koanf:"rating_boost_threshold"`

	// SentimentStep is the per-keyword increment of the sentiment analyzer.
	SentimentStep float64 `koanf:"sentiment_step"`

	// MaxAttemptsScanned and MaxFeedbackScanned cap how many rows a single
	// request folds over. Zero means unbounded.
	MaxAttemptsScanned int `koanf:"max_attempts_scanned"`
	MaxFeedbackScanned int `koanf:"max_feedback_scanned"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:                      "info",
		Addr:                          ":9080",
		EventQueueSize:                100_000,
		WorkerCount:                   runtime.NumCPU() * 2,
		DedupeSize:                    50_000,
		MaxRecommendations:            10,
		ReviewScoreThreshold:          70.0,
		PracticeScoreThreshold:        80.0,
		PositiveSentimentThreshold:    0.5,
		EnrolledLowScoreBoost:         50.0,
		PositiveFeedbackBoost:         30.0,
		PopularCourseBoost:            40.0,
		PopularityBoostMinEnrollments: 10,
		RatingBoostThreshold:          3.5,
		SentimentStep:                 0.15,
		MaxAttemptsScanned:            0,
		MaxFeedbackScanned:            0,
	}
	return c
}
