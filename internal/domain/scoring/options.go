// Package scoring folds raw platform records into per-course score records.
package scoring

import "github.com/skillforge/engine/internal/domain/sentiment"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithAnalyzer sets the sentiment analyzer used for free-text feedback.
func WithAnalyzer(analyzer sentiment.Analyzer) Option {
	return func(a *Aggregator) {
		if analyzer != nil {
			a.analyzer = analyzer
		}
	}
}
