// Package sentiment scores free-text feedback into a bounded signal.
package sentiment

// Option applies a configuration option to the KeywordAnalyzer.
type Option func(*KeywordAnalyzer)

// WithStep sets the per-keyword contribution. The review pipeline was
// tuned against 0.15; change only with signal.
func WithStep(step float64) Option {
	return func(a *KeywordAnalyzer) {
		if step > 0 {
			a.step = step
		}
	}
}

// WithKeywords replaces both keyword sets. Slices are copied to avoid
// external modifications.
func WithKeywords(positive, negative []string) Option {
	return func(a *KeywordAnalyzer) {
		if len(positive) > 0 {
			a.positive = append([]string(nil), positive...)
		}
		if len(negative) > 0 {
			a.negative = append([]string(nil), negative...)
		}
	}
}
