// Package analytics folds raw platform records into descriptive
// statistics for student, course, and instructor dashboards.
package analytics

import "time"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithClock sets the time source used for open-enrollment durations.
// Tests use this to pin "now".
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}
