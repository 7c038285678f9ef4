// Package sentiment scores free-text feedback into a bounded signal.
package sentiment

import (
	"math"
	"strings"
)

// Default sentiment configuration constants.
const (
	defaultStep = 0.15
	minScore    = -1.0
	maxScore    = 1.0
)

// Keyword sets used by the default analyzer. Matching is case-insensitive
// substring containment: each keyword contributes at most once per text,
// regardless of how many times it occurs.
var (
	defaultPositiveKeywords = []string{
		"good", "great", "excellent", "helpful", "useful", "clear",
		"understand", "easy", "love", "amazing", "wonderful",
	}
	defaultNegativeKeywords = []string{
		"difficult", "hard", "confusing", "unclear", "bad", "poor",
		"terrible", "hate", "disappoint", "waste", "useless",
	}
)

// Analyzer scores free text into [-1, 1]. Implementations must be
// deterministic and side-effect free.
type Analyzer interface {
	Analyze(text string) float64
}

// KeywordAnalyzer implements Analyzer with fixed keyword sets.
type KeywordAnalyzer struct {
	step     float64
	positive []string
	negative []string
}

// NewKeywordAnalyzer creates an analyzer with configuration options.
func NewKeywordAnalyzer(opts ...Option) *KeywordAnalyzer {
	a := &KeywordAnalyzer{
		step:     defaultStep,
		positive: defaultPositiveKeywords,
		negative: defaultNegativeKeywords,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze scores text into [-1, 1]. Empty or whitespace-only text scores 0.
func (a *KeywordAnalyzer) Analyze(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	lower := strings.ToLower(text)
	score := 0.0

	for _, word := range a.positive {
		if strings.Contains(lower, word) {
			score += a.step
		}
	}
	for _, word := range a.negative {
		if strings.Contains(lower, word) {
			score -= a.step
		}
	}

	return math.Max(minScore, math.Min(maxScore, score))
}
