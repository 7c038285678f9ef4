package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SKILLFORGE_CONFIG is set
//  3. env (prefix SKILLFORGE_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx

	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SKILLFORGE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SKILLFORGE_ADDR, SKILLFORGE_QUEUE_SIZE, ...
	// Map env keys like SKILLFORGE_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SKILLFORGE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "skillforge_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks invariants the rest of the service relies on.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.EventQueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("%w: max_recommendations must be positive", ErrInvalidConfig)
	}
	if c.SentimentStep <= 0 {
		return fmt.Errorf("%w: sentiment_step must be positive", ErrInvalidConfig)
	}
	if c.MaxAttemptsScanned < 0 || c.MaxFeedbackScanned < 0 {
		return fmt.Errorf("%w: scan caps must not be negative", ErrInvalidConfig)
	}
	return nil
}
