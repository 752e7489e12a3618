package config

import (
	"fmt"
	"net/url"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Feed.validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	if err := c.Translator.validate(); err != nil {
		return fmt.Errorf("translator: %w", err)
	}

	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("sync.timeout must be > 0 (got %v)", c.Sync.Timeout)
	}

	return nil
}

func (f *FeedConfig) validate() error {
	u, err := url.Parse(f.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", f.BaseURL)
	}
	if f.DataFeed == "" {
		return fmt.Errorf("data_feed must not be empty")
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", f.Timeout)
	}
	return nil
}

func (t *TranslatorConfig) validate() error {
	if t.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", t.BatchSize)
	}
	if t.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", t.MaxTokens)
	}

	langs, err := domain.ParseLanguages(t.LanguagesRaw)
	if err != nil {
		return fmt.Errorf("languages: %w", err)
	}
	t.Languages = langs

	kinds, err := domain.ParseKinds(t.KindsRaw)
	if err != nil {
		return fmt.Errorf("kinds: %w", err)
	}
	t.Kinds = kinds

	return nil
}
