package config

import (
	"time"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Feed       FeedConfig       `yaml:"feed"`
	Translator TranslatorConfig `yaml:"translator"`
	Sync       SyncConfig       `yaml:"sync"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// FeedConfig holds upstream feed API settings.
type FeedConfig struct {
	BaseURL       string        `yaml:"base_url"       env:"FEED_BASE_URL"       env-default:"https://demofeed.betapi.win/FeedApi"`
	DataFeed      string        `yaml:"data_feed"      env:"FEED_DATA_FEED"      env-default:"huge_data"`
	Timeout       time.Duration `yaml:"timeout"        env:"FEED_TIMEOUT"        env-default:"30s"`
	MaxRetries    uint64        `yaml:"max_retries"    env:"FEED_MAX_RETRIES"    env-default:"2"`
	RetryInterval time.Duration `yaml:"retry_interval" env:"FEED_RETRY_INTERVAL" env-default:"500ms"`
}

// TranslatorConfig holds translation service settings.
type TranslatorConfig struct {
	APIKey       string        `yaml:"api_key"    env:"TRANSLATOR_API_KEY"`
	BaseURL      string        `yaml:"base_url"   env:"TRANSLATOR_BASE_URL"`
	Model        string        `yaml:"model"      env:"TRANSLATOR_MODEL"      env-default:"claude-3-5-haiku-latest"`
	MaxTokens    int64         `yaml:"max_tokens" env:"TRANSLATOR_MAX_TOKENS" env-default:"4096"`
	Timeout      time.Duration `yaml:"timeout"    env:"TRANSLATOR_TIMEOUT"    env-default:"2m"`
	BatchSize    int           `yaml:"batch_size" env:"TRANSLATOR_BATCH_SIZE" env-default:"10"`
	LanguagesRaw string        `yaml:"languages"  env:"TRANSLATOR_LANGUAGES"  env-default:"en,tr,ar,es,pt,ru,fr,de,zh,ja,it,ko"`
	KindsRaw     string        `yaml:"kinds"      env:"TRANSLATOR_KINDS"`

	// Languages is parsed from LanguagesRaw during validation.
	Languages []domain.Language `yaml:"-" env:"-"`
	// Kinds is parsed from KindsRaw during validation; empty KindsRaw means all kinds.
	Kinds []domain.Kind `yaml:"-" env:"-"`
}

// SyncConfig holds settings for a whole pipeline run.
type SyncConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"SYNC_TIMEOUT" env-default:"2h"`
	DryRun  bool          `yaml:"dry_run" env:"SYNC_DRY_RUN" env-default:"false"`
}
