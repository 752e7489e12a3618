package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/guymillicare/parsingHugeData/internal/adapter/postgres"
	"github.com/guymillicare/parsingHugeData/internal/adapter/postgres/dictionary"
	"github.com/guymillicare/parsingHugeData/internal/adapter/postgres/refdata"
	"github.com/guymillicare/parsingHugeData/internal/adapter/postgres/sequence"
	"github.com/guymillicare/parsingHugeData/internal/adapter/provider/feed"
	"github.com/guymillicare/parsingHugeData/internal/adapter/provider/llm"
	"github.com/guymillicare/parsingHugeData/internal/app/pipeline"
	"github.com/guymillicare/parsingHugeData/internal/app/refsync"
	"github.com/guymillicare/parsingHugeData/internal/app/translation"
	"github.com/guymillicare/parsingHugeData/internal/config"
)

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/guymillicare/parsingHugeData/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

// ErrPhaseFailures is returned by Run when the pipeline finished but at
// least one phase recorded an error.
var ErrPhaseFailures = errors.New("pipeline completed with errors")

// Compile-time interface assertions.
var (
	_ refsync.Feed          = (*feed.Client)(nil)
	_ refsync.Store         = (*refdata.Repo)(nil)
	_ refsync.IDAllocator   = (*sequence.Allocator)(nil)
	_ refsync.TxRunner      = (*postgres.TxManager)(nil)
	_ translation.Store     = (*dictionary.Repo)(nil)
	_ translation.Completer = (*llm.Client)(nil)
	_ pipeline.Syncer       = (*refsync.Engine)(nil)
	_ pipeline.Translator   = (*translation.Processor)(nil)
)

// Run connects to the database, wires the sync engine and translation
// processor, and executes the selected phases. An empty phases slice runs
// every phase.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, phases []string) error {
	logger.InfoContext(ctx, "starting refsync",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("dry_run", cfg.Sync.DryRun),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	engine := refsync.NewEngine(
		feed.NewClient(cfg.Feed, logger),
		refdata.New(pool),
		sequence.New(pool),
		txm,
		refsync.Options{DataFeed: cfg.Feed.DataFeed, DryRun: cfg.Sync.DryRun},
		logger,
	)

	var translator pipeline.Translator
	if len(phases) == 0 || slices.Contains(phases, pipeline.PhaseTranslate) {
		completer, err := llm.NewClient(cfg.Translator, logger)
		if err != nil {
			return fmt.Errorf("create translation client: %w", err)
		}
		translator = translation.NewProcessor(
			dictionary.New(pool),
			completer,
			txm,
			translation.Config{
				BatchSize: cfg.Translator.BatchSize,
				Languages: cfg.Translator.Languages,
				DryRun:    cfg.Sync.DryRun,
			},
			logger,
		)
	}

	p := pipeline.NewPipeline(logger, engine, translator, cfg.Translator.Kinds)
	if err := p.Run(ctx, phases); err != nil {
		return err
	}
	if p.HasErrors() {
		return ErrPhaseFailures
	}

	logger.InfoContext(ctx, "pipeline completed successfully")
	return nil
}
