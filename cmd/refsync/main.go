// Command refsync mirrors the betting feed's reference data (sports,
// countries, tournaments, markets, outcomes) into PostgreSQL, derives the
// sport/market group links and translates untranslated rows.
//
// Flags:
//
//	--phase    comma-separated list of phases to run (default: all)
//	--dry-run  fetch and count without writing to DB
//	--config   path to YAML config file (default: $CONFIG_PATH or ./config.yaml)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/guymillicare/parsingHugeData/internal/app"
	"github.com/guymillicare/parsingHugeData/internal/app/pipeline"
	"github.com/guymillicare/parsingHugeData/internal/config"
	"github.com/guymillicare/parsingHugeData/pkg/ctxutil"
)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "fetch and count without writing to DB")
	configFlag := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	var cfg *config.Config
	var err error
	if *configFlag != "" {
		cfg, err = config.LoadFrom(*configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, runID := app.WithRunID(app.NewLogger(cfg.Log))

	// CLI flags override config.
	if *dryRunFlag {
		cfg.Sync.DryRun = true
	}

	phases, err := pipeline.ParsePhases(*phaseFlag)
	if err != nil {
		logger.Error("parse phases", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(ctxutil.WithRunID(context.Background(), runID), cfg.Sync.Timeout)
	defer cancel()

	if err := app.Run(ctx, cfg, logger, phases); err != nil {
		logger.Error("refsync failed", slog.String("run_id", runID), slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}
