// Package refsync mirrors the feed's reference collections into local
// tables. Each kind is fetched in full and then replaced inside a single
// transaction, so a failed fetch or insert leaves the previous rows intact.
package refsync

import (
	"context"
	"log/slog"

	"github.com/guymillicare/parsingHugeData/internal/domain"
	"github.com/guymillicare/parsingHugeData/internal/provider"
)

// Feed is the upstream reference data source.
type Feed interface {
	Sports(ctx context.Context) ([]provider.Sport, error)
	Countries(ctx context.Context) ([]provider.Country, error)
	Tournaments(ctx context.Context, sportID, countryID string) ([]provider.Tournament, error)
	MarketDefinitions(ctx context.Context) ([]provider.MarketDefinition, error)
}

// Store persists reference rows.
type Store interface {
	DeleteByFeed(ctx context.Context, table, dataFeed string) (int64, error)
	InsertSports(ctx context.Context, sports []domain.Sport) (int, error)
	InsertCountries(ctx context.Context, countries []domain.Country) (int, error)
	InsertTournaments(ctx context.Context, tournaments []domain.Tournament) (int, error)
	InsertMarkets(ctx context.Context, markets []domain.MarketConstant) (int, error)
	InsertOutcomes(ctx context.Context, outcomes []domain.OutcomeConstant) (int, error)
	ListSports(ctx context.Context, dataFeed string) ([]domain.Sport, error)
	ListCountries(ctx context.Context, dataFeed string) ([]domain.Country, error)
	ListMarkets(ctx context.Context) ([]domain.MarketConstant, error)
	SportMarketGroupExists(ctx context.Context, sportID, marketID int64) (bool, error)
	FindMarketGroup(ctx context.Context, name string) (domain.MarketGroup, error)
	InsertSportMarketGroups(ctx context.Context, groups []domain.SportMarketGroup) (int, error)
	RelinkDictionaries(ctx context.Context, kind domain.Kind, dataFeed string) (int, error)
}

// IDAllocator returns the next free id of a table.
type IDAllocator interface {
	NextID(ctx context.Context, table string) (int64, error)
}

// TxRunner runs fn inside a transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Options tune an Engine.
type Options struct {
	DataFeed string
	DryRun   bool
}

// Result summarizes one sync step.
type Result struct {
	Fetched  int
	Deleted  int
	Inserted int
	Relinked int
	Skipped  int
}

// Engine runs the sync steps.
type Engine struct {
	feed  Feed
	store Store
	ids   IDAllocator
	tx    TxRunner
	opts  Options
	log   *slog.Logger
}

// NewEngine creates an Engine. An empty DataFeed defaults to domain.DefaultDataFeed.
func NewEngine(feed Feed, store Store, ids IDAllocator, tx TxRunner, opts Options, logger *slog.Logger) *Engine {
	if opts.DataFeed == "" {
		opts.DataFeed = domain.DefaultDataFeed
	}
	return &Engine{
		feed:  feed,
		store: store,
		ids:   ids,
		tx:    tx,
		opts:  opts,
		log:   logger,
	}
}
