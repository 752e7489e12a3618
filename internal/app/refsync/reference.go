package refsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guymillicare/parsingHugeData/internal/adapter/postgres/sequence"
	"github.com/guymillicare/parsingHugeData/internal/domain"
	"github.com/guymillicare/parsingHugeData/internal/provider"
)

// replace deletes the feed's rows of kind and inserts new ones in one
// transaction. build receives the first free id.
func (e *Engine) replace(ctx context.Context, kind domain.Kind, build func(ctx context.Context, first int64) (int, error)) (Result, error) {
	var res Result

	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		first, deleted, err := e.clear(ctx, kind)
		if err != nil {
			return err
		}
		res.Deleted = deleted

		inserted, err := build(ctx, first)
		if err != nil {
			return err
		}
		res.Inserted = inserted

		res.Relinked, err = e.relink(ctx, kind)
		return err
	})

	return res, err
}

// clear reads the first free id of kind's table and deletes the feed's rows.
// The id is read before the delete so new ids stay above every id the table
// has held.
func (e *Engine) clear(ctx context.Context, kind domain.Kind) (int64, int, error) {
	first, err := e.ids.NextID(ctx, kind.Table())
	if err != nil {
		return 0, 0, fmt.Errorf("next %s id: %w", kind, err)
	}

	deleted, err := e.store.DeleteByFeed(ctx, kind.Table(), e.opts.DataFeed)
	if err != nil {
		return 0, 0, fmt.Errorf("delete %s: %w", kind, err)
	}
	return first, int(deleted), nil
}

func (e *Engine) relink(ctx context.Context, kind domain.Kind) (int, error) {
	n, err := e.store.RelinkDictionaries(ctx, kind, e.opts.DataFeed)
	if err != nil {
		return 0, fmt.Errorf("relink %s dictionaries: %w", kind, err)
	}
	return n, nil
}

// SyncSports replaces the feed's sports. Sports without an upstream id are skipped.
func (e *Engine) SyncSports(ctx context.Context) (Result, error) {
	fetched, err := e.feed.Sports(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch sports: %w", err)
	}

	items := make([]provider.Sport, 0, len(fetched))
	for _, s := range fetched {
		if s.ID.IsZero() {
			continue
		}
		items = append(items, s)
	}
	skipped := len(fetched) - len(items)

	e.log.InfoContext(ctx, "sports fetched", slog.Int("count", len(fetched)), slog.Int("skipped", skipped))
	if e.opts.DryRun {
		return Result{Fetched: len(fetched), Skipped: len(fetched)}, nil
	}

	res, err := e.replace(ctx, domain.KindSports, func(ctx context.Context, first int64) (int, error) {
		ids := sequence.NewCounter(first)
		rows := make([]domain.Sport, len(items))
		for i, s := range items {
			id := ids.Next()
			rows[i] = domain.Sport{
				ID:          id,
				ReferenceID: s.ID.String(),
				Name:        s.Name,
				Slug:        domain.SportSlug(s.Name),
				Order:       id,
				Status:      true,
				DataFeed:    e.opts.DataFeed,
			}
		}
		n, err := e.store.InsertSports(ctx, rows)
		if err != nil {
			return n, fmt.Errorf("insert sports: %w", err)
		}
		return n, nil
	})
	res.Fetched = len(fetched)
	res.Skipped = skipped
	return res, err
}

// SyncCountries replaces the feed's countries.
func (e *Engine) SyncCountries(ctx context.Context) (Result, error) {
	fetched, err := e.feed.Countries(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch countries: %w", err)
	}

	e.log.InfoContext(ctx, "countries fetched", slog.Int("count", len(fetched)))
	if e.opts.DryRun {
		return Result{Fetched: len(fetched), Skipped: len(fetched)}, nil
	}

	res, err := e.replace(ctx, domain.KindCountries, func(ctx context.Context, first int64) (int, error) {
		ids := sequence.NewCounter(first)
		rows := make([]domain.Country, len(fetched))
		for i, c := range fetched {
			id := ids.Next()
			rows[i] = domain.Country{
				ID:          id,
				ReferenceID: c.ID.String(),
				Name:        c.Name,
				Abbr:        c.ISO2,
				Order:       id,
				DataFeed:    e.opts.DataFeed,
			}
		}
		n, err := e.store.InsertCountries(ctx, rows)
		if err != nil {
			return n, fmt.Errorf("insert countries: %w", err)
		}
		return n, nil
	})
	res.Fetched = len(fetched)
	return res, err
}

// fetchedTournament is a feed tournament with the local pair it came from.
type fetchedTournament struct {
	item      provider.Tournament
	sportID   int64
	countryID int64
}

// SyncTournaments replaces the feed's tournaments. They are fetched per
// (sport, country) pair of the feed's already synced sports and countries.
func (e *Engine) SyncTournaments(ctx context.Context) (Result, error) {
	sports, err := e.store.ListSports(ctx, e.opts.DataFeed)
	if err != nil {
		return Result{}, fmt.Errorf("list sports: %w", err)
	}
	countries, err := e.store.ListCountries(ctx, e.opts.DataFeed)
	if err != nil {
		return Result{}, fmt.Errorf("list countries: %w", err)
	}

	var fetched []fetchedTournament
	for _, s := range sports {
		for _, c := range countries {
			items, err := e.feed.Tournaments(ctx, s.ReferenceID, c.ReferenceID)
			if err != nil {
				return Result{}, fmt.Errorf("fetch tournaments for sport %s country %s: %w", s.ReferenceID, c.ReferenceID, err)
			}
			for _, t := range items {
				fetched = append(fetched, fetchedTournament{item: t, sportID: s.ID, countryID: c.ID})
			}
		}
	}

	e.log.InfoContext(ctx, "tournaments fetched",
		slog.Int("count", len(fetched)),
		slog.Int("pairs", len(sports)*len(countries)),
	)
	if e.opts.DryRun {
		return Result{Fetched: len(fetched), Skipped: len(fetched)}, nil
	}

	res, err := e.replace(ctx, domain.KindTournaments, func(ctx context.Context, first int64) (int, error) {
		ids := sequence.NewCounter(first)
		rows := make([]domain.Tournament, len(fetched))
		for i, t := range fetched {
			id := ids.Next()
			rows[i] = domain.Tournament{
				ID:          id,
				ReferenceID: t.item.ID.String(),
				SportID:     t.sportID,
				CountryID:   t.countryID,
				Name:        t.item.Name,
				Order:       id,
				DataFeed:    e.opts.DataFeed,
			}
		}
		n, err := e.store.InsertTournaments(ctx, rows)
		if err != nil {
			return n, fmt.Errorf("insert tournaments: %w", err)
		}
		return n, nil
	})
	res.Fetched = len(fetched)
	return res, err
}

// SyncMarkets replaces the feed's market constants and their outcome
// constants in one transaction. Each template becomes a market row and each
// of its outcomes an outcome row.
func (e *Engine) SyncMarkets(ctx context.Context) (Result, error) {
	defs, err := e.feed.MarketDefinitions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch market definitions: %w", err)
	}

	var templates []provider.MarketTemplate
	outcomes := 0
	for _, d := range defs {
		templates = append(templates, d.MarketTemplates...)
		for _, t := range d.MarketTemplates {
			outcomes += len(t.Outcomes)
		}
	}
	fetched := len(templates) + outcomes

	e.log.InfoContext(ctx, "market definitions fetched",
		slog.Int("markets", len(templates)),
		slog.Int("outcomes", outcomes),
	)
	if e.opts.DryRun {
		return Result{Fetched: fetched, Skipped: fetched}, nil
	}

	var res Result
	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		firstMarket, deletedMarkets, err := e.clear(ctx, domain.KindMarkets)
		if err != nil {
			return err
		}
		firstOutcome, deletedOutcomes, err := e.clear(ctx, domain.KindOutcomes)
		if err != nil {
			return err
		}
		res.Deleted = deletedMarkets + deletedOutcomes

		marketIDs := sequence.NewCounter(firstMarket)
		outcomeIDs := sequence.NewCounter(firstOutcome)

		markets := make([]domain.MarketConstant, len(templates))
		outcomeRows := make([]domain.OutcomeConstant, 0, outcomes)
		for i, t := range templates {
			id := marketIDs.Next()
			markets[i] = domain.MarketConstant{
				ID:          id,
				ReferenceID: t.ID.String(),
				Description: t.Name,
				Order:       id,
				DataFeed:    e.opts.DataFeed,
			}
			for _, o := range t.Outcomes {
				oid := outcomeIDs.Next()
				outcomeRows = append(outcomeRows, domain.OutcomeConstant{
					ID:          oid,
					ReferenceID: o.ID.String(),
					Name:        o.Name,
					Order:       oid,
					DataFeed:    e.opts.DataFeed,
				})
			}
		}

		n, err := e.store.InsertMarkets(ctx, markets)
		if err != nil {
			return fmt.Errorf("insert markets: %w", err)
		}
		res.Inserted += n

		n, err = e.store.InsertOutcomes(ctx, outcomeRows)
		if err != nil {
			return fmt.Errorf("insert outcomes: %w", err)
		}
		res.Inserted += n

		for _, kind := range []domain.Kind{domain.KindMarkets, domain.KindOutcomes} {
			n, err := e.relink(ctx, kind)
			if err != nil {
				return err
			}
			res.Relinked += n
		}
		return nil
	})

	res.Fetched = fetched
	return res, err
}
