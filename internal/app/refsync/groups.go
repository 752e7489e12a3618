package refsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/guymillicare/parsingHugeData/internal/adapter/postgres/sequence"
	"github.com/guymillicare/parsingHugeData/internal/domain"
)

const sportMarketGroupsTable = "sport_market_groups"

type sportMarket struct {
	sportID  int64
	marketID int64
}

// SyncSportGroups links every sport to the markets listing its slug. A
// market without groups gets one ungrouped row; otherwise one row per named
// group. Pairs that already have rows are left alone, so the step is
// additive and safe to re-run. Group names missing from market_groups are
// logged and skipped.
func (e *Engine) SyncSportGroups(ctx context.Context) (Result, error) {
	var res Result

	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		sports, err := e.store.ListSports(ctx, "")
		if err != nil {
			return fmt.Errorf("list sports: %w", err)
		}
		markets, err := e.store.ListMarkets(ctx)
		if err != nil {
			return fmt.Errorf("list markets: %w", err)
		}

		first, err := e.ids.NextID(ctx, sportMarketGroupsTable)
		if err != nil {
			return fmt.Errorf("next %s id: %w", sportMarketGroupsTable, err)
		}
		ids := sequence.NewCounter(first)

		groupCache := make(map[string]*domain.MarketGroup)
		done := make(map[sportMarket]bool)
		var rows []domain.SportMarketGroup

		for _, s := range sports {
			for _, m := range markets {
				if !m.AppliesToSport(s.Slug) {
					continue
				}
				key := sportMarket{sportID: s.ID, marketID: m.ID}
				if done[key] {
					continue
				}
				exists, err := e.store.SportMarketGroupExists(ctx, s.ID, m.ID)
				if err != nil {
					return fmt.Errorf("check sport %d market %d: %w", s.ID, m.ID, err)
				}
				if exists {
					res.Skipped++
					continue
				}
				done[key] = true
				res.Fetched++

				if m.IsUngrouped() {
					rows = append(rows, domain.SportMarketGroup{
						ID:         ids.Next(),
						SportID:    s.ID,
						MarketID:   m.ID,
						SportName:  s.Slug,
						MarketName: m.Description,
					})
					continue
				}

				for _, name := range m.GroupNames() {
					if domain.IsAllGroup(name) {
						continue
					}
					group, err := e.lookupGroup(ctx, groupCache, name)
					if err != nil {
						return err
					}
					if group == nil {
						e.log.WarnContext(ctx, "unknown market group, skipping",
							slog.String("group", name),
							slog.Int64("market_id", m.ID),
							slog.Int64("sport_id", s.ID),
						)
						res.Skipped++
						continue
					}
					rows = append(rows, domain.SportMarketGroup{
						ID:         ids.Next(),
						SportID:    s.ID,
						MarketID:   m.ID,
						GroupID:    &group.ID,
						SportName:  s.Slug,
						GroupName:  &group.Name,
						MarketName: m.Description,
					})
				}
			}
		}

		if e.opts.DryRun || len(rows) == 0 {
			if e.opts.DryRun {
				res.Skipped += len(rows)
			}
			return nil
		}

		n, err := e.store.InsertSportMarketGroups(ctx, rows)
		if err != nil {
			return fmt.Errorf("insert sport market groups: %w", err)
		}
		res.Inserted = n
		return nil
	})

	return res, err
}

// lookupGroup resolves a group name once per run. A nil group means the name
// is unknown.
func (e *Engine) lookupGroup(ctx context.Context, cache map[string]*domain.MarketGroup, name string) (*domain.MarketGroup, error) {
	if g, ok := cache[name]; ok {
		return g, nil
	}

	g, err := e.store.FindMarketGroup(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		cache[name] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find market group %q: %w", name, err)
	}

	cache[name] = &g
	return &g, nil
}
