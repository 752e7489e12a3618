package testhelper

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// SeedSport inserts a sports row as-is and returns it.
func SeedSport(t *testing.T, pool *pgxpool.Pool, s domain.Sport) domain.Sport {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO sports (id, reference_id, name, type, slug, "order", status, is_translated, flag, data_feed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.ReferenceID, s.Name, s.Type, s.Slug, s.Order, s.Status, s.IsTranslated, s.Flag, s.DataFeed,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSport: %v", err)
	}
	return s
}

// SeedMarket inserts a market_constants row as-is and returns it.
func SeedMarket(t *testing.T, pool *pgxpool.Pool, m domain.MarketConstant) domain.MarketConstant {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO market_constants (id, reference_id, description, groups, sports, "order", is_translated, data_feed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ReferenceID, m.Description, m.Groups, m.Sports, m.Order, m.IsTranslated, m.DataFeed,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMarket: %v", err)
	}
	return m
}

// SeedMarketGroup inserts a market_groups row and returns it.
func SeedMarketGroup(t *testing.T, pool *pgxpool.Pool, id int64, name string) domain.MarketGroup {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO market_groups (id, market_group) VALUES ($1, $2)`, id, name,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMarketGroup: %v", err)
	}
	return domain.MarketGroup{ID: id, Name: name}
}

// SeedTheme inserts a theme_dictionaries row and returns its id.
func SeedTheme(t *testing.T, pool *pgxpool.Pool, key string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO theme_dictionaries ("key") VALUES ($1) RETURNING id`, key,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedTheme: %v", err)
	}
	return id
}

// IsTranslated reads the is_translated flag of one row.
func IsTranslated(t *testing.T, pool *pgxpool.Pool, table string, id int64) bool {
	t.Helper()

	var v bool
	if err := pool.QueryRow(context.Background(),
		"SELECT is_translated FROM "+table+" WHERE id = $1", id,
	).Scan(&v); err != nil {
		t.Fatalf("testhelper: IsTranslated %s %d: %v", table, id, err)
	}
	return v
}

// CountRows counts rows of a table, optionally filtered by data_feed.
func CountRows(t *testing.T, pool *pgxpool.Pool, table, dataFeed string) int {
	t.Helper()

	query := "SELECT count(*) FROM " + table
	args := []any{}
	if dataFeed != "" {
		query += " WHERE data_feed = $1"
		args = append(args, dataFeed)
	}

	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("testhelper: CountRows %s: %v", table, err)
	}
	return n
}
