// Package sequence allocates ids for tables whose ids are assigned by the
// application rather than by a database sequence.
//
// Allocation reads MAX(id) and is only safe while a single writer runs.
package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/guymillicare/parsingHugeData/internal/adapter/postgres"
)

// Allocator reads the next free id of a table.
type Allocator struct {
	pool *pgxpool.Pool
}

// New creates an Allocator.
func New(pool *pgxpool.Pool) *Allocator {
	return &Allocator{pool: pool}
}

// NextID returns MAX(id)+1 of the table, or 1 when it is empty.
// Inside RunInTx the read goes through the ambient transaction.
func (a *Allocator) NextID(ctx context.Context, table string) (int64, error) {
	return NextID(ctx, postgres.QuerierFromCtx(ctx, a.pool), table)
}

// NextID returns MAX(id)+1 of the table using q, or 1 when it is empty.
func NextID(ctx context.Context, q postgres.Querier, table string) (int64, error) {
	query, args, err := postgres.Builder().
		Select("COALESCE(MAX(id), 0)").
		From(table).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build max id query: %w", err)
	}

	var maxID int64
	if err := q.QueryRow(ctx, query, args...).Scan(&maxID); err != nil {
		return 0, postgres.MapError(err, table, "max(id)")
	}

	return maxID + 1, nil
}

// Counter hands out consecutive ids starting at a seed. It is a plain value
// owned by one insertion loop.
type Counter struct {
	next int64
}

// NewCounter starts a counter at first.
func NewCounter(first int64) Counter {
	return Counter{next: first}
}

// Next returns the current id and advances the counter.
func (c *Counter) Next() int64 {
	id := c.next
	c.next++
	return id
}
