// Package refdata implements persistence of feed-synchronized reference
// tables (sports, countries, tournaments, market and outcome constants) and
// the sport/market group associations derived from them.
package refdata

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/guymillicare/parsingHugeData/internal/adapter/postgres"
	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// Repo provides reference data persistence backed by PostgreSQL.
// Every method runs on the transaction carried by ctx when there is one.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reference data repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// DeleteByFeed removes every row of table tagged with dataFeed.
func (r *Repo) DeleteByFeed(ctx context.Context, table, dataFeed string) (int64, error) {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"data_feed": dataFeed}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete %s: %w", table, err)
	}

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, table, dataFeed)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Batch inserts (pgx.Batch API)
// ---------------------------------------------------------------------------

// InsertSports inserts sports rows with their preassigned ids.
func (r *Repo) InsertSports(ctx context.Context, sports []domain.Sport) (int, error) {
	batch := &pgx.Batch{}
	for _, s := range sports {
		batch.Queue(
			`INSERT INTO sports (id, reference_id, name, type, slug, "order", status, is_translated, flag, data_feed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
			s.ID, s.ReferenceID, s.Name, s.Type, s.Slug, s.Order, s.Status, s.IsTranslated, s.Flag, s.DataFeed,
		)
	}
	n, err := postgres.SendBatchExec(ctx, r.q(ctx), batch)
	if err != nil {
		return n, postgres.MapError(err, "sports", "batch")
	}
	return n, nil
}

// InsertCountries inserts countries rows with their preassigned ids.
func (r *Repo) InsertCountries(ctx context.Context, countries []domain.Country) (int, error) {
	batch := &pgx.Batch{}
	for _, c := range countries {
		batch.Queue(
			`INSERT INTO countries (id, reference_id, name, abbr, "order", is_translated, flag, data_feed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
			c.ID, c.ReferenceID, c.Name, c.Abbr, c.Order, c.IsTranslated, c.Flag, c.DataFeed,
		)
	}
	n, err := postgres.SendBatchExec(ctx, r.q(ctx), batch)
	if err != nil {
		return n, postgres.MapError(err, "countries", "batch")
	}
	return n, nil
}

// InsertTournaments inserts tournaments rows with their preassigned ids.
func (r *Repo) InsertTournaments(ctx context.Context, tournaments []domain.Tournament) (int, error) {
	batch := &pgx.Batch{}
	for _, t := range tournaments {
		batch.Queue(
			`INSERT INTO tournaments (id, reference_id, sport_id, country_id, name, abbr, "order", is_translated, flag, data_feed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
			t.ID, t.ReferenceID, t.SportID, t.CountryID, t.Name, t.Abbr, t.Order, t.IsTranslated, t.Flag, t.DataFeed,
		)
	}
	n, err := postgres.SendBatchExec(ctx, r.q(ctx), batch)
	if err != nil {
		return n, postgres.MapError(err, "tournaments", "batch")
	}
	return n, nil
}

// InsertMarkets inserts market_constants rows with their preassigned ids.
// lo_id, lco_id, valid_specifier_value and specifiers are left NULL.
func (r *Repo) InsertMarkets(ctx context.Context, markets []domain.MarketConstant) (int, error) {
	batch := &pgx.Batch{}
	for _, m := range markets {
		batch.Queue(
			`INSERT INTO market_constants (id, reference_id, description, groups, sports, "order", is_translated, data_feed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
			m.ID, m.ReferenceID, m.Description, m.Groups, m.Sports, m.Order, m.IsTranslated, m.DataFeed,
		)
	}
	n, err := postgres.SendBatchExec(ctx, r.q(ctx), batch)
	if err != nil {
		return n, postgres.MapError(err, "market_constants", "batch")
	}
	return n, nil
}

// InsertOutcomes inserts outcome_constants rows with their preassigned ids.
func (r *Repo) InsertOutcomes(ctx context.Context, outcomes []domain.OutcomeConstant) (int, error) {
	batch := &pgx.Batch{}
	for _, o := range outcomes {
		batch.Queue(
			`INSERT INTO outcome_constants (id, reference_id, name, "order", is_translated, data_feed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
			o.ID, o.ReferenceID, o.Name, o.Order, o.IsTranslated, o.DataFeed,
		)
	}
	n, err := postgres.SendBatchExec(ctx, r.q(ctx), batch)
	if err != nil {
		return n, postgres.MapError(err, "outcome_constants", "batch")
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// ListSports returns sports ordered by id. An empty dataFeed returns every sport.
func (r *Repo) ListSports(ctx context.Context, dataFeed string) ([]domain.Sport, error) {
	sb := postgres.Builder().
		Select("id", "COALESCE(reference_id, '')", "name", "type", "slug", `"order"`, "status", "is_translated", "flag", "COALESCE(data_feed, '')").
		From("sports").
		OrderBy("id")
	if dataFeed != "" {
		sb = sb.Where(squirrel.Eq{"data_feed": dataFeed})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sports: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "sports", dataFeed)
	}

	sports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Sport, error) {
		var s domain.Sport
		err := row.Scan(&s.ID, &s.ReferenceID, &s.Name, &s.Type, &s.Slug, &s.Order, &s.Status, &s.IsTranslated, &s.Flag, &s.DataFeed)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan sports: %w", err)
	}
	return sports, nil
}

// ListCountries returns countries ordered by id. An empty dataFeed returns every country.
func (r *Repo) ListCountries(ctx context.Context, dataFeed string) ([]domain.Country, error) {
	sb := postgres.Builder().
		Select("id", "COALESCE(reference_id, '')", "name", "COALESCE(abbr, '')", `"order"`, "is_translated", "flag", "COALESCE(data_feed, '')").
		From("countries").
		OrderBy("id")
	if dataFeed != "" {
		sb = sb.Where(squirrel.Eq{"data_feed": dataFeed})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list countries: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "countries", dataFeed)
	}

	countries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Country, error) {
		var c domain.Country
		err := row.Scan(&c.ID, &c.ReferenceID, &c.Name, &c.Abbr, &c.Order, &c.IsTranslated, &c.Flag, &c.DataFeed)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan countries: %w", err)
	}
	return countries, nil
}

// ListMarkets returns every market constant ordered by id.
func (r *Repo) ListMarkets(ctx context.Context) ([]domain.MarketConstant, error) {
	query, args, err := postgres.Builder().
		Select("id", "COALESCE(reference_id, '')", "description", "groups", "COALESCE(sports, '')", `"order"`, "is_translated", "COALESCE(data_feed, '')").
		From("market_constants").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list markets: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "market_constants", "all")
	}

	markets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MarketConstant, error) {
		var m domain.MarketConstant
		err := row.Scan(&m.ID, &m.ReferenceID, &m.Description, &m.Groups, &m.Sports, &m.Order, &m.IsTranslated, &m.DataFeed)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan markets: %w", err)
	}
	return markets, nil
}

// ---------------------------------------------------------------------------
// Sport/market groups
// ---------------------------------------------------------------------------

// SportMarketGroupExists reports whether any association of the pair exists.
func (r *Repo) SportMarketGroupExists(ctx context.Context, sportID, marketID int64) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sport_market_groups WHERE sport_id = $1 AND market_id = $2)`,
		sportID, marketID,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "sport_market_groups", fmt.Sprintf("%d/%d", sportID, marketID))
	}
	return exists, nil
}

// FindMarketGroup resolves a market group by name.
// Returns domain.ErrNotFound when no group has that name.
func (r *Repo) FindMarketGroup(ctx context.Context, name string) (domain.MarketGroup, error) {
	var g domain.MarketGroup
	err := r.q(ctx).QueryRow(ctx,
		`SELECT id, market_group FROM market_groups WHERE market_group = $1 ORDER BY id LIMIT 1`,
		name,
	).Scan(&g.ID, &g.Name)
	if err != nil {
		return domain.MarketGroup{}, postgres.MapError(err, "market_groups", name)
	}
	return g, nil
}

// InsertSportMarketGroups inserts associations with their preassigned ids.
func (r *Repo) InsertSportMarketGroups(ctx context.Context, groups []domain.SportMarketGroup) (int, error) {
	batch := &pgx.Batch{}
	for _, g := range groups {
		batch.Queue(
			`INSERT INTO sport_market_groups (id, sport_id, market_id, group_id, sport_name, group_name, market_name, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
			g.ID, g.SportID, g.MarketID, g.GroupID, g.SportName, g.GroupName, g.MarketName,
		)
	}
	n, err := postgres.SendBatchExec(ctx, r.q(ctx), batch)
	if err != nil {
		return n, postgres.MapError(err, "sport_market_groups", "batch")
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Dictionary re-linking
// ---------------------------------------------------------------------------

// RelinkDictionaries points dictionary entries whose row vanished during a
// resync at the new row with the same reference_id, then marks the feed's
// rows that already own translations as translated. An entry belongs to a
// row only while both id and reference_id match, since ids of a table that
// was emptied can be handed out again.
// Returns the number of re-linked entries.
func (r *Repo) RelinkDictionaries(ctx context.Context, kind domain.Kind, dataFeed string) (int, error) {
	if !kind.HasReference() {
		return 0, nil
	}
	table := kind.Table()
	q := r.q(ctx)

	tag, err := q.Exec(ctx, fmt.Sprintf(
		`UPDATE dictionaries d
		 SET group_id = t.id, updated_at = now()
		 FROM %[1]s t
		 WHERE d."group" = $1
		   AND t.data_feed = $2
		   AND d.group_ref_id <> ''
		   AND d.group_ref_id = t.reference_id
		   AND NOT EXISTS (
		       SELECT 1 FROM %[1]s cur
		       WHERE cur.id = d.group_id AND cur.reference_id = d.group_ref_id)`, table),
		kind.DictionaryGroup(), dataFeed,
	)
	if err != nil {
		return 0, postgres.MapError(err, "dictionaries", kind)
	}

	_, err = q.Exec(ctx, fmt.Sprintf(
		`UPDATE %[1]s t
		 SET is_translated = true, updated_at = now()
		 WHERE t.data_feed = $2
		   AND t.is_translated = false
		   AND EXISTS (
		       SELECT 1 FROM dictionaries d
		       JOIN translations tr ON tr.dictionary_id = d.id
		       WHERE d."group" = $1
		         AND d.group_id = t.id
		         AND d.group_ref_id = COALESCE(t.reference_id, ''))`, table),
		kind.DictionaryGroup(), dataFeed,
	)
	if err != nil {
		return 0, postgres.MapError(err, table, dataFeed)
	}

	return int(tag.RowsAffected()), nil
}
