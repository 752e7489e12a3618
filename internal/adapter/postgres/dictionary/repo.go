// Package dictionary implements persistence of dictionary entries, their
// translations and the is_translated progress flag on source tables.
package dictionary

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/guymillicare/parsingHugeData/internal/adapter/postgres"
	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// Repo provides dictionary persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dictionary repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// ListUntranslated returns every row of the kind's table with
// is_translated = false, ordered by id.
func (r *Repo) ListUntranslated(ctx context.Context, kind domain.Kind) ([]domain.SourceRow, error) {
	refExpr := "''"
	if kind.HasReference() {
		refExpr = "COALESCE(reference_id, '')"
	}

	query, args, err := postgres.Builder().
		Select("id", refExpr, "COALESCE("+kind.TextColumn()+", '')").
		From(kind.Table()).
		Where(squirrel.Eq{"is_translated": false}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list untranslated %s: %w", kind, err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, kind.Table(), "untranslated")
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SourceRow, error) {
		sr := domain.SourceRow{Kind: kind}
		err := row.Scan(&sr.ID, &sr.ReferenceID, &sr.Text)
		return sr, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s rows: %w", kind, err)
	}
	return result, nil
}

// FindEntry returns the oldest dictionary entry matching key's group,
// group_id and group_ref_id. Rows without a reference carry an empty group_ref_id.
// Returns domain.ErrNotFound when none exists.
func (r *Repo) FindEntry(ctx context.Context, key domain.DictionaryEntry) (domain.DictionaryEntry, error) {
	query, args, err := postgres.Builder().
		Select("id", `"group"`, "group_id", "group_ref_id").
		From("dictionaries").
		Where(squirrel.Eq{`"group"`: key.Group, "group_id": key.GroupID, "group_ref_id": key.GroupRefID}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("build find entry: %w", err)
	}

	var e domain.DictionaryEntry
	err = r.q(ctx).QueryRow(ctx, query, args...).Scan(&e.ID, &e.Group, &e.GroupID, &e.GroupRefID)
	if err != nil {
		return domain.DictionaryEntry{}, postgres.MapError(err, "dictionaries", fmt.Sprintf("%s/%d", key.Group, key.GroupID))
	}
	return e, nil
}

// CreateEntry inserts a dictionary entry and returns it with its id.
func (r *Repo) CreateEntry(ctx context.Context, e domain.DictionaryEntry) (domain.DictionaryEntry, error) {
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO dictionaries ("group", group_id, group_ref_id, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 RETURNING id`,
		e.Group, e.GroupID, e.GroupRefID,
	).Scan(&e.ID)
	if err != nil {
		return domain.DictionaryEntry{}, postgres.MapError(err, "dictionaries", fmt.Sprintf("%s/%d", e.Group, e.GroupID))
	}
	return e, nil
}

// InsertTranslations inserts translation rows using pgx.Batch.
func (r *Repo) InsertTranslations(ctx context.Context, translations []domain.Translation) (int, error) {
	batch := &pgx.Batch{}
	for _, tr := range translations {
		batch.Queue(
			`INSERT INTO translations (dictionary_id, language, value, created_at, updated_at)
			 VALUES ($1, $2, $3, now(), now())`,
			tr.DictionaryID, tr.Language, tr.Value,
		)
	}
	n, err := postgres.SendBatchExec(ctx, r.q(ctx), batch)
	if err != nil {
		return n, postgres.MapError(err, "translations", "batch")
	}
	return n, nil
}

// MarkTranslated sets is_translated = true on one row of the kind's table.
// Returns domain.ErrNotFound if the row does not exist.
func (r *Repo) MarkTranslated(ctx context.Context, kind domain.Kind, id int64) error {
	query, args, err := postgres.Builder().
		Update(kind.Table()).
		Set("is_translated", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark translated %s: %w", kind, err)
	}

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, kind.Table(), id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", kind.Table(), id, domain.ErrNotFound)
	}
	return nil
}
