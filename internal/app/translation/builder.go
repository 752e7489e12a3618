package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// EntryStore persists dictionary entries.
type EntryStore interface {
	FindEntry(ctx context.Context, key domain.DictionaryEntry) (domain.DictionaryEntry, error)
	CreateEntry(ctx context.Context, e domain.DictionaryEntry) (domain.DictionaryEntry, error)
}

// Builder ensures every untranslated row has exactly one dictionary entry.
type Builder struct {
	store EntryStore
	log   *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(store EntryStore, logger *slog.Logger) *Builder {
	return &Builder{store: store, log: logger}
}

// Build attaches a dictionary entry id to each row, creating entries that do
// not exist yet. An entry left behind by an earlier failed batch is reused.
// The input slice is not modified. Returns the rows and the number of newly
// created entries.
func (b *Builder) Build(ctx context.Context, rows []domain.SourceRow) ([]domain.SourceRow, int, error) {
	out := make([]domain.SourceRow, len(rows))
	created := 0

	for i, row := range rows {
		key := domain.NewDictionaryEntry(row)
		entry, err := b.store.FindEntry(ctx, key)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrNotFound):
			entry, err = b.store.CreateEntry(ctx, key)
			if err != nil {
				return nil, created, fmt.Errorf("create dictionary entry for %s %d: %w", row.Kind, row.ID, err)
			}
			created++
		default:
			return nil, created, fmt.Errorf("find dictionary entry for %s %d: %w", row.Kind, row.ID, err)
		}

		row.DictionaryID = entry.ID
		out[i] = row
	}

	b.log.DebugContext(ctx, "dictionary entries ready",
		slog.Int("rows", len(rows)),
		slog.Int("created", created),
	)
	return out, created, nil
}
