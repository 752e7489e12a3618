// Package translation turns untranslated reference rows into dictionary
// entries with one translation per configured language.
//
// Rows are processed per kind in chunks. Each chunk costs one call to the
// translation service; a failed call or an unusable reply skips the chunk
// and leaves its rows untranslated for the next run.
package translation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// Store is the persistence the processor needs.
type Store interface {
	EntryStore
	ListUntranslated(ctx context.Context, kind domain.Kind) ([]domain.SourceRow, error)
	InsertTranslations(ctx context.Context, translations []domain.Translation) (int, error)
	MarkTranslated(ctx context.Context, kind domain.Kind, id int64) error
}

// Completer sends one prompt to the translation service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TxRunner runs fn inside a transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config controls batching and target languages.
type Config struct {
	BatchSize int
	Languages []domain.Language
	DryRun    bool
}

// Result summarizes one kind (or a whole run when merged).
type Result struct {
	Rows           int
	Batches        int
	FailedBatches  int
	SkippedRows    int
	FailedRows     int
	TranslatedRows int
	Translations   int
	EntriesCreated int
}

func (r *Result) add(o Result) {
	r.Rows += o.Rows
	r.Batches += o.Batches
	r.FailedBatches += o.FailedBatches
	r.SkippedRows += o.SkippedRows
	r.FailedRows += o.FailedRows
	r.TranslatedRows += o.TranslatedRows
	r.Translations += o.Translations
	r.EntriesCreated += o.EntriesCreated
}

// Processor runs the translation batches.
type Processor struct {
	store     Store
	completer Completer
	tx        TxRunner
	builder   *Builder
	cfg       Config
	log       *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(store Store, completer Completer, tx TxRunner, cfg Config, logger *slog.Logger) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = domain.AllLanguages()
	}
	return &Processor{
		store:     store,
		completer: completer,
		tx:        tx,
		builder:   NewBuilder(store, logger),
		cfg:       cfg,
		log:       logger,
	}
}

// Run translates every kind in order. A kind that fails is logged and the
// next kind still runs; the returned error is the first kind failure.
func (p *Processor) Run(ctx context.Context, kinds []domain.Kind) (Result, error) {
	var total Result
	var firstErr error

	for _, kind := range kinds {
		res, err := p.ProcessKind(ctx, kind)
		total.add(res)
		if err != nil {
			p.log.ErrorContext(ctx, "translate kind failed",
				slog.String("kind", kind.String()),
				slog.String("error", err.Error()),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("translate %s: %w", kind, err)
			}
			if ctx.Err() != nil {
				return total, firstErr
			}
		}
	}

	return total, firstErr
}

// ProcessKind translates every untranslated row of one kind.
func (p *Processor) ProcessKind(ctx context.Context, kind domain.Kind) (Result, error) {
	var res Result

	rows, err := p.store.ListUntranslated(ctx, kind)
	if err != nil {
		return res, fmt.Errorf("list untranslated: %w", err)
	}
	res.Rows = len(rows)

	log := p.log.With(slog.String("kind", kind.String()))
	log.InfoContext(ctx, "translating kind", slog.Int("rows", len(rows)))

	for start := 0; start < len(rows); start += p.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		end := min(start+p.cfg.BatchSize, len(rows))
		res.Batches++

		if p.cfg.DryRun {
			res.SkippedRows += end - start
			continue
		}

		batchRes, err := p.processBatch(ctx, log, rows[start:end])
		res.add(batchRes)
		if err != nil {
			return res, err
		}
	}

	log.InfoContext(ctx, "kind translated",
		slog.Int("batches", res.Batches),
		slog.Int("failed_batches", res.FailedBatches),
		slog.Int("translated_rows", res.TranslatedRows),
	)
	return res, nil
}

// processBatch handles one chunk. Only dictionary entry failures are
// returned as errors; translation failures skip the chunk.
func (p *Processor) processBatch(ctx context.Context, log *slog.Logger, chunk []domain.SourceRow) (Result, error) {
	var res Result

	rows, created, err := p.builder.Build(ctx, chunk)
	res.EntriesCreated = created
	if err != nil {
		return res, fmt.Errorf("build dictionary entries: %w", err)
	}

	words := make([]string, len(rows))
	for i, r := range rows {
		words[i] = r.Word()
	}

	reply, err := p.completer.Complete(ctx, BuildPrompt(p.cfg.Languages, words))
	if err != nil {
		log.WarnContext(ctx, "translation request failed, skipping batch",
			slog.Int64("first_id", rows[0].ID),
			slog.String("error", err.Error()),
		)
		res.FailedBatches++
		res.SkippedRows += len(rows)
		return res, nil
	}

	table, err := ParseResponse(reply, p.cfg.Languages, len(rows))
	if err != nil {
		log.WarnContext(ctx, "unusable translation reply, skipping batch",
			slog.Int64("first_id", rows[0].ID),
			slog.String("error", err.Error()),
		)
		res.FailedBatches++
		res.SkippedRows += len(rows)
		return res, nil
	}

	for i, row := range rows {
		n, err := p.persistRow(ctx, row, table, i)
		if err != nil {
			log.WarnContext(ctx, "persist translations failed",
				slog.Int64("id", row.ID),
				slog.String("error", err.Error()),
			)
			res.FailedRows++
			continue
		}
		res.Translations += n
		res.TranslatedRows++
	}

	return res, nil
}

// persistRow writes one translation per language and flips is_translated,
// all in one transaction.
func (p *Processor) persistRow(ctx context.Context, row domain.SourceRow, table Table, idx int) (int, error) {
	translations := make([]domain.Translation, 0, len(p.cfg.Languages))
	for _, l := range p.cfg.Languages {
		translations = append(translations, domain.Translation{
			DictionaryID: row.DictionaryID,
			Language:     l.Code,
			Value:        table[l.Code][idx],
		})
	}

	var inserted int
	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := p.store.InsertTranslations(ctx, translations)
		if err != nil {
			return fmt.Errorf("insert translations: %w", err)
		}
		inserted = n

		if err := p.store.MarkTranslated(ctx, row.Kind, row.ID); err != nil {
			return fmt.Errorf("mark translated: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
