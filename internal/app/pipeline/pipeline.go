// Package pipeline runs the reference sync and translation phases in their
// canonical order and records a result per phase.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/guymillicare/parsingHugeData/internal/app/refsync"
	"github.com/guymillicare/parsingHugeData/internal/app/translation"
	"github.com/guymillicare/parsingHugeData/internal/domain"
	"github.com/guymillicare/parsingHugeData/pkg/ctxutil"
)

// Phase names.
const (
	PhaseSports      = "sports"
	PhaseCountries   = "countries"
	PhaseTournaments = "tournaments"
	PhaseMarkets     = "markets"
	PhaseSportGroups = "sport-groups"
	PhaseTranslate   = "translate"
)

// allPhases defines the canonical execution order. Tournaments depend on
// sports and countries; sport groups depend on sports and markets.
var allPhases = []string{
	PhaseSports, PhaseCountries, PhaseTournaments,
	PhaseMarkets, PhaseSportGroups, PhaseTranslate,
}

// AllPhases returns every phase in execution order.
func AllPhases() []string {
	return append([]string(nil), allPhases...)
}

// ParsePhases parses a comma-separated phase list. An empty string selects
// every phase.
func ParsePhases(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	known := make(map[string]bool, len(allPhases))
	for _, ph := range allPhases {
		known[ph] = true
	}

	var (
		phases []string
		errs   []domain.FieldError
	)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !known[part] {
			errs = append(errs, domain.FieldError{Field: "phase", Message: fmt.Sprintf("unknown phase %q", part)})
			continue
		}
		phases = append(phases, part)
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return phases, nil
}

// Syncer mirrors feed collections into local tables.
type Syncer interface {
	SyncSports(ctx context.Context) (refsync.Result, error)
	SyncCountries(ctx context.Context) (refsync.Result, error)
	SyncTournaments(ctx context.Context) (refsync.Result, error)
	SyncMarkets(ctx context.Context) (refsync.Result, error)
	SyncSportGroups(ctx context.Context) (refsync.Result, error)
}

// Translator translates untranslated rows of the given kinds.
type Translator interface {
	Run(ctx context.Context, kinds []domain.Kind) (translation.Result, error)
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Updated  int
	Skipped  int
	Errors   int
	Duration time.Duration
	Err      error
}

// Pipeline orchestrates the sync and translation phases.
type Pipeline struct {
	log        *slog.Logger
	syncer     Syncer
	translator Translator
	kinds      []domain.Kind
	results    map[string]PhaseResult
}

// NewPipeline creates a new Pipeline. translator may be nil when the
// translate phase is not going to run.
func NewPipeline(log *slog.Logger, syncer Syncer, translator Translator, kinds []domain.Kind) *Pipeline {
	if len(kinds) == 0 {
		kinds = domain.AllKinds()
	}
	return &Pipeline{
		log:        log,
		syncer:     syncer,
		translator: translator,
		kinds:      kinds,
		results:    make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run, still in canonical order. A failing phase is recorded and the next
// phase runs; only a cancelled context stops the run early.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun := selectPhases(phases)

	for _, phase := range toRun {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline interrupted before %s: %w", phase, err)
		}

		start := time.Now()
		p.log.InfoContext(ctx, "starting phase", slog.String("phase", phase))

		result := p.runPhase(ctxutil.WithPhase(ctx, phase), phase)
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.WarnContext(ctx, "phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.InfoContext(ctx, "phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("updated", result.Updated),
				slog.Int("skipped", result.Skipped),
				slog.Int("errors", result.Errors),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	p.log.InfoContext(ctx, "pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

func selectPhases(phases []string) []string {
	if len(phases) == 0 {
		return allPhases
	}
	filter := make(map[string]bool, len(phases))
	for _, ph := range phases {
		filter[ph] = true
	}
	var filtered []string
	for _, ph := range allPhases {
		if filter[ph] {
			filtered = append(filtered, ph)
		}
	}
	return filtered
}

func (p *Pipeline) runPhase(ctx context.Context, phase string) PhaseResult {
	switch phase {
	case PhaseSports:
		return fromSync(p.syncer.SyncSports(ctx))
	case PhaseCountries:
		return fromSync(p.syncer.SyncCountries(ctx))
	case PhaseTournaments:
		return fromSync(p.syncer.SyncTournaments(ctx))
	case PhaseMarkets:
		return fromSync(p.syncer.SyncMarkets(ctx))
	case PhaseSportGroups:
		return fromSync(p.syncer.SyncSportGroups(ctx))
	case PhaseTranslate:
		return p.runTranslate(ctx)
	default:
		return PhaseResult{Err: fmt.Errorf("unknown phase %q", phase)}
	}
}

func fromSync(res refsync.Result, err error) PhaseResult {
	if err != nil {
		return PhaseResult{Err: err}
	}
	return PhaseResult{
		Inserted: res.Inserted,
		Updated:  res.Relinked,
		Skipped:  res.Skipped,
	}
}

func (p *Pipeline) runTranslate(ctx context.Context) PhaseResult {
	if p.translator == nil {
		return PhaseResult{Err: fmt.Errorf("translator not configured")}
	}

	res, err := p.translator.Run(ctx, p.kinds)
	return PhaseResult{
		Inserted: res.Translations,
		Updated:  res.TranslatedRows,
		Skipped:  res.SkippedRows,
		Errors:   res.FailedBatches + res.FailedRows,
		Err:      err,
	}
}
