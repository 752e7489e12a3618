package ctxutil

import (
	"context"
)

type ctxKey string

const (
	runIDKey ctxKey = "run_id"
	phaseKey ctxKey = "phase"
)

// WithRunID stores the pipeline run ID in the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
// Returns an empty string if absent.
func RunIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithPhase stores the name of the running pipeline phase in the context.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromCtx extracts the phase name from the context.
// Returns an empty string if absent.
func PhaseFromCtx(ctx context.Context) string {
	phase, _ := ctx.Value(phaseKey).(string)
	return phase
}
