package analytics

import "context"

type Repository interface {
	// Summarize returns per-period totals ordered by period start ascending.
	// An empty range yields an empty slice.
	Summarize(ctx context.Context, q Query) ([]PeriodSummary, error)

	// BreakdownByCode returns per-period per-code totals ordered by period
	// start descending, then total work RVU descending.
	BreakdownByCode(ctx context.Context, q Query) ([]CodeBreakdown, error)
}
