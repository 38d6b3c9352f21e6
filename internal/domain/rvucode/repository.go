package rvucode

import "context"

type Repository interface {
	// ListAll returns the entire reference table ordered by hcpcs ascending.
	// The cache relies on this ordering for its snapshot's natural order.
	ListAll(ctx context.Context) ([]ReferenceCode, error)

	// UpsertBatch inserts or updates codes in bulk, keyed by hcpcs. Used by
	// the seeding tool when a new RVU release is published.
	UpsertBatch(ctx context.Context, codes []ReferenceCode) error
}
