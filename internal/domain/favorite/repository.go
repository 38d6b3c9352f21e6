package favorite

import "context"

type Repository interface {
	// ListByUser returns the user's favorites ordered by sort_order, then
	// creation time.
	ListByUser(ctx context.Context, userID string) ([]*Favorite, error)

	// Add inserts the favorite; on (user_id, hcpcs) conflict the existing row
	// is returned untouched.
	Add(ctx context.Context, f *Favorite) error

	// Remove deletes the favorite. Returns ErrFavoriteNotFound when no row
	// matches.
	Remove(ctx context.Context, userID, hcpcs string) error

	// UpdateSortOrder sets the position of a single favorite.
	UpdateSortOrder(ctx context.Context, userID, hcpcs string, sortOrder int) error

	// DeleteAllForUser wipes the user's favorites.
	DeleteAllForUser(ctx context.Context, userID string) error
}
