package visit

import "context"

type Repository interface {
	// Create persists a new visit together with its procedures.
	Create(ctx context.Context, v *Visit) error

	// ListByUser returns all of the user's visits ordered by date descending,
	// with procedures attached.
	ListByUser(ctx context.Context, userID string) ([]*Visit, error)

	// Update rewrites the visit's fields and replaces its entire procedure
	// set. Returns ErrVisitNotFound if the visit does not exist or is not
	// owned by v.UserID.
	Update(ctx context.Context, v *Visit) error

	// Delete removes the visit and, by cascade, its procedures. Returns
	// ErrVisitNotFound when no row matches (id, userID).
	Delete(ctx context.Context, id int64, userID string) error

	// DeleteAllForUser wipes every visit and procedure owned by the user.
	DeleteAllForUser(ctx context.Context, userID string) error
}
