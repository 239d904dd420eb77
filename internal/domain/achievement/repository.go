package achievement

import "context"

// Repository is the durable store for achievement state.
type Repository interface {
	// Save upserts a user's achievement snapshot.
	Save(ctx context.Context, s State) error

	// ByUser returns the user's snapshot, or shared.ErrNotFound when the
	// user has never saved achievements.
	ByUser(ctx context.Context, userID string) (State, error)
}
