package social

import "context"

// Repository is the durable store for likes and comments.
type Repository interface {
	// ToggleLike flips the given user's like on an activity and returns
	// the resulting state.
	ToggleLike(ctx context.Context, activityID, userID string) (LikeToggle, error)

	// Comments returns an activity's comments ordered by date ascending.
	Comments(ctx context.Context, activityID string) ([]Comment, error)

	// AddComment stores a comment and returns it with its assigned ID.
	AddComment(ctx context.Context, activityID string, c Comment) (Comment, error)
}
