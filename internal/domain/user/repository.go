package user

import "context"

// Repository is the durable store for users and their Strava credentials.
type Repository interface {
	// Save persists a user profile (upsert by ID).
	Save(ctx context.Context, u User) error

	// ByID returns the user with the given ID, or shared.ErrNotFound.
	ByID(ctx context.Context, id string) (User, error)

	// ByStravaID returns the user linked to the given Strava athlete,
	// or shared.ErrNotFound.
	ByStravaID(ctx context.Context, stravaID string) (User, error)

	// SaveCredentials persists a user's Strava token set (upsert).
	SaveCredentials(ctx context.Context, creds Credentials) error

	// CredentialsByUser returns the user's Strava token set,
	// or shared.ErrNotFound when the account was never linked.
	CredentialsByUser(ctx context.Context, userID string) (Credentials, error)
}

// NicknameResolver resolves display nicknames for leaderboard rows.
// A lookup miss is not an error at the ranking level: callers substitute
// DefaultNickname and continue.
type NicknameResolver interface {
	// Nickname returns the user's nickname, or shared.ErrNotFound.
	Nickname(ctx context.Context, userID string) (string, error)
}
