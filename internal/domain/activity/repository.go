package activity

import "context"

// Repository is the durable store for activity records.
// Implementations must treat a league's activity set as one consistent
// snapshot per read: the ranking engine scores whatever this returns.
type Repository interface {
	// Save persists a record and files it under each of the given leagues
	// in a single transaction.
	Save(ctx context.Context, rec Record, leagueIDs []string) error

	// ByUser returns all records owned by the given user.
	ByUser(ctx context.Context, userID string) ([]Record, error)

	// ByLeague returns all records filed under the given league.
	ByLeague(ctx context.Context, leagueID string) ([]Record, error)
}
