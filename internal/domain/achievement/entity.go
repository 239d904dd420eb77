// Package achievement contains per-user gamification state. The backend
// stores whatever the client computed; unlock logic lives in the app.
package achievement

import "errors"

// ErrMissingUserID is returned when achievement state has no owner.
var ErrMissingUserID = errors.New("achievement: missing user ID")

// State is one user's achievement snapshot.
type State struct {
	// UserID is the owning user.
	UserID string `json:"userID,omitempty"`

	// Unlocked maps achievement ID to unlock metadata (date, progress).
	Unlocked map[string]any `json:"unlocked"`

	// Locked lists achievement IDs still locked.
	Locked []string `json:"locked"`

	// UpdatedAt is the ISO-8601 timestamp of the last save.
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Validate checks the minimal fields for a save.
func (s State) Validate() error {
	if s.UserID == "" {
		return ErrMissingUserID
	}
	return nil
}

// Empty returns the default state for users with no saved achievements.
func Empty() State {
	return State{Unlocked: map[string]any{}, Locked: []string{}}
}
