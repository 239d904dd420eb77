// Package user contains the account domain model: user profiles and the
// OAuth credentials that link an account to its Strava athlete.
package user

import (
	"errors"
	"time"
)

// Domain errors for the user package.
var (
	ErrMissingID       = errors.New("user: missing user ID")
	ErrMissingStravaID = errors.New("user: missing strava ID")
	ErrNoCredentials   = errors.New("user: no strava credentials")
)

// DefaultNickname is the placeholder shown when a user record is missing
// or has no nickname. The mobile client renders it as-is.
const DefaultNickname = "Usuario"

// User represents an account linked to a Strava athlete.
type User struct {
	ID          string `json:"userID"`
	StravaID    string `json:"stravaID"`
	Nickname    string `json:"nickname"`
	Email       string `json:"email"`
	Birthdate   string `json:"birthdate"`
	Gender      string `json:"gender"`
	Country     string `json:"country"`
	Description string `json:"description"`
}

// Validate checks the minimal identity fields.
func (u User) Validate() error {
	if u.ID == "" {
		return ErrMissingID
	}
	if u.StravaID == "" {
		return ErrMissingStravaID
	}
	return nil
}

// DisplayNickname returns the nickname or the default placeholder.
func (u User) DisplayNickname() string {
	if u.Nickname == "" {
		return DefaultNickname
	}
	return u.Nickname
}

// Credentials holds one user's Strava OAuth token set.
type Credentials struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// ExpiresWithin reports whether the access token expires within d of now.
// Used to refresh ahead of expiry instead of racing it.
func (c Credentials) ExpiresWithin(now time.Time, d time.Duration) bool {
	return now.Add(d).After(c.ExpiresAt)
}
