// Package activity contains the domain model for logged workouts.
// An activity is the normalized unit the league ranking engine consumes:
// it is created by the ingestion layer, shared into leagues, and read-only
// from that point on. This is a pure domain layer with zero external
// dependencies beyond the timestamp helpers.
package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/jogr-app/jogr-backend/pkg/timeutil"
)

// Domain errors for the activity package.
var (
	ErrMissingUserID     = errors.New("activity: missing user ID")
	ErrMissingID         = errors.New("activity: missing activity ID")
	ErrMissingKind       = errors.New("activity: missing activity type")
	ErrNegativeDistance  = errors.New("activity: distance cannot be negative")
	ErrNegativeDuration  = errors.New("activity: duration cannot be negative")
	ErrNegativeElevation = errors.New("activity: elevation cannot be negative")
	ErrInvalidDate       = errors.New("activity: invalid date")
)

// Kind is the activity type as reported by the tracker ("Run", "Walk").
type Kind string

// Supported activity kinds. Only these count toward league scoring.
const (
	KindRun  Kind = "Run"
	KindWalk Kind = "Walk"
)

// IsSupported reports whether the kind counts toward league scoring.
func (k Kind) IsSupported() bool {
	return k == KindRun || k == KindWalk
}

// Record represents one logged workout contributing to league competition.
//
// Distance is kilometers, Duration is minutes, Elevation is meters of gain.
// Date is an ISO-8601 UTC timestamp; a trailing "Z" is tolerated and
// normalized during parsing.
type Record struct {
	// UserID is the owning user.
	UserID string `json:"userID"`

	// ID is the activity identifier (Strava ID or client-generated).
	ID string `json:"id"`

	// Kind is the activity type.
	Kind Kind `json:"type"`

	// Distance in kilometers.
	Distance float64 `json:"distance"`

	// Duration in minutes.
	Duration float64 `json:"duration"`

	// Elevation gain in meters.
	Elevation float64 `json:"elevation"`

	// Date is the ISO-8601 start timestamp (UTC).
	Date string `json:"date"`

	// AvgSpeed in meters per second, when the tracker reports it.
	AvgSpeed *float64 `json:"avg_speed,omitempty"`

	// SummaryPolyline is the encoded route polyline, when available.
	SummaryPolyline string `json:"summary_polyline,omitempty"`
}

// Validate checks the record at the store-read boundary. A record that
// fails validation must not reach the scoring function: scores are computed
// over a well-defined basis or not at all.
func (r Record) Validate() error {
	if r.UserID == "" {
		return ErrMissingUserID
	}
	if r.ID == "" {
		return ErrMissingID
	}
	if r.Kind == "" {
		return ErrMissingKind
	}
	if r.Distance < 0 {
		return ErrNegativeDistance
	}
	if r.Duration < 0 {
		return ErrNegativeDuration
	}
	if r.Elevation < 0 {
		return ErrNegativeElevation
	}
	if _, err := r.StartedAt(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return nil
}

// StartedAt parses the record's start timestamp as UTC.
func (r Record) StartedAt() (time.Time, error) {
	return timeutil.ParseActivityTime(r.Date)
}

// DocumentID returns the store key for this record, one per user+activity
// so re-saving the same import is idempotent.
func (r Record) DocumentID() string {
	return r.UserID + "_" + r.ID
}
