package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEAGUE ACTIVITIES QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetLeagueActivitiesQuery requests a league's activity feed.
type GetLeagueActivitiesQuery struct {
	LeagueID string
}

// Validate checks the query parameters.
func (q GetLeagueActivitiesQuery) Validate() error {
	if q.LeagueID == "" {
		return errors.New("get_league_activities: league ID is required")
	}
	return nil
}

// GetLeagueActivitiesResult contains the league feed, newest first.
type GetLeagueActivitiesResult struct {
	LeagueID   string            `json:"leagueID"`
	Activities []activity.Record `json:"activities"`
}

// GetLeagueActivitiesHandler handles league feed queries.
type GetLeagueActivitiesHandler struct {
	activities activity.Repository
	logger     *logger.Logger
}

// NewGetLeagueActivitiesHandler creates a new handler.
func NewGetLeagueActivitiesHandler(activities activity.Repository, log *logger.Logger) *GetLeagueActivitiesHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeagueActivitiesHandler{
		activities: activities,
		logger:     log.With(logger.Component("get_league_activities")),
	}
}

// Handle returns all activities filed under the league.
func (h *GetLeagueActivitiesHandler) Handle(ctx context.Context, q GetLeagueActivitiesQuery) (*GetLeagueActivitiesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	records, err := h.activities.ByLeague(ctx, q.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("load league activities: %w", err)
	}

	return &GetLeagueActivitiesResult{LeagueID: q.LeagueID, Activities: records}, nil
}
