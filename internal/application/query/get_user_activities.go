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
// GET USER ACTIVITIES QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetUserActivitiesQuery requests one user's saved activities.
type GetUserActivitiesQuery struct {
	UserID string
}

// Validate checks the query parameters.
func (q GetUserActivitiesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("get_user_activities: user ID is required")
	}
	return nil
}

// GetUserActivitiesResult contains the user's activities, newest first.
type GetUserActivitiesResult struct {
	UserID     string            `json:"userID"`
	Activities []activity.Record `json:"activities"`
}

// GetUserActivitiesHandler handles user activity queries.
type GetUserActivitiesHandler struct {
	activities activity.Repository
	logger     *logger.Logger
}

// NewGetUserActivitiesHandler creates a new handler.
func NewGetUserActivitiesHandler(activities activity.Repository, log *logger.Logger) *GetUserActivitiesHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetUserActivitiesHandler{
		activities: activities,
		logger:     log.With(logger.Component("get_user_activities")),
	}
}

// Handle returns all activities owned by the user.
func (h *GetUserActivitiesHandler) Handle(ctx context.Context, q GetUserActivitiesQuery) (*GetUserActivitiesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	records, err := h.activities.ByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user activities: %w", err)
	}

	return &GetUserActivitiesResult{UserID: q.UserID, Activities: records}, nil
}
