package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/achievement"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementsQuery requests a user's achievement snapshot.
type GetAchievementsQuery struct {
	UserID string
}

// Validate checks the query parameters.
func (q GetAchievementsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("get_achievements: user ID is required")
	}
	return nil
}

// GetAchievementsHandler handles achievement queries.
type GetAchievementsHandler struct {
	achievements achievement.Repository
	logger       *logger.Logger
}

// NewGetAchievementsHandler creates a new handler.
func NewGetAchievementsHandler(repo achievement.Repository, log *logger.Logger) *GetAchievementsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetAchievementsHandler{
		achievements: repo,
		logger:       log.With(logger.Component("get_achievements")),
	}
}

// Handle returns the user's snapshot. A user who never saved achievements
// gets the empty state, not an error.
func (h *GetAchievementsHandler) Handle(ctx context.Context, q GetAchievementsQuery) (achievement.State, error) {
	if err := q.Validate(); err != nil {
		return achievement.State{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	state, err := h.achievements.ByUser(ctx, q.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return achievement.Empty(), nil
	}
	if err != nil {
		return achievement.State{}, fmt.Errorf("load achievements: %w", err)
	}
	return state, nil
}
