package command

import (
	"context"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/social"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOGGLE LIKE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ToggleLikeCommand flips a user's like on an activity.
type ToggleLikeCommand struct {
	ActivityID string
	UserID     string
}

// Validate checks the command.
func (c ToggleLikeCommand) Validate() error {
	if c.ActivityID == "" {
		return social.ErrMissingActivityID
	}
	if c.UserID == "" {
		return social.ErrMissingUserID
	}
	return nil
}

// ToggleLikeHandler handles like toggles.
type ToggleLikeHandler struct {
	social social.Repository
	logger *logger.Logger
}

// NewToggleLikeHandler creates a new handler.
func NewToggleLikeHandler(repo social.Repository, log *logger.Logger) *ToggleLikeHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ToggleLikeHandler{
		social: repo,
		logger: log.With(logger.Component("toggle_like")),
	}
}

// Handle toggles the like and returns the resulting state.
func (h *ToggleLikeHandler) Handle(ctx context.Context, cmd ToggleLikeCommand) (social.LikeToggle, error) {
	if err := cmd.Validate(); err != nil {
		return social.LikeToggle{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	result, err := h.social.ToggleLike(ctx, cmd.ActivityID, cmd.UserID)
	if err != nil {
		return social.LikeToggle{}, fmt.Errorf("toggle like: %w", err)
	}
	return result, nil
}
