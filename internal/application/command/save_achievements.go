package command

import (
	"context"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/achievement"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE ACHIEVEMENTS COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SaveAchievementsCommand upserts a user's achievement snapshot.
type SaveAchievementsCommand struct {
	State achievement.State
}

// Validate checks the command.
func (c SaveAchievementsCommand) Validate() error {
	return c.State.Validate()
}

// SaveAchievementsHandler handles achievement saves.
type SaveAchievementsHandler struct {
	achievements achievement.Repository
	logger       *logger.Logger
}

// NewSaveAchievementsHandler creates a new handler.
func NewSaveAchievementsHandler(repo achievement.Repository, log *logger.Logger) *SaveAchievementsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SaveAchievementsHandler{
		achievements: repo,
		logger:       log.With(logger.Component("save_achievements")),
	}
}

// Handle stores the snapshot as the client computed it.
func (h *SaveAchievementsHandler) Handle(ctx context.Context, cmd SaveAchievementsCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	if err := h.achievements.Save(ctx, cmd.State); err != nil {
		return fmt.Errorf("save achievements: %w", err)
	}

	h.logger.Debug("achievements saved", logger.UserID(cmd.State.UserID))
	return nil
}
