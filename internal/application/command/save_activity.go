package command

import (
	"context"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE ACTIVITY COMMAND
// Persists an imported activity and files it under each league the user
// shared it into. Cached rankings for those leagues are invalidated so the
// next standings request reflects the new activity.
// ══════════════════════════════════════════════════════════════════════════════

// RankingInvalidator drops cached rankings for a league.
type RankingInvalidator interface {
	Invalidate(ctx context.Context, leagueID string)
}

// SaveActivityCommand carries the activity and its league fan-out.
type SaveActivityCommand struct {
	Record    activity.Record
	LeagueIDs []string
}

// Validate checks the command.
func (c SaveActivityCommand) Validate() error {
	return c.Record.Validate()
}

// SaveActivityHandler handles activity saves.
type SaveActivityHandler struct {
	activities  activity.Repository
	invalidator RankingInvalidator
	logger      *logger.Logger
}

// NewSaveActivityHandler creates a new handler. invalidator may be nil
// when no ranking cache is configured.
func NewSaveActivityHandler(
	activities activity.Repository,
	invalidator RankingInvalidator,
	log *logger.Logger,
) *SaveActivityHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SaveActivityHandler{
		activities:  activities,
		invalidator: invalidator,
		logger:      log.With(logger.Component("save_activity")),
	}
}

// Handle persists the activity. Saving is idempotent per (user, activity).
func (h *SaveActivityHandler) Handle(ctx context.Context, cmd SaveActivityCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	if err := h.activities.Save(ctx, cmd.Record, cmd.LeagueIDs); err != nil {
		return fmt.Errorf("save activity: %w", err)
	}

	if h.invalidator != nil {
		for _, leagueID := range cmd.LeagueIDs {
			if leagueID != "" {
				h.invalidator.Invalidate(ctx, leagueID)
			}
		}
	}

	h.logger.Info("activity saved",
		logger.UserID(cmd.Record.UserID),
		logger.ActivityID(cmd.Record.ID),
		logger.Int("leagues", len(cmd.LeagueIDs)))
	return nil
}
