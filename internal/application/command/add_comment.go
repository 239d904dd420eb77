package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/social"
	"github.com/jogr-app/jogr-backend/internal/domain/user"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD COMMENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddCommentCommand posts a comment on an activity.
type AddCommentCommand struct {
	ActivityID string
	UserID     string
	Text       string
}

// Validate checks the command.
func (c AddCommentCommand) Validate() error {
	if c.ActivityID == "" {
		return social.ErrMissingActivityID
	}
	if c.UserID == "" {
		return social.ErrMissingUserID
	}
	if c.Text == "" {
		return social.ErrEmptyComment
	}
	return nil
}

// AddCommentHandler handles comment posts.
type AddCommentHandler struct {
	social    social.Repository
	nicknames user.NicknameResolver
	logger    *logger.Logger
}

// NewAddCommentHandler creates a new handler.
func NewAddCommentHandler(repo social.Repository, nicknames user.NicknameResolver, log *logger.Logger) *AddCommentHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AddCommentHandler{
		social:    repo,
		nicknames: nicknames,
		logger:    log.With(logger.Component("add_comment")),
	}
}

// Handle stores the comment, stamping it with the author's nickname so
// the feed renders without a per-comment user lookup.
func (h *AddCommentHandler) Handle(ctx context.Context, cmd AddCommentCommand) (social.Comment, error) {
	if err := cmd.Validate(); err != nil {
		return social.Comment{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	nickname, err := h.nicknames.Nickname(ctx, cmd.UserID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("nickname lookup failed",
				logger.UserID(cmd.UserID), logger.Err(err))
		}
		nickname = user.DefaultNickname
	}

	comment := social.Comment{
		UserID:   cmd.UserID,
		Nickname: nickname,
		Text:     cmd.Text,
	}
	stored, err := h.social.AddComment(ctx, cmd.ActivityID, comment)
	if err != nil {
		return social.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return stored, nil
}
