package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/social"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COMMENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetCommentsQuery requests an activity's comment thread.
type GetCommentsQuery struct {
	ActivityID string
}

// Validate checks the query parameters.
func (q GetCommentsQuery) Validate() error {
	if q.ActivityID == "" {
		return errors.New("get_comments: activity ID is required")
	}
	return nil
}

// GetCommentsResult contains the comments, oldest first.
type GetCommentsResult struct {
	ActivityID string           `json:"activityID"`
	Comments   []social.Comment `json:"comments"`
}

// GetCommentsHandler handles comment thread queries.
type GetCommentsHandler struct {
	social social.Repository
	logger *logger.Logger
}

// NewGetCommentsHandler creates a new handler.
func NewGetCommentsHandler(repo social.Repository, log *logger.Logger) *GetCommentsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetCommentsHandler{
		social: repo,
		logger: log.With(logger.Component("get_comments")),
	}
}

// Handle returns the activity's comments ordered by date ascending.
func (h *GetCommentsHandler) Handle(ctx context.Context, q GetCommentsQuery) (*GetCommentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	comments, err := h.social.Comments(ctx, q.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	return &GetCommentsResult{ActivityID: q.ActivityID, Comments: comments}, nil
}
