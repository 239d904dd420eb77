package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/social"
	"github.com/jogr-app/jogr-backend/pkg/logger"
	"github.com/jogr-app/jogr-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SOCIAL REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// SocialRepository stores likes and comments in PostgreSQL.
type SocialRepository struct {
	conn   *Connection
	logger *logger.Logger
}

// NewSocialRepository creates a new SocialRepository.
func NewSocialRepository(conn *Connection, log *logger.Logger) *SocialRepository {
	if log == nil {
		log = logger.Default()
	}
	return &SocialRepository{
		conn:   conn,
		logger: log.With(logger.Component("social_repository")),
	}
}

// ToggleLike flips the user's like on an activity and returns the
// resulting state. The delete-then-insert runs in one transaction so the
// returned count matches what the toggle left behind.
func (r *SocialRepository) ToggleLike(ctx context.Context, activityID, userID string) (social.LikeToggle, error) {
	if activityID == "" {
		return social.LikeToggle{}, fmt.Errorf("%w: %v", shared.ErrValidation, social.ErrMissingActivityID)
	}
	if userID == "" {
		return social.LikeToggle{}, fmt.Errorf("%w: %v", shared.ErrValidation, social.ErrMissingUserID)
	}

	var result social.LikeToggle
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM activity_likes
			WHERE activity_id = $1 AND user_id = $2
		`, activityID, userID)
		if err != nil {
			return fmt.Errorf("remove like: %w", err)
		}

		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO activity_likes (activity_id, user_id)
				VALUES ($1, $2)
			`, activityID, userID); err != nil {
				return fmt.Errorf("add like: %w", err)
			}
			result.DidLike = true
		}

		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM activity_likes WHERE activity_id = $1
		`, activityID).Scan(&result.LikeCount)
		if err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return social.LikeToggle{}, err
	}

	r.logger.Debug("like toggled",
		logger.ActivityID(activityID),
		logger.UserID(userID),
		logger.Bool("did_like", result.DidLike))
	return result, nil
}

// Comments returns an activity's comments ordered by date ascending.
func (r *SocialRepository) Comments(ctx context.Context, activityID string) ([]social.Comment, error) {
	query := `
		SELECT id, user_id, nickname, body, posted_at
		FROM activity_comments
		WHERE activity_id = $1
		ORDER BY posted_at ASC
	`

	rows, err := r.conn.Query(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]social.Comment, 0)
	for rows.Next() {
		var c social.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Nickname, &c.Text, &c.Date); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// AddComment stores a comment, assigning its ID and timestamp when absent.
func (r *SocialRepository) AddComment(ctx context.Context, activityID string, c social.Comment) (social.Comment, error) {
	if activityID == "" {
		return social.Comment{}, fmt.Errorf("%w: %v", shared.ErrValidation, social.ErrMissingActivityID)
	}
	if err := c.Validate(); err != nil {
		return social.Comment{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Date == "" {
		c.Date = timeutil.FormatActivityTime(timeutil.NowUTC())
	}

	if _, err := r.conn.Exec(ctx, `
		INSERT INTO activity_comments (id, activity_id, user_id, nickname, body, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, activityID, c.UserID, c.Nickname, c.Text, c.Date); err != nil {
		return social.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	r.logger.Debug("comment added",
		logger.ActivityID(activityID),
		logger.UserID(c.UserID))
	return c, nil
}
