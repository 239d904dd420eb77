package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/achievement"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/pkg/logger"
	"github.com/jogr-app/jogr-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// AchievementRepository stores achievement snapshots in PostgreSQL. The
// unlocked and locked payloads are stored as JSONB because their shape
// belongs to the mobile client, not the backend.
type AchievementRepository struct {
	conn   *Connection
	logger *logger.Logger
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(conn *Connection, log *logger.Logger) *AchievementRepository {
	if log == nil {
		log = logger.Default()
	}
	return &AchievementRepository{
		conn:   conn,
		logger: log.With(logger.Component("achievement_repository")),
	}
}

// Save upserts a user's achievement snapshot.
func (r *AchievementRepository) Save(ctx context.Context, s achievement.State) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	if s.Unlocked == nil {
		s.Unlocked = map[string]any{}
	}
	if s.Locked == nil {
		s.Locked = []string{}
	}
	if s.UpdatedAt == "" {
		s.UpdatedAt = timeutil.FormatActivityTime(timeutil.NowUTC())
	}

	unlocked, err := json.Marshal(s.Unlocked)
	if err != nil {
		return fmt.Errorf("marshal unlocked: %w", err)
	}
	locked, err := json.Marshal(s.Locked)
	if err != nil {
		return fmt.Errorf("marshal locked: %w", err)
	}

	query := `
		INSERT INTO user_achievements (user_id, unlocked, locked, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			unlocked = EXCLUDED.unlocked,
			locked = EXCLUDED.locked,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.conn.Exec(ctx, query, s.UserID, unlocked, locked, s.UpdatedAt); err != nil {
		return fmt.Errorf("save achievements: %w", err)
	}

	r.logger.Debug("achievements saved",
		logger.UserID(s.UserID),
		logger.Int("unlocked", len(s.Unlocked)))
	return nil
}

// ByUser returns the user's snapshot, or shared.ErrNotFound.
func (r *AchievementRepository) ByUser(ctx context.Context, userID string) (achievement.State, error) {
	query := `
		SELECT user_id, unlocked, locked, updated_at
		FROM user_achievements
		WHERE user_id = $1
	`

	var s achievement.State
	var unlocked, locked []byte
	err := r.conn.QueryRow(ctx, query, userID).Scan(&s.UserID, &unlocked, &locked, &s.UpdatedAt)
	if IsNoRows(err) {
		return achievement.State{}, shared.ErrNotFound
	}
	if err != nil {
		return achievement.State{}, fmt.Errorf("query achievements: %w", err)
	}

	if err := json.Unmarshal(unlocked, &s.Unlocked); err != nil {
		return achievement.State{}, fmt.Errorf("decode unlocked: %w", err)
	}
	if err := json.Unmarshal(locked, &s.Locked); err != nil {
		return achievement.State{}, fmt.Errorf("decode locked: %w", err)
	}
	return s, nil
}
