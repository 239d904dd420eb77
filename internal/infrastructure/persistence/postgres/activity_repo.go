package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

const activityColumns = `doc_id, user_id, activity_id, kind, distance_km,
	duration_min, elevation_m, start_date, avg_speed, summary_polyline`

// ActivityRepository stores activity records and their league fan-out in
// PostgreSQL.
type ActivityRepository struct {
	conn   *Connection
	logger *logger.Logger
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(conn *Connection, log *logger.Logger) *ActivityRepository {
	if log == nil {
		log = logger.Default()
	}
	return &ActivityRepository{
		conn:   conn,
		logger: log.With(logger.Component("activity_repository")),
	}
}

// Save upserts a record and files it under each league in one transaction.
// Re-saving the same activity is idempotent: the record is overwritten and
// league links are added, never duplicated.
func (r *ActivityRepository) Save(ctx context.Context, rec activity.Record, leagueIDs []string) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `
			INSERT INTO activities (` + activityColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (doc_id) DO UPDATE SET
				kind = EXCLUDED.kind,
				distance_km = EXCLUDED.distance_km,
				duration_min = EXCLUDED.duration_min,
				elevation_m = EXCLUDED.elevation_m,
				start_date = EXCLUDED.start_date,
				avg_speed = EXCLUDED.avg_speed,
				summary_polyline = EXCLUDED.summary_polyline
		`
		if _, err := tx.Exec(ctx, query,
			rec.DocumentID(), rec.UserID, rec.ID, string(rec.Kind),
			rec.Distance, rec.Duration, rec.Elevation, rec.Date,
			rec.AvgSpeed, rec.SummaryPolyline); err != nil {
			return fmt.Errorf("insert activity: %w", err)
		}

		for _, leagueID := range leagueIDs {
			if leagueID == "" {
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO league_activities (league_id, doc_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, leagueID, rec.DocumentID()); err != nil {
				return fmt.Errorf("link league %s: %w", leagueID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("activity saved",
		logger.UserID(rec.UserID),
		logger.ActivityID(rec.ID),
		logger.Int("leagues", len(leagueIDs)))
	return nil
}

// ByUser returns all records owned by the given user, newest first.
func (r *ActivityRepository) ByUser(ctx context.Context, userID string) ([]activity.Record, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE user_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user activities: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// ByLeague returns all records filed under the given league, newest first.
func (r *ActivityRepository) ByLeague(ctx context.Context, leagueID string) ([]activity.Record, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities a
		JOIN league_activities la ON la.doc_id = a.doc_id
		WHERE la.league_id = $1
		ORDER BY a.start_date DESC
	`

	rows, err := r.conn.Query(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("query league activities: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// scanRecords drains rows into domain records.
func (r *ActivityRepository) scanRecords(rows pgx.Rows) ([]activity.Record, error) {
	records := make([]activity.Record, 0)
	for rows.Next() {
		var rec activity.Record
		var docID, kind string
		if err := rows.Scan(&docID, &rec.UserID, &rec.ID, &kind,
			&rec.Distance, &rec.Duration, &rec.Elevation, &rec.Date,
			&rec.AvgSpeed, &rec.SummaryPolyline); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		rec.Kind = activity.Kind(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return records, nil
}
