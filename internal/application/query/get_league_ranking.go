// Package query contains read operations following the CQRS pattern.
// Queries never modify state. Each query is a self-contained use case
// with its own request and response types.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/ranking"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/user"
	"github.com/jogr-app/jogr-backend/pkg/logger"
	"github.com/jogr-app/jogr-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEAGUE RANKING QUERY
// Computes a league's leaderboard on demand: load the league's activities,
// filter by period, score each member, resolve nicknames, sort.
// ══════════════════════════════════════════════════════════════════════════════

// RankingCache caches computed leaderboards. Implementations are
// best-effort; Get returning false just means recompute.
type RankingCache interface {
	Get(ctx context.Context, leagueID string, period ranking.Period) (ranking.Leaderboard, bool)
	Set(ctx context.Context, leagueID string, period ranking.Period, board ranking.Leaderboard)
}

// GetLeagueRankingQuery contains the ranking request parameters.
type GetLeagueRankingQuery struct {
	// LeagueID identifies the league to rank.
	LeagueID string

	// Period selects the scoring window; unknown values fall back to
	// the general (all-time) period.
	Period string
}

// Validate checks the query parameters.
func (q GetLeagueRankingQuery) Validate() error {
	if q.LeagueID == "" {
		return errors.New("get_league_ranking: league ID is required")
	}
	return nil
}

// GetLeagueRankingResult contains the computed leaderboard.
type GetLeagueRankingResult struct {
	LeagueID string              `json:"leagueID"`
	Period   string              `json:"period"`
	Ranking  ranking.Leaderboard `json:"ranking"`
}

// GetLeagueRankingHandler handles league ranking queries.
type GetLeagueRankingHandler struct {
	activities activity.Repository
	nicknames  user.NicknameResolver
	cache      RankingCache
	logger     *logger.Logger
}

// NewGetLeagueRankingHandler creates a new handler. cache may be nil,
// in which case every request recomputes.
func NewGetLeagueRankingHandler(
	activities activity.Repository,
	nicknames user.NicknameResolver,
	cache RankingCache,
	log *logger.Logger,
) *GetLeagueRankingHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeagueRankingHandler{
		activities: activities,
		nicknames:  nicknames,
		cache:      cache,
		logger:     log.With(logger.Component("get_league_ranking")),
	}
}

// Handle computes the leaderboard for the requested league and period.
// Any malformed activity date fails the whole computation rather than
// silently dropping records from the standings.
func (h *GetLeagueRankingHandler) Handle(ctx context.Context, q GetLeagueRankingQuery) (*GetLeagueRankingResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	period := ranking.ParsePeriod(q.Period)

	if h.cache != nil {
		if board, ok := h.cache.Get(ctx, q.LeagueID, period); ok {
			return &GetLeagueRankingResult{
				LeagueID: q.LeagueID,
				Period:   string(period),
				Ranking:  board,
			}, nil
		}
	}

	records, err := h.activities.ByLeague(ctx, q.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("load league activities: %w", err)
	}

	filtered, err := ranking.FilterByPeriod(records, period, timeutil.NowUTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	scores := ranking.ComputeScores(filtered)
	nicknames := h.resolveNicknames(ctx, scores)
	board := ranking.BuildLeaderboard(scores, nicknames, user.DefaultNickname)

	if h.cache != nil {
		h.cache.Set(ctx, q.LeagueID, period, board)
	}

	h.logger.Debug("league ranking computed",
		logger.LeagueID(q.LeagueID),
		logger.Period(string(period)),
		logger.Int("members", len(board)))

	return &GetLeagueRankingResult{
		LeagueID: q.LeagueID,
		Period:   string(period),
		Ranking:  board,
	}, nil
}

// resolveNicknames looks up each scored user's nickname. A miss is not an
// error; BuildLeaderboard substitutes the default placeholder.
func (h *GetLeagueRankingHandler) resolveNicknames(ctx context.Context, scores map[string]int) map[string]string {
	nicknames := make(map[string]string, len(scores))
	for userID := range scores {
		nickname, err := h.nicknames.Nickname(ctx, userID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				h.logger.Warn("nickname lookup failed",
					logger.UserID(userID), logger.Err(err))
			}
			continue
		}
		nicknames[userID] = nickname
	}
	return nicknames
}
