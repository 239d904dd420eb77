package redis

import (
	"context"
	"errors"
	"time"

	"github.com/jogr-app/jogr-backend/internal/domain/ranking"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING CACHE
// ══════════════════════════════════════════════════════════════════════════════

// RankingCache caches computed league leaderboards per league and period.
// All operations are best-effort: a Redis outage degrades to recomputing
// every ranking, never to a failed request.
type RankingCache struct {
	cache  *Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRankingCache creates a RankingCache with the given TTL.
func NewRankingCache(cache *Cache, ttl time.Duration, log *logger.Logger) *RankingCache {
	if log == nil {
		log = logger.Default()
	}
	return &RankingCache{
		cache:  cache,
		ttl:    ttl,
		logger: log.With(logger.Component("ranking_cache")),
	}
}

// Get returns the cached leaderboard, or false on a miss.
func (r *RankingCache) Get(ctx context.Context, leagueID string, period ranking.Period) (ranking.Leaderboard, bool) {
	var board ranking.Leaderboard
	err := r.cache.Get(ctx, RankingKey(leagueID, string(period)), &board)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			r.logger.Warn("ranking cache read failed",
				logger.LeagueID(leagueID),
				logger.Period(string(period)),
				logger.Err(err))
		}
		return nil, false
	}
	return board, true
}

// Set stores a computed leaderboard for the cache TTL.
func (r *RankingCache) Set(ctx context.Context, leagueID string, period ranking.Period, board ranking.Leaderboard) {
	if err := r.cache.Set(ctx, RankingKey(leagueID, string(period)), board, r.ttl); err != nil {
		r.logger.Warn("ranking cache write failed",
			logger.LeagueID(leagueID),
			logger.Period(string(period)),
			logger.Err(err))
	}
}

// Invalidate drops all cached periods for a league. Called after an
// activity lands in the league so stale standings never outlive a save.
func (r *RankingCache) Invalidate(ctx context.Context, leagueID string) {
	if err := r.cache.DeleteByPattern(ctx, PrefixRanking+leagueID+":*"); err != nil {
		r.logger.Warn("ranking cache invalidation failed",
			logger.LeagueID(leagueID),
			logger.Err(err))
	}
}
