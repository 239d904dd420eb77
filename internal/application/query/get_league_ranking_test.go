package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/ranking"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
)

// ──────────────────────────────────────────────────────────────────────────────
// FAKES
// ──────────────────────────────────────────────────────────────────────────────

type fakeActivityRepo struct {
	byLeague map[string][]activity.Record
	err      error
}

func (f *fakeActivityRepo) Save(ctx context.Context, rec activity.Record, leagueIDs []string) error {
	return errors.New("not implemented")
}

func (f *fakeActivityRepo) ByUser(ctx context.Context, userID string) ([]activity.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeActivityRepo) ByLeague(ctx context.Context, leagueID string) ([]activity.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byLeague[leagueID], nil
}

type fakeNicknames struct {
	byUser map[string]string
}

func (f *fakeNicknames) Nickname(ctx context.Context, userID string) (string, error) {
	if n, ok := f.byUser[userID]; ok {
		return n, nil
	}
	return "", shared.ErrNotFound
}

type fakeRankingCache struct {
	stored map[string]ranking.Leaderboard
	gets   int
	sets   int
}

func (f *fakeRankingCache) key(leagueID string, period ranking.Period) string {
	return leagueID + ":" + string(period)
}

func (f *fakeRankingCache) Get(ctx context.Context, leagueID string, period ranking.Period) (ranking.Leaderboard, bool) {
	f.gets++
	board, ok := f.stored[f.key(leagueID, period)]
	return board, ok
}

func (f *fakeRankingCache) Set(ctx context.Context, leagueID string, period ranking.Period, board ranking.Leaderboard) {
	f.sets++
	if f.stored == nil {
		f.stored = map[string]ranking.Leaderboard{}
	}
	f.stored[f.key(leagueID, period)] = board
}

func leagueRec(userID, id string, distance, duration, elevation float64) activity.Record {
	return activity.Record{
		UserID:    userID,
		ID:        id,
		Kind:      activity.KindRun,
		Distance:  distance,
		Duration:  duration,
		Elevation: elevation,
		Date:      "2024-05-01T10:00:00Z",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// TESTS
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLeagueRanking_ComputesAndSorts(t *testing.T) {
	repo := &fakeActivityRepo{byLeague: map[string][]activity.Record{
		"l1": {
			leagueRec("alice", "a1", 20, 120, 100),
			leagueRec("bob", "b1", 5, 30, 0),
		},
	}}
	nicknames := &fakeNicknames{byUser: map[string]string{"alice": "Alice", "bob": "Bob"}}

	h := NewGetLeagueRankingHandler(repo, nicknames, nil, nil)
	result, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "l1"})
	require.NoError(t, err)

	require.Len(t, result.Ranking, 2)
	assert.Equal(t, "alice", result.Ranking[0].UserID)
	assert.Equal(t, "Alice", result.Ranking[0].Nickname)
	assert.Greater(t, result.Ranking[0].Points, result.Ranking[1].Points)
}

func TestGetLeagueRanking_EmptyLeague(t *testing.T) {
	repo := &fakeActivityRepo{byLeague: map[string][]activity.Record{}}

	h := NewGetLeagueRankingHandler(repo, &fakeNicknames{}, nil, nil)
	result, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "empty"})
	require.NoError(t, err)
	assert.Empty(t, result.Ranking)
}

func TestGetLeagueRanking_NicknameFallback(t *testing.T) {
	repo := &fakeActivityRepo{byLeague: map[string][]activity.Record{
		"l1": {leagueRec("ghost", "g1", 10, 60, 50)},
	}}

	h := NewGetLeagueRankingHandler(repo, &fakeNicknames{}, nil, nil)
	result, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "l1"})
	require.NoError(t, err)

	require.Len(t, result.Ranking, 1)
	assert.Equal(t, "Usuario", result.Ranking[0].Nickname)
}

func TestGetLeagueRanking_MalformedDateFailsWholeComputation(t *testing.T) {
	bad := leagueRec("alice", "a1", 10, 60, 50)
	bad.Date = "not-a-date"
	repo := &fakeActivityRepo{byLeague: map[string][]activity.Record{"l1": {bad}}}

	h := NewGetLeagueRankingHandler(repo, &fakeNicknames{}, nil, nil)
	_, err := h.Handle(context.Background(),
		GetLeagueRankingQuery{LeagueID: "l1", Period: "weekly"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetLeagueRanking_UnknownPeriodFallsBackToGeneral(t *testing.T) {
	repo := &fakeActivityRepo{byLeague: map[string][]activity.Record{
		"l1": {leagueRec("alice", "a1", 10, 60, 50)},
	}}

	h := NewGetLeagueRankingHandler(repo, &fakeNicknames{}, nil, nil)
	result, err := h.Handle(context.Background(),
		GetLeagueRankingQuery{LeagueID: "l1", Period: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, string(ranking.PeriodGeneral), result.Period)
}

func TestGetLeagueRanking_MissingLeagueID(t *testing.T) {
	h := NewGetLeagueRankingHandler(&fakeActivityRepo{}, &fakeNicknames{}, nil, nil)
	_, err := h.Handle(context.Background(), GetLeagueRankingQuery{})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetLeagueRanking_RepositoryFailure(t *testing.T) {
	repo := &fakeActivityRepo{err: errors.New("connection refused")}

	h := NewGetLeagueRankingHandler(repo, &fakeNicknames{}, nil, nil)
	_, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "l1"})
	assert.Error(t, err)
}

func TestGetLeagueRanking_UsesCache(t *testing.T) {
	repo := &fakeActivityRepo{byLeague: map[string][]activity.Record{
		"l1": {leagueRec("alice", "a1", 10, 60, 50)},
	}}
	cache := &fakeRankingCache{}

	h := NewGetLeagueRankingHandler(repo, &fakeNicknames{}, cache, nil)

	first, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Second call must be served from cache even if the store fails.
	repo.err = errors.New("store down")
	second, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, first.Ranking, second.Ranking)
}

func TestGetLeagueRanking_Idempotent(t *testing.T) {
	repo := &fakeActivityRepo{byLeague: map[string][]activity.Record{
		"l1": {
			leagueRec("alice", "a1", 20, 120, 100),
			leagueRec("bob", "b1", 5, 30, 0),
			leagueRec("carol", "c1", 12, 70, 40),
		},
	}}

	h := NewGetLeagueRankingHandler(repo, &fakeNicknames{}, nil, nil)
	first, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "l1"})
	require.NoError(t, err)

	for range 5 {
		again, err := h.Handle(context.Background(), GetLeagueRankingQuery{LeagueID: "l1"})
		require.NoError(t, err)
		assert.Equal(t, first.Ranking, again.Ranking)
	}
}
