package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLeaderboard_SortsByPointsDescending(t *testing.T) {
	scores := map[string]int{"runner": 109, "champion": 150, "walker": 12}
	nicknames := map[string]string{
		"runner":   "Ana",
		"champion": "Luis",
		"walker":   "Marta",
	}

	board := BuildLeaderboard(scores, nicknames, "Usuario")
	require.Len(t, board, 3)
	assert.Equal(t, Entry{UserID: "champion", Nickname: "Luis", Points: 150}, board[0])
	assert.Equal(t, Entry{UserID: "runner", Nickname: "Ana", Points: 109}, board[1])
	assert.Equal(t, Entry{UserID: "walker", Nickname: "Marta", Points: 12}, board[2])
}

func TestBuildLeaderboard_TiesBreakByUserID(t *testing.T) {
	scores := map[string]int{"zeta": 100, "alpha": 100, "mid": 100}

	board := BuildLeaderboard(scores, nil, "Usuario")
	require.Len(t, board, 3)
	assert.Equal(t, "alpha", board[0].UserID)
	assert.Equal(t, "mid", board[1].UserID)
	assert.Equal(t, "zeta", board[2].UserID)
}

func TestBuildLeaderboard_NicknameFallback(t *testing.T) {
	scores := map[string]int{"u1": 50, "u2": 40}
	nicknames := map[string]string{"u1": ""}

	board := BuildLeaderboard(scores, nicknames, "Usuario")
	require.Len(t, board, 2)
	assert.Equal(t, "Usuario", board[0].Nickname)
	assert.Equal(t, "Usuario", board[1].Nickname)
}

func TestBuildLeaderboard_Empty(t *testing.T) {
	board := BuildLeaderboard(map[string]int{}, nil, "Usuario")
	assert.Empty(t, board)
}

func TestBuildLeaderboard_Deterministic(t *testing.T) {
	scores := map[string]int{"a": 10, "b": 10, "c": 30, "d": 20, "e": 10}
	first := BuildLeaderboard(scores, nil, "Usuario")
	for range 10 {
		assert.Equal(t, first, BuildLeaderboard(scores, nil, "Usuario"))
	}
}
