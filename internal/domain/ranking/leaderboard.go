package ranking

import (
	"cmp"
	"slices"
)

// Entry is one row of a league leaderboard.
type Entry struct {
	// UserID is the scored user.
	UserID string `json:"userID"`

	// Nickname is the resolved display name.
	Nickname string `json:"nickname"`

	// Points is the computed total score, in [0, MaxScore].
	Points int `json:"points"`
}

// Leaderboard is an ordered ranking, points descending.
type Leaderboard []Entry

// BuildLeaderboard joins computed scores with display nicknames and sorts
// points descending. Ties break by user ID ascending so two runs over the
// same snapshot always produce the same order - the ranking must never
// depend on map iteration order.
//
// Nicknames missing from the lookup fall back to the default placeholder;
// a nickname miss is cosmetic, never an error.
func BuildLeaderboard(scores map[string]int, nicknames map[string]string, fallback string) Leaderboard {
	board := make(Leaderboard, 0, len(scores))
	for userID, points := range scores {
		nickname, ok := nicknames[userID]
		if !ok || nickname == "" {
			nickname = fallback
		}
		board = append(board, Entry{
			UserID:   userID,
			Nickname: nickname,
			Points:   points,
		})
	}

	slices.SortFunc(board, func(a, b Entry) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	return board
}
