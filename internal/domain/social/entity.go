// Package social contains likes and comments attached to activities.
package social

import "errors"

// Domain errors for the social package.
var (
	ErrMissingActivityID = errors.New("social: missing activity ID")
	ErrMissingUserID     = errors.New("social: missing user ID")
	ErrEmptyComment      = errors.New("social: empty comment text")
)

// LikeToggle is the outcome of toggling a like on an activity.
type LikeToggle struct {
	// DidLike is true when the toggle added a like, false when it removed one.
	DidLike bool `json:"didLike"`

	// LikeCount is the like count after the toggle.
	LikeCount int `json:"likeCount"`
}

// Comment is one comment on an activity, ordered by date.
type Comment struct {
	ID       string `json:"id"`
	UserID   string `json:"userID"`
	Nickname string `json:"nickname"`
	Text     string `json:"text"`
	Date     string `json:"date"`
}

// Validate checks the fields required to post a comment.
func (c Comment) Validate() error {
	if c.UserID == "" {
		return ErrMissingUserID
	}
	if c.Text == "" {
		return ErrEmptyComment
	}
	return nil
}
