package model

import "time"

// Activity kinds stored in a user's activity cache.
const (
	ActivityLike    = "like"
	ActivityComment = "comment"
)

// Activity is something another user did to one of your posts.
type Activity struct {
	Kind      string    `json:"kind"`
	PostID    int64     `json:"postId"`
	ActorID   int64     `json:"actorId"`
	CommentID int64     `json:"commentId,omitempty"`
	At        time.Time `json:"at"`
}

// Activity listing limits for GET /me/activity
const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)
