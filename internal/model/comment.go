package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        int64       `db:"id" json:"id"`
	PostID    int64       `db:"post_id" json:"postId"`
	UserID    int64       `db:"user_id" json:"-"`
	Text      string      `db:"text" json:"text"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	Author    UserSummary `db:"author" json:"author"` // Joined field
}

// CommentView is a comment as embedded in a PostView.
type CommentView struct {
	ID        int64       `json:"id"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
	Author    UserSummary `json:"author"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment or its post")
	ErrTextRequired    = errors.New("comment text required")
)
