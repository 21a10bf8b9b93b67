package model

import (
	"errors"
	"time"
)

// Post is a row of the posts table joined with its author.
type Post struct {
	ID        int64       `db:"id" json:"id"`
	UserID    int64       `db:"user_id" json:"-"`
	ImageURL  string      `db:"image_url" json:"imageUrl"`
	Caption   string      `db:"caption" json:"caption"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	Author    UserSummary `db:"author" json:"author"`
}

// PostView is the only shape in which posts leave the API.
type PostView struct {
	ID         int64         `json:"id"`
	ImageURL   string        `json:"imageUrl"`
	Caption    string        `json:"caption"`
	CreatedAt  time.Time     `json:"createdAt"`
	Author     UserSummary   `json:"author"`
	LikesCount int           `json:"likesCount"`
	IsLiked    bool          `json:"isLiked"`
	Comments   []CommentView `json:"comments"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
}

// Feed scopes accepted by GET /posts.
const (
	ScopeAll  = "all"
	ScopeMine = "mine"
)

// Post errors
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNotPostOwner     = errors.New("not the owner of this post")
	ErrPostFieldsNeeded = errors.New("imageUrl and caption required")
	ErrInvalidScope     = errors.New("scope must be all or mine")
)
