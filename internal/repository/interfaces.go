package repository

import (
	"context"

	"github.com/gowtham-garimella/pixora/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *model.User) error
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, imageURL, caption string) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// List returns posts newest first. A nil authorID lists every post.
	List(ctx context.Context, authorID *int64) ([]model.Post, error)
	// Delete removes the post with its likes and comments in one transaction.
	Delete(ctx context.Context, postID, userID int64) error
	CountByAuthor(ctx context.Context, userID int64) (int, error)
}

type LikeRepository interface {
	// Create reports false when the (post, user) like already existed.
	Create(ctx context.Context, postID, userID int64) (bool, error)
	// Delete reports false when there was nothing to remove.
	Delete(ctx context.Context, postID, userID int64) (bool, error)
	ListByPostIDs(ctx context.Context, postIDs []int64) ([]model.Like, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, text string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	Delete(ctx context.Context, commentID int64) error
	// ListByPostIDs returns comments with authors, ordered by post, then oldest first.
	ListByPostIDs(ctx context.Context, postIDs []int64) ([]model.Comment, error)
}
