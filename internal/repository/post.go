package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gowtham-garimella/pixora/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postSelect reads posts from p joined with their author u.
const postSelect = `
	SELECT p.id, p.user_id, p.image_url, p.caption, p.created_at,
	       u.id AS "author.id", u.username AS "author.username",
	       u.display_name AS "author.display_name", u.avatar_url AS "author.avatar_url"
`

// Create inserts a post and returns it joined with its author in one round trip.
func (r *postRepository) Create(ctx context.Context, userID int64, imageURL, caption string) (*model.Post, error) {
	query := `
		WITH p AS (
			INSERT INTO posts (user_id, image_url, caption)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, image_url, caption, created_at
		)` + postSelect + `
		FROM p
		JOIN users u ON u.id = p.user_id
	`

	var post model.Post
	if err := r.db.GetContext(ctx, &post, query, userID, imageURL, caption); err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return &post, nil
}

// GetByID retrieves a single post with its author.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := postSelect + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// List returns posts newest first, optionally restricted to one author.
func (r *postRepository) List(ctx context.Context, authorID *int64) ([]model.Post, error) {
	query := postSelect + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE ($1::BIGINT IS NULL OR p.user_id = $1)
		ORDER BY p.created_at DESC, p.id DESC
	`

	posts := []model.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, authorID); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// Delete removes a post, its likes and its comments in one transaction.
// The post row is locked first so concurrent likes and comments wait, then
// fail their foreign key once the post is gone. The post row goes last.
func (r *postRepository) Delete(ctx context.Context, postID, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID int64
	err = tx.GetContext(ctx, &ownerID, `SELECT user_id FROM posts WHERE id = $1 FOR UPDATE`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("lock post: %w", err)
	}
	if ownerID != userID {
		return model.ErrNotPostOwner
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("delete likes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
