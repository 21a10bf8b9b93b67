package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gowtham-garimella/pixora/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, c.text, c.created_at,
	       u.id AS "author.id", u.username AS "author.username",
	       u.display_name AS "author.display_name", u.avatar_url AS "author.avatar_url"
`

// Create inserts a comment and returns it with its author.
func (r *commentRepository) Create(ctx context.Context, postID, userID int64, text string) (*model.Comment, error) {
	query := `
		WITH c AS (
			INSERT INTO post_comments (post_id, user_id, text)
			VALUES ($1, $2, $3)
			RETURNING id, post_id, user_id, text, created_at
		)` + commentSelect + `
		FROM c
		JOIN users u ON u.id = c.user_id
	`

	var comment model.Comment
	if err := r.db.GetContext(ctx, &comment, query, postID, userID, text); err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// GetByID retrieves a single comment.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := commentSelect + `
		FROM post_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// ListByPostIDs fetches the comments of many posts, authors included, in one query.
func (r *commentRepository) ListByPostIDs(ctx context.Context, postIDs []int64) ([]model.Comment, error) {
	if len(postIDs) == 0 {
		return []model.Comment{}, nil
	}

	query := commentSelect + `
		FROM post_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.post_id, c.created_at, c.id
	`
	comments := []model.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
