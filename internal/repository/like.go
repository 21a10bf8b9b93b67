package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gowtham-garimella/pixora/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like. The (post_id, user_id) unique constraint is the only
// guard against duplicates; a violation means the like already stands.
func (r *likeRepository) Create(ctx context.Context, postID, userID int64) (bool, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if err != nil {
		switch pqCode(err) {
		case pqUniqueViolation:
			return false, nil
		case pqForeignKeyViolation:
			return false, model.ErrPostNotFound
		}
		return false, fmt.Errorf("insert like: %w", err)
	}
	return true, nil
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListByPostIDs fetches the likes of many posts in one query.
func (r *likeRepository) ListByPostIDs(ctx context.Context, postIDs []int64) ([]model.Like, error) {
	if len(postIDs) == 0 {
		return []model.Like{}, nil
	}

	query := `
		SELECT id, post_id, user_id, created_at
		FROM post_likes
		WHERE post_id = ANY($1)
	`
	likes := []model.Like{}
	if err := r.db.SelectContext(ctx, &likes, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}

func (r *likeRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM post_likes WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
