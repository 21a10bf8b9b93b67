package service

import (
	"context"
	"fmt"

	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/repository"
)

// FeedAggregator turns posts into PostViews. Likes and comments for the
// whole batch are loaded with one query each, whatever the batch size, and
// grouped in memory by post ID.
type FeedAggregator struct {
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
}

func NewFeedAggregator(likeRepo repository.LikeRepository, commentRepo repository.CommentRepository) *FeedAggregator {
	return &FeedAggregator{
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
	}
}

// Assemble keeps the order of posts. Comments within a view are oldest first.
func (a *FeedAggregator) Assemble(ctx context.Context, posts []model.Post, viewerID int64) ([]model.PostView, error) {
	views := make([]model.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]int64, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likes, err := a.likeRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	comments, err := a.commentRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	likeCounts := make(map[int64]int, len(posts))
	likedByViewer := make(map[int64]bool)
	for _, l := range likes {
		likeCounts[l.PostID]++
		if l.UserID == viewerID {
			likedByViewer[l.PostID] = true
		}
	}

	// The repository returns comments ordered by (created_at, id) per post,
	// so appending preserves that order.
	commentsByPost := make(map[int64][]model.CommentView, len(posts))
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], model.CommentView{
			ID:        c.ID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
			Author:    c.Author,
		})
	}

	for _, p := range posts {
		postComments := commentsByPost[p.ID]
		if postComments == nil {
			postComments = []model.CommentView{}
		}
		views = append(views, model.PostView{
			ID:         p.ID,
			ImageURL:   p.ImageURL,
			Caption:    p.Caption,
			CreatedAt:  p.CreatedAt,
			Author:     p.Author,
			LikesCount: likeCounts[p.ID],
			IsLiked:    likedByViewer[p.ID],
			Comments:   postComments,
		})
	}

	return views, nil
}

// AssembleOne builds the view of a single post.
func (a *FeedAggregator) AssembleOne(ctx context.Context, post *model.Post, viewerID int64) (*model.PostView, error) {
	views, err := a.Assemble(ctx, []model.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
