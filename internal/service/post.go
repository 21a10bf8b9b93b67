package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/metrics"
	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/queue"
	"github.com/gowtham-garimella/pixora/internal/repository"
)

type PostService struct {
	postRepo   repository.PostRepository
	likeRepo   repository.LikeRepository
	aggregator *FeedAggregator
	publisher  queue.Publisher
}

// NewPostService wires the post operations. publisher may be nil.
func NewPostService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	aggregator *FeedAggregator,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		aggregator: aggregator,
		publisher:  publisher,
	}
}

// Create stores a post for userID. Both fields are required after trimming.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.PostView, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	caption := strings.TrimSpace(req.Caption)
	if imageURL == "" || caption == "" {
		return nil, model.ErrPostFieldsNeeded
	}

	post, err := s.postRepo.Create(ctx, userID, imageURL, caption)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	metrics.RecordEvent(metrics.EventPostCreated)
	publishEvent(ctx, s.publisher, queue.NewPostCreatedEvent(post.ID, userID))
	log.Info().Int64("post_id", post.ID).Int64("user_id", userID).Msg("Post created")

	return &model.PostView{
		ID:         post.ID,
		ImageURL:   post.ImageURL,
		Caption:    post.Caption,
		CreatedAt:  post.CreatedAt,
		Author:     post.Author,
		LikesCount: 0,
		IsLiked:    false,
		Comments:   []model.CommentView{},
	}, nil
}

// List returns views of every post, or only the viewer's own with scope "mine",
// newest first. An empty scope means "all".
func (s *PostService) List(ctx context.Context, viewerID int64, scope string) ([]model.PostView, error) {
	var authorID *int64
	switch scope {
	case "", model.ScopeAll:
	case model.ScopeMine:
		authorID = &viewerID
	default:
		return nil, model.ErrInvalidScope
	}

	posts, err := s.postRepo.List(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Assemble(ctx, posts, viewerID)
}

// Delete removes the caller's post together with its likes and comments.
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	if err := s.postRepo.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, model.ErrPostNotFound) || errors.Is(err, model.ErrNotPostOwner) {
			return err
		}
		return fmt.Errorf("delete post: %w", err)
	}

	metrics.RecordEvent(metrics.EventPostDeleted)
	publishEvent(ctx, s.publisher, queue.NewPostDeletedEvent(postID, userID))
	log.Info().Int64("post_id", postID).Int64("user_id", userID).Msg("Post deleted")
	return nil
}

// Like is idempotent: liking twice leaves a single like.
func (s *PostService) Like(ctx context.Context, postID, userID int64) (*model.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	created, err := s.likeRepo.Create(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if created {
		metrics.RecordEvent(metrics.EventLikeAdded)
		publishEvent(ctx, s.publisher, queue.NewPostLikedEvent(postID, post.UserID, userID))
	} else {
		metrics.RecordEvent(metrics.EventLikeDuplicate)
	}

	return s.aggregator.AssembleOne(ctx, post, userID)
}

// Unlike is idempotent: unliking a post that isn't liked is not an error.
func (s *PostService) Unlike(ctx context.Context, postID, userID int64) (*model.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	removed, err := s.likeRepo.Delete(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if removed {
		metrics.RecordEvent(metrics.EventLikeRemoved)
		publishEvent(ctx, s.publisher, queue.NewPostUnlikedEvent(postID, post.UserID, userID))
	}

	return s.aggregator.AssembleOne(ctx, post, userID)
}
