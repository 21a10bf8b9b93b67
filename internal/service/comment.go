package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/metrics"
	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/queue"
	"github.com/gowtham-garimella/pixora/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	aggregator  *FeedAggregator
	publisher   queue.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	aggregator *FeedAggregator,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		aggregator:  aggregator,
		publisher:   publisher,
	}
}

// Add comments on a post and returns the updated post view.
func (s *CommentService) Add(ctx context.Context, postID, userID int64, req model.CreateCommentRequest) (*model.PostView, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, model.ErrTextRequired
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.Create(ctx, postID, userID, text)
	if err != nil {
		return nil, err
	}

	metrics.RecordEvent(metrics.EventCommentAdded)
	publishEvent(ctx, s.publisher, queue.NewCommentAddedEvent(postID, post.UserID, userID, comment.ID))
	log.Debug().Int64("post_id", postID).Int64("comment_id", comment.ID).Msg("Comment added")

	return s.aggregator.AssembleOne(ctx, post, userID)
}

// Delete removes a comment. The comment's author and the post's author may both delete it.
func (s *CommentService) Delete(ctx context.Context, postID, commentID, userID int64) (*model.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, model.ErrCommentNotFound
	}
	if comment.UserID != userID && post.UserID != userID {
		return nil, model.ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return nil, err
	}

	metrics.RecordEvent(metrics.EventCommentDeleted)
	publishEvent(ctx, s.publisher, queue.NewCommentDeletedEvent(postID, post.UserID, comment.UserID, commentID))

	return s.aggregator.AssembleOne(ctx, post, userID)
}
