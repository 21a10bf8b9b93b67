package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/cache"
	"github.com/gowtham-garimella/pixora/internal/metrics"
	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/queue"
)

// Handler folds activity stream events into per-user activity caches.
type Handler struct {
	activityCache cache.ActivityCache
}

func NewHandler(activityCache cache.ActivityCache) *Handler {
	return &Handler{activityCache: activityCache}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	start := time.Now()
	var err error

	switch event.Type {
	case queue.EventPostCreated:
		// nothing cached for new posts
	case queue.EventPostDeleted:
		err = h.activityCache.RemovePost(ctx, event.AuthorID, event.PostID)
	case queue.EventPostLiked:
		err = h.addActivity(ctx, event, model.ActivityLike)
	case queue.EventPostUnliked:
		err = h.removeActivity(ctx, event, model.ActivityLike)
	case queue.EventCommentAdded:
		err = h.addActivity(ctx, event, model.ActivityComment)
	case queue.EventCommentDeleted:
		err = h.removeActivity(ctx, event, model.ActivityComment)
	default:
		err = fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		metrics.WorkerEvents.WithLabelValues(event.Type, "error").Inc()
		return err
	}

	metrics.WorkerEvents.WithLabelValues(event.Type, "ok").Inc()
	log.Debug().Str("type", event.Type).Int64("post_id", event.PostID).Dur("duration", time.Since(start)).Msg("Handled event")
	return nil
}

func activityFrom(event queue.ActivityEvent, kind string) model.Activity {
	return model.Activity{
		Kind:      kind,
		PostID:    event.PostID,
		ActorID:   event.ActorID,
		CommentID: event.CommentID,
		At:        time.Unix(event.Timestamp, 0).UTC(),
	}
}

// Authors acting on their own posts are not recorded.
func (h *Handler) addActivity(ctx context.Context, event queue.ActivityEvent, kind string) error {
	if event.ActorID == event.AuthorID {
		return nil
	}
	return h.activityCache.Add(ctx, event.AuthorID, activityFrom(event, kind))
}

func (h *Handler) removeActivity(ctx context.Context, event queue.ActivityEvent, kind string) error {
	if event.ActorID == event.AuthorID {
		return nil
	}
	return h.activityCache.Remove(ctx, event.AuthorID, activityFrom(event, kind))
}
