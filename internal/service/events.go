package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/queue"
)

// publishEvent is best effort: the write has already committed, so a
// failure is logged and the request still succeeds. A nil publisher means
// the activity pipeline is disabled.
func publishEvent(ctx context.Context, publisher queue.Publisher, event queue.ActivityEvent) {
	if publisher == nil {
		return
	}

	if _, err := publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
		log.Warn().
			Err(err).
			Str("type", event.Type).
			Int64("post_id", event.PostID).
			Msg("Failed to publish activity event")
	}
}
