package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/queue"
)

// StreamTrimmer is satisfied by queue.RedisPublisher.
type StreamTrimmer interface {
	Trim(ctx context.Context, stream string, maxLen int64) (int64, error)
}

// Trimmer caps the activity stream on a cron schedule.
type Trimmer struct {
	cron    *cron.Cron
	trimmer StreamTrimmer
	maxLen  int64
}

// NewTrimmer schedules a trim of the activity stream. schedule accepts the
// standard five-field syntax and descriptors such as "@hourly".
func NewTrimmer(trimmer StreamTrimmer, schedule string, maxLen int64) (*Trimmer, error) {
	t := &Trimmer{
		cron:    cron.New(),
		trimmer: trimmer,
		maxLen:  maxLen,
	}

	if _, err := t.cron.AddFunc(schedule, t.run); err != nil {
		return nil, fmt.Errorf("invalid trim schedule %q: %w", schedule, err)
	}
	return t, nil
}

func (t *Trimmer) Start() {
	t.cron.Start()
}

// Stop waits for a running trim to finish.
func (t *Trimmer) Stop() {
	<-t.cron.Stop().Done()
}

func (t *Trimmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := t.TrimNow(ctx); err != nil {
		log.Error().Err(err).Msg("Stream trim failed")
	}
}

// TrimNow trims the stream immediately and returns the number of removed entries.
func (t *Trimmer) TrimNow(ctx context.Context) (int64, error) {
	removed, err := t.trimmer.Trim(ctx, queue.StreamActivity, t.maxLen)
	if err != nil {
		return 0, err
	}
	log.Info().Str("stream", queue.StreamActivity).Int64("removed", removed).Int64("max_len", t.maxLen).Msg("Trimmed stream")
	return removed, nil
}
