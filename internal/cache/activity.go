package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/model"
)

const (
	ActivityCachePrefix = "activity:user:"

	// ActivityCacheCap is the maximum number of entries kept per user
	ActivityCacheCap = 100

	ActivityCacheTTL = 30 * 24 * time.Hour
)

// ActivityCache stores recent activity on a user's posts in a Redis sorted set
// scored by unix time. Members encode the activity so that they can be removed
// again without a lookup:
//
//	like:<postID>:<actorID>
//	comment:<postID>:<actorID>:<commentID>
type ActivityCache interface {
	Add(ctx context.Context, ownerID int64, a model.Activity) error
	Remove(ctx context.Context, ownerID int64, a model.Activity) error
	// RemovePost drops every entry about postID from the owner's set.
	RemovePost(ctx context.Context, ownerID, postID int64) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, ownerID int64, limit int) ([]model.Activity, error)
}

type RedisActivityCache struct {
	client *redis.Client
}

func NewActivityCache(client *redis.Client) ActivityCache {
	return &RedisActivityCache{client: client}
}

func activityKey(userID int64) string {
	return fmt.Sprintf("%s%d", ActivityCachePrefix, userID)
}

func encodeMember(a model.Activity) string {
	if a.Kind == model.ActivityComment {
		return fmt.Sprintf("%s:%d:%d:%d", a.Kind, a.PostID, a.ActorID, a.CommentID)
	}
	return fmt.Sprintf("%s:%d:%d", a.Kind, a.PostID, a.ActorID)
}

func decodeMember(member string, score float64) (model.Activity, error) {
	parts := strings.Split(member, ":")
	if len(parts) < 3 {
		return model.Activity{}, fmt.Errorf("malformed activity member %q", member)
	}

	ids := make([]int64, 0, 3)
	for _, p := range parts[1:] {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return model.Activity{}, fmt.Errorf("malformed activity member %q: %w", member, err)
		}
		ids = append(ids, id)
	}

	a := model.Activity{
		Kind:    parts[0],
		PostID:  ids[0],
		ActorID: ids[1],
		At:      time.Unix(int64(score), 0).UTC(),
	}
	switch a.Kind {
	case model.ActivityLike:
	case model.ActivityComment:
		if len(ids) != 3 {
			return model.Activity{}, fmt.Errorf("malformed activity member %q", member)
		}
		a.CommentID = ids[2]
	default:
		return model.Activity{}, fmt.Errorf("unknown activity kind %q", a.Kind)
	}
	return a, nil
}

// Add runs ZADD + ZREMRANGEBYRANK (cap) + EXPIRE in one pipeline.
func (c *RedisActivityCache) Add(ctx context.Context, ownerID int64, a model.Activity) error {
	key := activityKey(ownerID)

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(a.At.Unix()),
		Member: encodeMember(a),
	})
	// rank 0 is the oldest entry
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-ActivityCacheCap-1))
	pipe.Expire(ctx, key, ActivityCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add activity: %w", err)
	}
	return nil
}

func (c *RedisActivityCache) Remove(ctx context.Context, ownerID int64, a model.Activity) error {
	if err := c.client.ZRem(ctx, activityKey(ownerID), encodeMember(a)).Err(); err != nil {
		return fmt.Errorf("remove activity: %w", err)
	}
	return nil
}

func (c *RedisActivityCache) RemovePost(ctx context.Context, ownerID, postID int64) error {
	key := activityKey(ownerID)

	members, err := c.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("list activity: %w", err)
	}

	var stale []interface{}
	for _, m := range members {
		parts := strings.SplitN(m, ":", 3)
		if len(parts) == 3 && parts[1] == strconv.FormatInt(postID, 10) {
			stale = append(stale, m)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	if err := c.client.ZRem(ctx, key, stale...).Err(); err != nil {
		return fmt.Errorf("remove post activity: %w", err)
	}
	return nil
}

func (c *RedisActivityCache) Recent(ctx context.Context, ownerID int64, limit int) ([]model.Activity, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, activityKey(ownerID), 0, int64(limit-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	activities := make([]model.Activity, 0, len(results))
	for _, z := range results {
		member, _ := z.Member.(string)
		a, err := decodeMember(member, z.Score)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", ownerID).Msg("Skipping activity entry")
			continue
		}
		activities = append(activities, a)
	}
	return activities, nil
}
