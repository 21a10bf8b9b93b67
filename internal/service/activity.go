package service

import (
	"context"

	"github.com/gowtham-garimella/pixora/internal/cache"
	"github.com/gowtham-garimella/pixora/internal/model"
)

type ActivityService struct {
	cache cache.ActivityCache
}

// NewActivityService accepts a nil cache when Redis is not configured.
func NewActivityService(c cache.ActivityCache) *ActivityService {
	return &ActivityService{cache: c}
}

// Recent returns the newest activity on the user's posts. limit is clamped
// to [1, MaxActivityLimit]; zero or less means the default.
func (s *ActivityService) Recent(ctx context.Context, userID int64, limit int) ([]model.Activity, error) {
	if s.cache == nil {
		return []model.Activity{}, nil
	}

	if limit <= 0 {
		limit = model.DefaultActivityLimit
	}
	if limit > model.MaxActivityLimit {
		limit = model.MaxActivityLimit
	}

	return s.cache.Recent(ctx, userID, limit)
}
