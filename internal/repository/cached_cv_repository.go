package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/resumekit/cv-service/internal/domain"
)

const cvCachePrefix = "cv:"

// CachedCVRepository serves GetByID from Redis and falls back to the wrapped
// repository. Every write through it evicts the affected id. Redis failures
// are logged and never fail the request.
type CachedCVRepository struct {
	inner  CVRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCVRepository wraps inner with a read-through cache.
func NewCachedCVRepository(inner CVRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCVRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *CachedCVRepository) GetByID(ctx context.Context, id string) (*domain.CV, error) {
	key := cvCachePrefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cv domain.CV
		if jsonErr := json.Unmarshal(raw, &cv); jsonErr == nil {
			return &cv, nil
		}
		r.logger.Warn("discarding corrupt cv cache entry", zap.String("cv_id", id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("cv cache read failed", zap.String("cv_id", id), zap.Error(err))
	}

	cv, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(cv); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("cv cache write failed", zap.String("cv_id", id), zap.Error(err))
		}
	}
	return cv, nil
}

func (r *CachedCVRepository) GetPrimary(ctx context.Context, ownerID string) (*domain.CV, error) {
	return r.inner.GetPrimary(ctx, ownerID)
}

func (r *CachedCVRepository) UpsertPrimary(ctx context.Context, cv *domain.CV) error {
	if err := r.inner.UpsertPrimary(ctx, cv); err != nil {
		return err
	}
	r.Invalidate(ctx, cv.ID)
	return nil
}

func (r *CachedCVRepository) CreateSnapshot(ctx context.Context, cv *domain.CV) error {
	return r.inner.CreateSnapshot(ctx, cv)
}

func (r *CachedCVRepository) DeleteSnapshot(ctx context.Context, id, ownerID string) error {
	if err := r.inner.DeleteSnapshot(ctx, id, ownerID); err != nil {
		return err
	}
	r.Invalidate(ctx, id)
	return nil
}

// Invalidate evicts a CV from the cache.
func (r *CachedCVRepository) Invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, cvCachePrefix+id).Err(); err != nil {
		r.logger.Warn("cv cache eviction failed", zap.String("cv_id", id), zap.Error(err))
	}
}
