package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	approvedCacheKey = "profiles:approved"
	approvedCacheTTL = 30 * time.Second
)

// UseCase is the public read path: approved profiles only, projected to
// the public field set. Results are cached briefly in redis; the cache is
// an optimization and every failure degrades to a direct read.
type UseCase struct {
	profiles repository.ProfileRepository
	cache    *redis.Client
}

// NewUseCase creates the read path. cache may be nil to disable caching.
func NewUseCase(profiles repository.ProfileRepository, cache *redis.Client) *UseCase {
	return &UseCase{profiles: profiles, cache: cache}
}

// ListApproved returns all approved profiles in the public projection.
func (uc *UseCase) ListApproved(ctx context.Context) ([]domain.PublicProfile, error) {
	if uc.cache != nil {
		data, err := uc.cache.Get(ctx, approvedCacheKey).Bytes()
		if err == nil {
			var cached []domain.PublicProfile
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			slog.Warn("approved-list cache read failed", "error", err)
		}
	}

	list, err := uc.profiles.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := uc.cache.Set(ctx, approvedCacheKey, data, approvedCacheTTL).Err(); err != nil {
				slog.Warn("approved-list cache write failed", "error", err)
			}
		}
	}

	return list, nil
}

// Invalidate drops the cached approved list, e.g. after an approval.
func (uc *UseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Del(ctx, approvedCacheKey).Err(); err != nil {
		slog.Warn("approved-list cache invalidation failed", "error", err)
	}
}
