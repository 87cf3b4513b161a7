package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stride/config"
	"stride/internal/domain"
	"stride/internal/repository"
)

const facilityCacheKey = "stride:facility:reference"

type FacilityServiceImpl struct {
	repo     repository.FacilityRepository
	redis    *redis.Client
	defaults config.FacilityConfig
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewFacilityService(
	repo repository.FacilityRepository,
	redisClient *redis.Client,
	defaults config.FacilityConfig,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *FacilityServiceImpl {
	return &FacilityServiceImpl{
		repo:     repo,
		redis:    redisClient,
		defaults: defaults,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetFacility is a read-through cache over the facility reference data: the
// hours and activity types change rarely but bound every validation pass.
func (s *FacilityServiceImpl) GetFacility(ctx context.Context) (*domain.Facility, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	hours, err := s.repo.GetHours(ctx)
	if err != nil {
		s.logger.Error("failed to get facility hours", zap.Error(err))
		return nil, fmt.Errorf("failed to get facility hours: %w", err)
	}
	if hours == nil {
		hours = &domain.FacilityHours{
			Start: s.defaults.DefaultOpenTime,
			End:   s.defaults.DefaultCloseTime,
		}
	}

	types, err := s.repo.ListActivityTypes(ctx)
	if err != nil {
		s.logger.Error("failed to list activity types", zap.Error(err))
		return nil, fmt.Errorf("failed to list activity types: %w", err)
	}

	facility := &domain.Facility{
		Hours:         *hours,
		ActivityTypes: types,
	}

	s.toCache(ctx, facility)

	return facility, nil
}

func (s *FacilityServiceImpl) fromCache(ctx context.Context) *domain.Facility {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, facilityCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("failed to read facility cache", zap.Error(err))
		}
		return nil
	}

	var facility domain.Facility
	if err := json.Unmarshal(payload, &facility); err != nil {
		s.logger.Warn("failed to decode facility cache", zap.Error(err))
		return nil
	}

	return &facility
}

func (s *FacilityServiceImpl) toCache(ctx context.Context, facility *domain.Facility) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(facility)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, facilityCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to write facility cache", zap.Error(err))
	}
}
