package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// How long cached donor search results stay valid. Short on purpose:
// availability flips often and matching always reads the store directly.
const donorSearchCacheTTL = 60 * time.Second

// DonorService handles donor profile operations and donor search
type DonorService struct {
	donorStore  DonorStore
	rewardStore RewardStore
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewDonorService creates a new donor service. redisClient may be nil;
// search results are then never cached.
func NewDonorService(
	donorStore DonorStore,
	rewardStore RewardStore,
	redisClient *redis.Client,
	logger *zap.Logger,
) *DonorService {
	return &DonorService{
		donorStore:  donorStore,
		rewardStore: rewardStore,
		redisClient: redisClient,
		logger:      logger,
	}
}

// SearchDonors retrieves donors matching the filter, serving repeated
// identical searches from cache
func (s *DonorService) SearchDonors(ctx context.Context, filter model.DonorFilter) ([]model.Donor, error) {
	cacheKey := donorSearchCacheKey(filter)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var donors []model.Donor
			if err := json.Unmarshal([]byte(cached), &donors); err == nil {
				return donors, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("Donor search cache read failed", zap.Error(err))
		}
	}

	donors, err := s.donorStore.GetDonors(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(donors); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, data, donorSearchCacheTTL).Err(); err != nil {
				s.logger.Warn("Donor search cache write failed", zap.Error(err))
			}
		}
	}

	return donors, nil
}

// GetByUserID retrieves the donor profile linked to a user account
func (s *DonorService) GetByUserID(ctx context.Context, userID string) (*model.Donor, error) {
	donor, err := s.donorStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, model.ErrNotFound
	}
	return donor, nil
}

// SetAvailability updates the acting donor's availability flag and drops
// cached searches so the change is visible immediately
func (s *DonorService) SetAvailability(ctx context.Context, userID string, available bool) (*model.Donor, error) {
	donor, err := s.donorStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, model.ErrNotFound
	}

	if err := s.donorStore.SetAvailability(ctx, donor.ID, available); err != nil {
		return nil, err
	}
	donor.Available = available

	s.invalidateSearchCache(ctx)

	s.logger.Info("Donor availability updated",
		zap.String("donor_id", donor.ID),
		zap.Bool("available", available))

	return donor, nil
}

// GetRewards retrieves the acting donor's reward points. A donor who has
// never donated gets a zero-point level-one row rather than a not-found.
func (s *DonorService) GetRewards(ctx context.Context, userID string) (*model.Reward, error) {
	donor, err := s.donorStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, model.ErrNotFound
	}

	reward, err := s.rewardStore.GetByDonor(ctx, donor.ID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return &model.Reward{DonorID: donor.ID, Points: 0, Level: 1}, nil
	}

	return reward, nil
}

func (s *DonorService) invalidateSearchCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	iter := s.redisClient.Scan(ctx, 0, "donor-search:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("Donor search cache invalidation failed", zap.Error(err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("Donor search cache scan failed", zap.Error(err))
	}
}

func donorSearchCacheKey(filter model.DonorFilter) string {
	types := make([]string, len(filter.BloodTypes))
	for i, bt := range filter.BloodTypes {
		types[i] = bt.String()
	}
	return fmt.Sprintf("donor-search:%s:%s:%s:%t",
		strings.Join(types, ","), filter.City, filter.State, filter.AvailableOnly)
}
