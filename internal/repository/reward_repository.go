package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RewardRepository handles database operations for donor rewards
type RewardRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRewardRepository creates a new reward repository
func NewRewardRepository(db *sqlx.DB, logger *zap.Logger) *RewardRepository {
	return &RewardRepository{
		db:     db,
		logger: logger,
	}
}

// GetByDonor retrieves a donor's reward row
func (r *RewardRepository) GetByDonor(ctx context.Context, donorID string) (*model.Reward, error) {
	query := `
		SELECT id, donor_id, points, level, created_at, updated_at
		FROM rewards
		WHERE donor_id = $1
	`

	var reward model.Reward
	if err := r.db.GetContext(ctx, &reward, query, donorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get reward", zap.Error(err), zap.String("donor_id", donorID))
		return nil, err
	}

	return &reward, nil
}

// AddPoints credits points to a donor, creating the reward row on first
// donation, and recomputes the level from the new total
func (r *RewardRepository) AddPoints(ctx context.Context, donorID string, points int) (*model.Reward, error) {
	query := `
		INSERT INTO rewards (id, donor_id, points, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (donor_id)
		DO UPDATE SET points = rewards.points + EXCLUDED.points,
		              level = (rewards.points + EXCLUDED.points) / 500 + 1,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, donor_id, points, level, created_at, updated_at
	`

	var reward model.Reward
	err := r.db.GetContext(
		ctx,
		&reward,
		query,
		uuid.New().String(),
		donorID,
		points,
		model.LevelForPoints(points),
		time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to add reward points", zap.Error(err), zap.String("donor_id", donorID))
		return nil, err
	}

	return &reward, nil
}
