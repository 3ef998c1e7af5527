package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// HospitalRepository handles database operations for hospital profiles
type HospitalRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewHospitalRepository creates a new hospital repository
func NewHospitalRepository(db *sqlx.DB, logger *zap.Logger) *HospitalRepository {
	return &HospitalRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a hospital by ID
func (r *HospitalRepository) GetByID(ctx context.Context, id string) (*model.Hospital, error) {
	query := `
		SELECT id, user_id, hospital_name, registration_number, address,
		       city, state, contact_person, created_at
		FROM hospitals
		WHERE id = $1
	`

	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get hospital", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &hospital, nil
}

// GetByUserID retrieves the hospital profile linked to a user account
func (r *HospitalRepository) GetByUserID(ctx context.Context, userID string) (*model.Hospital, error) {
	query := `
		SELECT id, user_id, hospital_name, registration_number, address,
		       city, state, contact_person, created_at
		FROM hospitals
		WHERE user_id = $1
	`

	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get hospital by user", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	return &hospital, nil
}
