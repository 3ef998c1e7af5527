package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// DonorRepository handles database operations for donor profiles
type DonorRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewDonorRepository creates a new donor repository
func NewDonorRepository(db *sqlx.DB, logger *zap.Logger) *DonorRepository {
	return &DonorRepository{
		db:     db,
		logger: logger,
	}
}

const donorColumns = `id, user_id, blood_type, city, state, available,
	last_donation_date, date_of_birth, weight, total_donations, created_at`

// GetByID retrieves a donor by ID
func (r *DonorRepository) GetByID(ctx context.Context, id string) (*model.Donor, error) {
	query := fmt.Sprintf(`SELECT %s FROM donors WHERE id = $1`, donorColumns)

	var donor model.Donor
	if err := r.db.GetContext(ctx, &donor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get donor", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &donor, nil
}

// GetByUserID retrieves the donor profile linked to a user account
func (r *DonorRepository) GetByUserID(ctx context.Context, userID string) (*model.Donor, error) {
	query := fmt.Sprintf(`SELECT %s FROM donors WHERE user_id = $1`, donorColumns)

	var donor model.Donor
	if err := r.db.GetContext(ctx, &donor, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get donor by user", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	return &donor, nil
}

// GetDonors retrieves donors matching the given indexed-field filters,
// ordered by id for a stable snapshot
func (r *DonorRepository) GetDonors(ctx context.Context, filter model.DonorFilter) ([]model.Donor, error) {
	query := fmt.Sprintf(`SELECT %s FROM donors WHERE 1=1`, donorColumns)
	args := []interface{}{}
	argPos := 1

	if len(filter.BloodTypes) > 0 {
		types := make([]string, len(filter.BloodTypes))
		for i, bt := range filter.BloodTypes {
			types[i] = bt.String()
		}
		query += fmt.Sprintf(" AND blood_type = ANY($%d)", argPos)
		args = append(args, pq.Array(types))
		argPos++
	}

	if filter.City != "" {
		query += fmt.Sprintf(" AND city = $%d", argPos)
		args = append(args, filter.City)
		argPos++
	}

	if filter.State != "" {
		query += fmt.Sprintf(" AND state = $%d", argPos)
		args = append(args, filter.State)
		argPos++
	}

	if filter.AvailableOnly {
		query += fmt.Sprintf(" AND available = $%d", argPos)
		args = append(args, true)
		argPos++
	}

	query += " ORDER BY id"

	donors := []model.Donor{}
	if err := r.db.SelectContext(ctx, &donors, query, args...); err != nil {
		r.logger.Error("Failed to get donors", zap.Error(err))
		return nil, err
	}

	return donors, nil
}

// SetAvailability updates a donor's availability flag
func (r *DonorRepository) SetAvailability(ctx context.Context, donorID string, available bool) error {
	query := `UPDATE donors SET available = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, available, donorID)
	if err != nil {
		r.logger.Error("Failed to set donor availability", zap.Error(err), zap.String("id", donorID))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}

	return nil
}

// RecordDonation stamps a donor's last donation date and bumps their total.
// Called when a request the donor accepted is confirmed fulfilled.
func (r *DonorRepository) RecordDonation(ctx context.Context, donorID string, donatedAt time.Time) error {
	query := `
		UPDATE donors
		SET last_donation_date = $1, total_donations = total_donations + 1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, donatedAt, donorID)
	if err != nil {
		r.logger.Error("Failed to record donation", zap.Error(err), zap.String("id", donorID))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}

	return nil
}
