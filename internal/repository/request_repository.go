package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RequestRepository handles database operations for blood requests
type RequestRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new blood request repository
func NewRequestRepository(db *sqlx.DB, logger *zap.Logger) *RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new blood request with status pending and version 1
func (r *RequestRepository) Create(ctx context.Context, req *model.BloodRequest) error {
	query := `
		INSERT INTO blood_requests (
			id, hospital_id, patient_name, blood_type, units_needed,
			urgency, status, notes, required_by, created_at, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.Status = model.StatusPending
	req.Version = 1

	_, err := r.db.ExecContext(
		ctx,
		query,
		req.ID,
		req.HospitalID,
		req.PatientName,
		req.BloodType,
		req.UnitsNeeded,
		req.Urgency,
		req.Status,
		req.Notes,
		req.RequiredBy,
		req.CreatedAt,
		req.Version,
	)

	if err != nil {
		r.logger.Error("Failed to create blood request", zap.Error(err))
		return err
	}

	return nil
}

// GetByID retrieves a blood request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*model.BloodRequest, error) {
	query := `
		SELECT id, hospital_id, patient_name, blood_type, units_needed,
		       urgency, status, fulfilled_by, notes, required_by, created_at, version
		FROM blood_requests
		WHERE id = $1
	`

	var req model.BloodRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get blood request", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &req, nil
}

// ListByHospital retrieves a hospital's blood requests, newest first, with pagination
func (r *RequestRepository) ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]model.BloodRequest, int, error) {
	countQuery := `SELECT COUNT(*) FROM blood_requests WHERE hospital_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, hospitalID); err != nil {
		r.logger.Error("Failed to count blood requests", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT id, hospital_id, patient_name, blood_type, units_needed,
		       urgency, status, fulfilled_by, notes, required_by, created_at, version
		FROM blood_requests
		WHERE hospital_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	requests := []model.BloodRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, hospitalID, limit, offset); err != nil {
		r.logger.Error("Failed to list blood requests", zap.Error(err))
		return nil, 0, err
	}

	return requests, total, nil
}

// ListAll retrieves all blood requests, newest first, with pagination
func (r *RequestRepository) ListAll(ctx context.Context, limit, offset int) ([]model.BloodRequest, int, error) {
	countQuery := `SELECT COUNT(*) FROM blood_requests`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		r.logger.Error("Failed to count blood requests", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT id, hospital_id, patient_name, blood_type, units_needed,
		       urgency, status, fulfilled_by, notes, required_by, created_at, version
		FROM blood_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	requests := []model.BloodRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, limit, offset); err != nil {
		r.logger.Error("Failed to list blood requests", zap.Error(err))
		return nil, 0, err
	}

	return requests, total, nil
}

// UpdateStatus applies a status change conditionally on the version the
// caller read. Zero rows updated means another writer got there first and
// the caller must re-read; that is reported as ErrConflict. fulfilledBy is
// written in the same statement so a fulfilled request and its donor id
// appear atomically.
func (r *RequestRepository) UpdateStatus(
	ctx context.Context,
	id string,
	newStatus model.RequestStatus,
	fulfilledBy *string,
	expectedVersion int,
) (*model.BloodRequest, error) {
	query := `
		UPDATE blood_requests
		SET status = $1, fulfilled_by = COALESCE($2, fulfilled_by), version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING id, hospital_id, patient_name, blood_type, units_needed,
		          urgency, status, fulfilled_by, notes, required_by, created_at, version
	`

	var req model.BloodRequest
	err := r.db.GetContext(ctx, &req, query, newStatus, fulfilledBy, id, expectedVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrConflict
		}
		r.logger.Error("Failed to update blood request status",
			zap.Error(err),
			zap.String("id", id),
			zap.String("status", newStatus.String()))
		return nil, err
	}

	return &req, nil
}
