package repository

import (
	"context"
	"time"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// InventoryRepository handles database operations for blood bank stock
type InventoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewInventoryRepository creates a new blood inventory repository
func NewInventoryRepository(db *sqlx.DB, logger *zap.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:     db,
		logger: logger,
	}
}

// ListByBank retrieves a blood bank's stock for all blood types
func (r *InventoryRepository) ListByBank(ctx context.Context, bloodBankID string) ([]model.BloodInventory, error) {
	query := `
		SELECT id, blood_bank_id, blood_type, units_available, expiry_date, updated_at
		FROM blood_inventory
		WHERE blood_bank_id = $1
		ORDER BY blood_type
	`

	items := []model.BloodInventory{}
	if err := r.db.SelectContext(ctx, &items, query, bloodBankID); err != nil {
		r.logger.Error("Failed to list blood inventory", zap.Error(err), zap.String("blood_bank_id", bloodBankID))
		return nil, err
	}

	return items, nil
}

// Upsert sets a blood bank's stock for one blood type, inserting the row if
// it does not exist yet
func (r *InventoryRepository) Upsert(ctx context.Context, bloodBankID string, item *model.BloodInventoryUpsert) (*model.BloodInventory, error) {
	query := `
		INSERT INTO blood_inventory (id, blood_bank_id, blood_type, units_available, expiry_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (blood_bank_id, blood_type)
		DO UPDATE SET units_available = EXCLUDED.units_available,
		              expiry_date = EXCLUDED.expiry_date,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, blood_bank_id, blood_type, units_available, expiry_date, updated_at
	`

	var result model.BloodInventory
	err := r.db.GetContext(
		ctx,
		&result,
		query,
		uuid.New().String(),
		bloodBankID,
		item.BloodType,
		item.UnitsAvailable,
		item.ExpiryDate,
		time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert blood inventory", zap.Error(err), zap.String("blood_bank_id", bloodBankID))
		return nil, err
	}

	return &result, nil
}
