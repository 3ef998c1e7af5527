package service

import (
	"context"

	"github.com/yourorg/lifelink/internal/model"

	"go.uber.org/zap"
)

// InventoryService handles blood bank stock levels
type InventoryService struct {
	inventoryStore InventoryStore
	logger         *zap.Logger
}

// NewInventoryService creates a new blood inventory service
func NewInventoryService(inventoryStore InventoryStore, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		inventoryStore: inventoryStore,
		logger:         logger,
	}
}

// ListByBank retrieves a blood bank's stock for all blood types
func (s *InventoryService) ListByBank(ctx context.Context, bloodBankID string) ([]model.BloodInventory, error) {
	return s.inventoryStore.ListByBank(ctx, bloodBankID)
}

// Upsert sets a blood bank's stock for one blood type after validating the
// blood type at the boundary
func (s *InventoryService) Upsert(ctx context.Context, bloodBankID string, item *model.BloodInventoryUpsert) (*model.BloodInventory, error) {
	if _, err := model.ParseBloodType(item.BloodType); err != nil {
		return nil, err
	}

	updated, err := s.inventoryStore.Upsert(ctx, bloodBankID, item)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Blood inventory updated",
		zap.String("blood_bank_id", bloodBankID),
		zap.String("blood_type", item.BloodType),
		zap.Int("units", item.UnitsAvailable))

	return updated, nil
}
