package service

import (
	"context"
	"time"

	"github.com/yourorg/lifelink/internal/model"
)

// Store interfaces abstract the record store so services can be exercised
// against doubles; the sqlx repositories are the production implementations.

// RequestStore persists blood requests
type RequestStore interface {
	Create(ctx context.Context, req *model.BloodRequest) error
	GetByID(ctx context.Context, id string) (*model.BloodRequest, error)
	ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]model.BloodRequest, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.BloodRequest, int, error)
	UpdateStatus(ctx context.Context, id string, newStatus model.RequestStatus, fulfilledBy *string, expectedVersion int) (*model.BloodRequest, error)
}

// DonorStore persists donor profiles
type DonorStore interface {
	GetByID(ctx context.Context, id string) (*model.Donor, error)
	GetByUserID(ctx context.Context, userID string) (*model.Donor, error)
	GetDonors(ctx context.Context, filter model.DonorFilter) ([]model.Donor, error)
	SetAvailability(ctx context.Context, donorID string, available bool) error
	RecordDonation(ctx context.Context, donorID string, donatedAt time.Time) error
}

// HospitalStore persists hospital profiles
type HospitalStore interface {
	GetByID(ctx context.Context, id string) (*model.Hospital, error)
	GetByUserID(ctx context.Context, userID string) (*model.Hospital, error)
}

// NotificationStore persists user notifications
type NotificationStore interface {
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	GetAllForUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, int, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
}

// RewardStore persists donor reward points
type RewardStore interface {
	GetByDonor(ctx context.Context, donorID string) (*model.Reward, error)
	AddPoints(ctx context.Context, donorID string, points int) (*model.Reward, error)
}

// InventoryStore persists blood bank stock
type InventoryStore interface {
	ListByBank(ctx context.Context, bloodBankID string) ([]model.BloodInventory, error)
	Upsert(ctx context.Context, bloodBankID string, item *model.BloodInventoryUpsert) (*model.BloodInventory, error)
}

// Notifier is the sink for lifecycle and matching events. Dispatch is best
// effort and never fails the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID, notificationType, title, message string, relatedRequestID *string)
}
