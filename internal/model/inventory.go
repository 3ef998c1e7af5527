package model

import (
	"time"
)

// BloodInventory represents a blood bank's stock of a single blood type
type BloodInventory struct {
	ID             string     `json:"id" db:"id"`
	BloodBankID    string     `json:"blood_bank_id" db:"blood_bank_id"`
	BloodType      BloodType  `json:"blood_type" db:"blood_type"`
	UnitsAvailable int        `json:"units_available" db:"units_available"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// BloodInventoryUpsert represents a blood bank setting stock for a blood type
type BloodInventoryUpsert struct {
	BloodType      string     `json:"blood_type" binding:"required"`
	UnitsAvailable int        `json:"units_available" binding:"min=0"`
	ExpiryDate     *time.Time `json:"expiry_date"`
}
