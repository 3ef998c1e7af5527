package model

import (
	"time"
)

// Donor represents a registered blood donor profile
type Donor struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	BloodType        BloodType  `json:"blood_type" db:"blood_type"`
	City             string     `json:"city" db:"city"`
	State            string     `json:"state" db:"state"`
	Available        bool       `json:"available" db:"available"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty" db:"last_donation_date"`
	DateOfBirth      time.Time  `json:"date_of_birth" db:"date_of_birth"`
	Weight           *float64   `json:"weight,omitempty" db:"weight"`
	TotalDonations   int        `json:"total_donations" db:"total_donations"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// DonorFilter holds the indexed-field filters supported by donor search.
// An empty BloodTypes slice matches every blood type.
type DonorFilter struct {
	BloodTypes    []BloodType
	City          string
	State         string
	AvailableOnly bool
}

// DonorAvailabilityUpdate represents a donor toggling their availability
type DonorAvailabilityUpdate struct {
	Available *bool `json:"available" binding:"required"`
}
