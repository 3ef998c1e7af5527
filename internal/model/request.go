package model

import (
	"time"
)

// BloodRequest represents an emergency blood request raised by a hospital
type BloodRequest struct {
	ID          string        `json:"id" db:"id"`
	HospitalID  string        `json:"hospital_id" db:"hospital_id"`
	PatientName string        `json:"patient_name" db:"patient_name"`
	BloodType   BloodType     `json:"blood_type" db:"blood_type"`
	UnitsNeeded int           `json:"units_needed" db:"units_needed"`
	Urgency     UrgencyLevel  `json:"urgency" db:"urgency"`
	Status      RequestStatus `json:"status" db:"status"`
	FulfilledBy *string       `json:"fulfilled_by,omitempty" db:"fulfilled_by"`
	Notes       string        `json:"notes,omitempty" db:"notes"`
	RequiredBy  time.Time     `json:"required_by" db:"required_by"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`

	// Version guards status updates against concurrent writers;
	// it is bumped on every successful status change.
	Version int `json:"-" db:"version"`
}

// IsTerminal reports whether the request has reached a final state
func (r *BloodRequest) IsTerminal() bool {
	return r.Status == StatusFulfilled || r.Status == StatusCancelled
}

// BloodRequestCreate represents data for creating an emergency blood request
type BloodRequestCreate struct {
	PatientName string `json:"patient_name" binding:"required"`
	BloodType   string `json:"blood_type" binding:"required"`
	UnitsNeeded int    `json:"units_needed" binding:"required,gt=0"`
	Urgency     string `json:"urgency" binding:"required"`
	Notes       string `json:"notes"`
}

// BloodRequestListResponse represents a paginated list of blood requests
type BloodRequestListResponse struct {
	Requests []BloodRequest `json:"requests"`
	Total    int            `json:"total"`
}
