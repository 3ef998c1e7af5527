package model

import (
	"time"
)

// Hospital represents a hospital profile that can raise blood requests
type Hospital struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	HospitalName       string    `json:"hospital_name" db:"hospital_name"`
	RegistrationNumber string    `json:"registration_number" db:"registration_number"`
	Address            string    `json:"address" db:"address"`
	City               string    `json:"city" db:"city"`
	State              string    `json:"state" db:"state"`
	ContactPerson      *string   `json:"contact_person,omitempty" db:"contact_person"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
