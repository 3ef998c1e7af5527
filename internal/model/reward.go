package model

import (
	"time"
)

// Points awarded per unit of blood on a fulfilled request; a donor's level
// grows by one for every 500 points.
const (
	RewardPointsPerUnit  = 100
	RewardPointsPerLevel = 500
)

// Reward represents a donor's accumulated reward points
type Reward struct {
	ID        string    `json:"id" db:"id"`
	DonorID   string    `json:"donor_id" db:"donor_id"`
	Points    int       `json:"points" db:"points"`
	Level     int       `json:"level" db:"level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LevelForPoints computes the reward level implied by a points total
func LevelForPoints(points int) int {
	return points/RewardPointsPerLevel + 1
}
