package model

// BloodType represents one of the eight ABO/Rh blood groups
type BloodType string

const (
	BloodTypeAPositive  BloodType = "A+"
	BloodTypeANegative  BloodType = "A-"
	BloodTypeBPositive  BloodType = "B+"
	BloodTypeBNegative  BloodType = "B-"
	BloodTypeABPositive BloodType = "AB+"
	BloodTypeABNegative BloodType = "AB-"
	BloodTypeOPositive  BloodType = "O+"
	BloodTypeONegative  BloodType = "O-"
)

// String returns the string representation
func (bt BloodType) String() string {
	return string(bt)
}

// IsValid checks if the blood type is one of the eight recognized groups
func (bt BloodType) IsValid() bool {
	switch bt {
	case BloodTypeAPositive, BloodTypeANegative,
		BloodTypeBPositive, BloodTypeBNegative,
		BloodTypeABPositive, BloodTypeABNegative,
		BloodTypeOPositive, BloodTypeONegative:
		return true
	}
	return false
}

// ParseBloodType converts a raw string into a BloodType, rejecting unknown values
func ParseBloodType(s string) (BloodType, error) {
	bt := BloodType(s)
	if !bt.IsValid() {
		return "", ErrInvalidBloodType
	}
	return bt, nil
}

// UrgencyLevel represents the severity of a blood request and controls
// its fulfillment deadline
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyLow      UrgencyLevel = "low"
)

// String returns the string representation
func (u UrgencyLevel) String() string {
	return string(u)
}

// IsValid checks if the urgency level is valid
func (u UrgencyLevel) IsValid() bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// ParseUrgencyLevel converts a raw string into an UrgencyLevel, rejecting unknown values
func ParseUrgencyLevel(s string) (UrgencyLevel, error) {
	u := UrgencyLevel(s)
	if !u.IsValid() {
		return "", ErrInvalidUrgency
	}
	return u, nil
}

// RequestStatus represents the lifecycle state of a blood request
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusMatched   RequestStatus = "matched"
	StatusFulfilled RequestStatus = "fulfilled"
	StatusCancelled RequestStatus = "cancelled"
)

// String returns the string representation
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid checks if the request status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusMatched, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// ParseRequestStatus converts a raw string into a RequestStatus, rejecting unknown values
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}
