package domain

import (
	"fmt"
	"strings"
	"time"
)

// ==== Donation Status ====
const (
	DonationStatusAvailable = "available"
	DonationStatusAccepted  = "accepted"
	DonationStatusCompleted = "completed"
	DonationStatusExpired   = "expired"
)

// ==== Food Type ====
const (
	FoodTypeCooked = "cooked"
	FoodTypeOther  = "other"
)

// Donation представляет опубликованное предложение еды от донора.
// Поля Status и AcceptedRequestID меняются только через переходы координатора.
type Donation struct {
	ID                 string     `json:"id" db:"id"`
	DonorID            string     `json:"donor_id" db:"donor_id"`
	Title              string     `json:"title" db:"title"`
	Description        string     `json:"description" db:"description"`
	FoodType           string     `json:"type" db:"food_type"`
	Quantity           float64    `json:"quantity" db:"quantity"`
	Unit               string     `json:"unit" db:"unit"`
	District           string     `json:"district" db:"district"`
	City               string     `json:"city" db:"city"`
	Lat                *float64   `json:"lat,omitempty" db:"lat"`
	Lng                *float64   `json:"lng,omitempty" db:"lng"`
	PickupInstructions string     `json:"pickup_instructions" db:"pickup_instructions"`
	Photo              string     `json:"photo,omitempty" db:"photo"`
	Status             string     `json:"status" db:"status"`
	AcceptedRequestID  *string    `json:"accepted_request_id,omitempty" db:"accepted_request_id"`
	ExpiryAt           time.Time  `json:"expiry_at" db:"expiry_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// IsAvailable проверяет, доступна ли донация для новых заявок
func (d *Donation) IsAvailable() bool {
	return d.Status == DonationStatusAvailable
}

// IsTerminal проверяет, находится ли донация в конечном статусе
func (d *Donation) IsTerminal() bool {
	return d.Status == DonationStatusCompleted || d.Status == DonationStatusExpired
}

var validUnits = map[string]bool{
	"kg":       true,
	"lbs":      true,
	"items":    true,
	"portions": true,
	"liters":   true,
	"bottles":  true,
}

// ValidateAttrs проверяет обязательные атрибуты донации перед созданием
func (d *Donation) ValidateAttrs() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if d.FoodType != FoodTypeCooked && d.FoodType != FoodTypeOther {
		return fmt.Errorf("%w: type must be cooked or other", ErrValidation)
	}
	if d.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !validUnits[d.Unit] {
		return fmt.Errorf("%w: unknown unit %q", ErrValidation, d.Unit)
	}
	if d.ExpiryAt.IsZero() {
		return fmt.Errorf("%w: expiry_at is required", ErrValidation)
	}
	if strings.TrimSpace(d.District) == "" {
		return fmt.Errorf("%w: district is required", ErrValidation)
	}
	if strings.TrimSpace(d.City) == "" {
		return fmt.Errorf("%w: city is required", ErrValidation)
	}
	if strings.TrimSpace(d.PickupInstructions) == "" {
		return fmt.Errorf("%w: pickup_instructions is required", ErrValidation)
	}
	if d.Lat != nil || d.Lng != nil {
		if d.Lat == nil || d.Lng == nil {
			return fmt.Errorf("%w: lat and lng must be set together", ErrValidation)
		}
		if err := ValidateCoordinates(*d.Lat, *d.Lng); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCoordinates проверяет корректность координат
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinates)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinates)
	}
	return nil
}
