package domain

import (
	"fmt"
	"time"
)

// ==== Connection Role ====
const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
)

// LiveLocationEntry — текущая позиция получателя по донации.
// Один слот на донацию: каждый publish перезаписывает предыдущий.
type LiveLocationEntry struct {
	DonationID  string
	RecipientID string
	Lat         float64
	Lng         float64
	UpdatedAt   time.Time
}

// IsStale проверяет, устарела ли запись относительно TTL
func (e *LiveLocationEntry) IsStale(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.UpdatedAt) > ttl
}

// ConnectionRegistration — привязка WebSocket соединения к донации.
// Живет от регистрации до дисконнекта; записи локаций не трогает.
type ConnectionRegistration struct {
	ConnID       string
	UserID       string
	Role         string
	DonationID   string
	RegisteredAt time.Time
}

// ValidateRole проверяет роль в регистрационном сообщении
func ValidateRole(role string) error {
	if role != RoleDonor && role != RoleRecipient {
		return fmt.Errorf("%w: role must be donor or recipient", ErrValidation)
	}
	return nil
}

// ValidateCoordinates проверяет корректность координат
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	return nil
}
