package domain

import "time"

// Notification — уведомление пользователя о событии по донации
type Notification struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	DonationID string     `json:"donation_id,omitempty"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}
