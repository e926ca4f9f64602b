package domain

import "time"

// ==== Request Status ====
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

// FoodRequest — заявка получателя на донацию.
// Для одной донации одновременно не больше одной заявки в {accepted, completed}.
type FoodRequest struct {
	ID          string     `json:"id" db:"id"`
	DonationID  string     `json:"donation_id" db:"donation_id"`
	RecipientID string     `json:"recipient_id" db:"recipient_id"`
	Status      string     `json:"status" db:"status"`
	RequestedAt time.Time  `json:"requested_at" db:"requested_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsPending проверяет, ожидает ли заявка решения донора
func (r *FoodRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsTerminal проверяет, находится ли заявка в конечном статусе
func (r *FoodRequest) IsTerminal() bool {
	switch r.Status {
	case RequestStatusRejected, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}
