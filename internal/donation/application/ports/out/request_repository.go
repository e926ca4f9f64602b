package out

import (
	"context"

	"foodshare/internal/donation/domain"
)

// RejectedSibling — конкурирующая заявка, отклонённая при accept
type RejectedSibling struct {
	RequestID   string
	RecipientID string
}

// AcceptResult — результат транзакции принятия заявки
type AcceptResult struct {
	Request          *domain.FoodRequest
	RejectedSiblings []RejectedSibling
}

// RequestRepository — порт хранилища заявок на донации
type RequestRepository interface {
	Save(ctx context.Context, request *domain.FoodRequest) error
	FindByID(ctx context.Context, id string) (*domain.FoodRequest, error)
	FindByDonation(ctx context.Context, donationID string) ([]*domain.FoodRequest, error)
	FindByRecipient(ctx context.Context, recipientID string) ([]*domain.FoodRequest, error)

	// Accept атомарно принимает заявку: условный захват донации,
	// перевод заявки в accepted и авто-отклонение остальных pending-заявок
	// по той же донации. Всё в одной транзакции. При проигрыше гонки
	// возвращает domain.ErrDonationNotAvailable.
	Accept(ctx context.Context, requestID, donationID string) (*AcceptResult, error)

	// Reject отклоняет заявку; если заявка была принятой, донация
	// возвращается в available. reopened сообщает, случилось ли это.
	Reject(ctx context.Context, requestID, donationID string, wasAccepted bool) (reopened bool, err error)

	// Complete завершает принятую заявку и донацию.
	Complete(ctx context.Context, requestID, donationID string) error

	// Cancel отменяет заявку получателя. Статус донации не меняется.
	Cancel(ctx context.Context, requestID string) error
}
