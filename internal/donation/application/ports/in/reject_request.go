package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// RejectRequestInput — входные данные для отклонения заявки донором
type RejectRequestInput struct {
	RequestID string
	DonorID   string
}

// RejectRequestOutput — результат отклонения заявки.
// DonationReopened = true, если отклонена принятая заявка и донация снова доступна.
type RejectRequestOutput struct {
	Request          *domain.FoodRequest
	DonationReopened bool
}

// RejectRequestUseCase — интерфейс use-case отклонения заявки
type RejectRequestUseCase interface {
	Execute(ctx context.Context, input RejectRequestInput) (*RejectRequestOutput, error)
}
