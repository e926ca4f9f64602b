package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// CancelRequestInput — входные данные для отмены заявки получателем
type CancelRequestInput struct {
	RequestID   string
	RecipientID string
}

// CancelRequestOutput — результат отмены
type CancelRequestOutput struct {
	Request *domain.FoodRequest
}

// CancelRequestUseCase — интерфейс use-case отмены заявки получателем.
// Отмена не трогает статус донации, даже если заявка была принятой.
type CancelRequestUseCase interface {
	Execute(ctx context.Context, input CancelRequestInput) (*CancelRequestOutput, error)
}
