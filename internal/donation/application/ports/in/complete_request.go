package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// CompleteRequestInput — входные данные для завершения передачи еды
type CompleteRequestInput struct {
	RequestID string
	DonorID   string
}

// CompleteRequestOutput — результат завершения
type CompleteRequestOutput struct {
	Request *domain.FoodRequest
}

// CompleteRequestUseCase — интерфейс use-case завершения передачи
type CompleteRequestUseCase interface {
	Execute(ctx context.Context, input CompleteRequestInput) (*CompleteRequestOutput, error)
}
