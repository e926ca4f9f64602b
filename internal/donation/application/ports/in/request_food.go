package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// RequestFoodInput — входные данные заявки получателя
type RequestFoodInput struct {
	DonationID  string
	RecipientID string
}

// RequestFoodOutput — результат создания заявки
type RequestFoodOutput struct {
	Request *domain.FoodRequest
}

// RequestFoodUseCase — интерфейс use-case создания заявки на донацию
type RequestFoodUseCase interface {
	Execute(ctx context.Context, input RequestFoodInput) (*RequestFoodOutput, error)
}
