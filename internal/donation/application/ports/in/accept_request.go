package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// AcceptRequestInput — входные данные для принятия заявки донором
type AcceptRequestInput struct {
	RequestID string
	DonorID   string
}

// AcceptRequestOutput — результат принятия заявки.
// RejectedSiblings — количество конкурирующих заявок, отклонённых автоматически.
type AcceptRequestOutput struct {
	Request          *domain.FoodRequest
	RejectedSiblings int
}

// AcceptRequestUseCase — интерфейс use-case принятия заявки.
// Среди конкурирующих accept по одной донации выигрывает ровно один вызов.
type AcceptRequestUseCase interface {
	Execute(ctx context.Context, input AcceptRequestInput) (*AcceptRequestOutput, error)
}
