package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// GetDonationsInput — фильтры списка доступных донаций
type GetDonationsInput struct {
	City     string
	District string
	FoodType string
	Limit    int
	Offset   int
}

// GetDonationsOutput — страница донаций
type GetDonationsOutput struct {
	Donations []*domain.Donation
}

// GetDonationsUseCase — интерфейс use-case списка доступных донаций
type GetDonationsUseCase interface {
	Execute(ctx context.Context, input GetDonationsInput) (*GetDonationsOutput, error)
}

// GetDonationInput — запрос одной донации с её заявками
type GetDonationInput struct {
	DonationID string
	ViewerID   string
}

// GetDonationOutput — донация и заявки по ней.
// Заявки видны только донору-владельцу, остальным возвращается пустой срез.
type GetDonationOutput struct {
	Donation *domain.Donation
	Requests []*domain.FoodRequest
}

// GetDonationUseCase — интерфейс use-case просмотра донации
type GetDonationUseCase interface {
	Execute(ctx context.Context, input GetDonationInput) (*GetDonationOutput, error)
}

// GetMyDonationsInput — запрос донаций текущего донора
type GetMyDonationsInput struct {
	DonorID    string
	ActiveOnly bool
}

// GetMyDonationsOutput — донации донора
type GetMyDonationsOutput struct {
	Donations []*domain.Donation
}

// GetMyDonationsUseCase — интерфейс use-case донаций донора
type GetMyDonationsUseCase interface {
	Execute(ctx context.Context, input GetMyDonationsInput) (*GetMyDonationsOutput, error)
}

// GetMyRequestsInput — запрос заявок текущего получателя
type GetMyRequestsInput struct {
	RecipientID string
}

// GetMyRequestsOutput — заявки получателя
type GetMyRequestsOutput struct {
	Requests []*domain.FoodRequest
}

// GetMyRequestsUseCase — интерфейс use-case заявок получателя
type GetMyRequestsUseCase interface {
	Execute(ctx context.Context, input GetMyRequestsInput) (*GetMyRequestsOutput, error)
}
