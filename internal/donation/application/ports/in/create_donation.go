package in

import (
	"context"
	"time"

	"foodshare/internal/donation/domain"
)

// CreateDonationInput — входные данные для публикации донации
type CreateDonationInput struct {
	DonorID            string
	Title              string
	Description        string
	FoodType           string
	Quantity           float64
	Unit               string
	ExpiryAt           time.Time
	District           string
	City               string
	Lat                *float64
	Lng                *float64
	PickupInstructions string
	Photo              string
}

// CreateDonationOutput — результат публикации донации
type CreateDonationOutput struct {
	Donation *domain.Donation
}

// CreateDonationUseCase — интерфейс use-case публикации донации
type CreateDonationUseCase interface {
	Execute(ctx context.Context, input CreateDonationInput) (*CreateDonationOutput, error)
}
