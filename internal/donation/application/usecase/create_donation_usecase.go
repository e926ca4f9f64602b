package usecase

import (
	"context"
	"fmt"
	"time"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"

	"github.com/google/uuid"
)

// CreateDonationService реализует CreateDonationUseCase
type CreateDonationService struct {
	donationRepo out.DonationRepository
	publisher    out.EventPublisher
	log          *logger.Logger
}

// NewCreateDonationService создает новый сервис публикации донации
func NewCreateDonationService(
	donationRepo out.DonationRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) *CreateDonationService {
	return &CreateDonationService{
		donationRepo: donationRepo,
		publisher:    publisher,
		log:          log,
	}
}

// Execute выполняет публикацию новой донации
func (s *CreateDonationService) Execute(ctx context.Context, input in.CreateDonationInput) (*in.CreateDonationOutput, error) {
	now := time.Now().UTC()

	donation := &domain.Donation{
		ID:                 uuid.New().String(),
		DonorID:            input.DonorID,
		Title:              input.Title,
		Description:        input.Description,
		FoodType:           input.FoodType,
		Quantity:           input.Quantity,
		Unit:               input.Unit,
		District:           input.District,
		City:               input.City,
		Lat:                input.Lat,
		Lng:                input.Lng,
		PickupInstructions: input.PickupInstructions,
		Photo:              input.Photo,
		Status:             domain.DonationStatusAvailable,
		ExpiryAt:           input.ExpiryAt.UTC(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := donation.ValidateAttrs(); err != nil {
		return nil, err
	}

	// Донации с истекшим сроком не публикуем
	if !donation.ExpiryAt.After(now) {
		return nil, fmt.Errorf("%w: expiry_at must be in the future", domain.ErrValidation)
	}

	if err := s.donationRepo.Save(ctx, donation); err != nil {
		s.log.Error(logger.Entry{
			Action:  "create_donation_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"donor_id": input.DonorID,
			},
		})
		return nil, fmt.Errorf("create donation: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:     "donation_created",
		Message:    donation.Title,
		DonationID: donation.ID,
		Additional: map[string]any{
			"donor_id":  donation.DonorID,
			"food_type": donation.FoodType,
			"city":      donation.City,
			"district":  donation.District,
		},
	})

	// Публикуем событие в RabbitMQ
	eventData := out.DonationEventData{
		DonationID: donation.ID,
		DonorID:    donation.DonorID,
		Status:     donation.Status,
		FoodType:   donation.FoodType,
		City:       donation.City,
		District:   donation.District,
		Lat:        donation.Lat,
		Lng:        donation.Lng,
	}

	if err := s.publisher.PublishDonationEvent(ctx, domain.EventDonationCreated, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:     "publish_donation_event_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		// Не возвращаем ошибку, т.к. донация уже создана
	}

	return &in.CreateDonationOutput{Donation: donation}, nil
}
