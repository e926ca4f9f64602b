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

// RequestFoodService реализует RequestFoodUseCase
type RequestFoodService struct {
	donationRepo out.DonationRepository
	requestRepo  out.RequestRepository
	publisher    out.EventPublisher
	notifier     out.NotificationRelay
	log          *logger.Logger
}

// NewRequestFoodService создает новый сервис заявок на донации
func NewRequestFoodService(
	donationRepo out.DonationRepository,
	requestRepo out.RequestRepository,
	publisher out.EventPublisher,
	notifier out.NotificationRelay,
	log *logger.Logger,
) *RequestFoodService {
	return &RequestFoodService{
		donationRepo: donationRepo,
		requestRepo:  requestRepo,
		publisher:    publisher,
		notifier:     notifier,
		log:          log,
	}
}

// Execute создает заявку получателя на донацию.
// Повторные заявки одного получателя на ту же донацию допускаются.
func (s *RequestFoodService) Execute(ctx context.Context, input in.RequestFoodInput) (*in.RequestFoodOutput, error) {
	donation, err := s.donationRepo.FindByID(ctx, input.DonationID)
	if err != nil {
		return nil, err
	}

	if !donation.IsAvailable() {
		return nil, domain.ErrDonationNotAvailable
	}

	// Донор не подает заявку на собственную донацию
	if donation.DonorID == input.RecipientID {
		return nil, fmt.Errorf("%w: cannot request own donation", domain.ErrValidation)
	}

	now := time.Now().UTC()
	request := &domain.FoodRequest{
		ID:          uuid.New().String(),
		DonationID:  donation.ID,
		RecipientID: input.RecipientID,
		Status:      domain.RequestStatusPending,
		RequestedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		s.log.Error(logger.Entry{
			Action:     "create_request_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:     "food_requested",
		Message:    request.ID,
		DonationID: donation.ID,
		Additional: map[string]any{
			"recipient_id": input.RecipientID,
		},
	})

	eventData := out.DonationEventData{
		DonationID:  donation.ID,
		DonorID:     donation.DonorID,
		RecipientID: input.RecipientID,
		RequestID:   request.ID,
		Status:      donation.Status,
	}

	if err := s.publisher.PublishDonationEvent(ctx, domain.EventFoodRequested, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:     "publish_donation_event_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	// Уведомляем донора о новой заявке
	msg := fmt.Sprintf("New request for your donation %q", donation.Title)
	if err := s.notifier.Notify(ctx, donation.DonorID, donation.ID, msg); err != nil {
		s.log.Error(logger.Entry{
			Action:     "notify_donor_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.RequestFoodOutput{Request: request}, nil
}
