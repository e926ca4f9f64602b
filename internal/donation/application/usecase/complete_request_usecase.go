package usecase

import (
	"context"
	"fmt"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

// CompleteRequestService реализует CompleteRequestUseCase
type CompleteRequestService struct {
	donationRepo out.DonationRepository
	requestRepo  out.RequestRepository
	publisher    out.EventPublisher
	notifier     out.NotificationRelay
	log          *logger.Logger
}

// NewCompleteRequestService создает новый сервис завершения передачи
func NewCompleteRequestService(
	donationRepo out.DonationRepository,
	requestRepo out.RequestRepository,
	publisher out.EventPublisher,
	notifier out.NotificationRelay,
	log *logger.Logger,
) *CompleteRequestService {
	return &CompleteRequestService{
		donationRepo: donationRepo,
		requestRepo:  requestRepo,
		publisher:    publisher,
		notifier:     notifier,
		log:          log,
	}
}

// Execute завершает передачу еды. Завершить можно только принятую заявку,
// и только донору-владельцу.
func (s *CompleteRequestService) Execute(ctx context.Context, input in.CompleteRequestInput) (*in.CompleteRequestOutput, error) {
	request, err := s.requestRepo.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	donation, err := s.donationRepo.FindByID(ctx, request.DonationID)
	if err != nil {
		return nil, err
	}

	if donation.DonorID != input.DonorID {
		return nil, domain.ErrNotDonationOwner
	}

	if request.Status != domain.RequestStatusAccepted {
		return nil, domain.ErrRequestNotAccepted
	}

	if err := s.requestRepo.Complete(ctx, request.ID, donation.ID); err != nil {
		s.log.Error(logger.Entry{
			Action:     "complete_request_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("complete request: %w", err)
	}

	updated, err := s.requestRepo.FindByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:     "request_completed",
		Message:    request.ID,
		DonationID: donation.ID,
		Additional: map[string]any{
			"recipient_id": request.RecipientID,
		},
	})

	eventData := out.DonationEventData{
		DonationID:  donation.ID,
		DonorID:     donation.DonorID,
		RecipientID: request.RecipientID,
		RequestID:   request.ID,
		Status:      domain.DonationStatusCompleted,
	}

	if err := s.publisher.PublishDonationEvent(ctx, domain.EventRequestCompleted, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:     "publish_donation_event_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	msg := fmt.Sprintf("Pickup of %q is confirmed, enjoy!", donation.Title)
	if err := s.notifier.Notify(ctx, request.RecipientID, donation.ID, msg); err != nil {
		s.log.Error(logger.Entry{
			Action:     "notify_recipient_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.CompleteRequestOutput{Request: updated}, nil
}
