package usecase

import (
	"context"
	"fmt"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

// RejectRequestService реализует RejectRequestUseCase
type RejectRequestService struct {
	donationRepo out.DonationRepository
	requestRepo  out.RequestRepository
	publisher    out.EventPublisher
	notifier     out.NotificationRelay
	log          *logger.Logger
}

// NewRejectRequestService создает новый сервис отклонения заявок
func NewRejectRequestService(
	donationRepo out.DonationRepository,
	requestRepo out.RequestRepository,
	publisher out.EventPublisher,
	notifier out.NotificationRelay,
	log *logger.Logger,
) *RejectRequestService {
	return &RejectRequestService{
		donationRepo: donationRepo,
		requestRepo:  requestRepo,
		publisher:    publisher,
		notifier:     notifier,
		log:          log,
	}
}

// Execute отклоняет заявку от имени донора. Отклонить можно как pending,
// так и ранее принятую заявку; во втором случае донация возвращается
// в available.
func (s *RejectRequestService) Execute(ctx context.Context, input in.RejectRequestInput) (*in.RejectRequestOutput, error) {
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

	if request.IsTerminal() {
		return nil, domain.ErrRequestNotPending
	}

	wasAccepted := request.Status == domain.RequestStatusAccepted

	reopened, err := s.requestRepo.Reject(ctx, request.ID, donation.ID, wasAccepted)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:     "reject_request_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("reject request: %w", err)
	}

	updated, err := s.requestRepo.FindByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:     "request_rejected",
		Message:    request.ID,
		DonationID: donation.ID,
		Additional: map[string]any{
			"recipient_id":      request.RecipientID,
			"donation_reopened": reopened,
		},
	})

	eventData := out.DonationEventData{
		DonationID:  donation.ID,
		DonorID:     donation.DonorID,
		RecipientID: request.RecipientID,
		RequestID:   request.ID,
	}

	if err := s.publisher.PublishDonationEvent(ctx, domain.EventRequestRejected, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:     "publish_donation_event_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	msg := fmt.Sprintf("Your request for %q was declined", donation.Title)
	if err := s.notifier.Notify(ctx, request.RecipientID, donation.ID, msg); err != nil {
		s.log.Error(logger.Entry{
			Action:     "notify_recipient_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.RejectRequestOutput{
		Request:          updated,
		DonationReopened: reopened,
	}, nil
}
