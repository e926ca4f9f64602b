package usecase

import (
	"context"
	"fmt"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

// CancelRequestService реализует CancelRequestUseCase
type CancelRequestService struct {
	donationRepo out.DonationRepository
	requestRepo  out.RequestRepository
	publisher    out.EventPublisher
	notifier     out.NotificationRelay
	log          *logger.Logger
}

// NewCancelRequestService создает новый сервис отмены заявок
func NewCancelRequestService(
	donationRepo out.DonationRepository,
	requestRepo out.RequestRepository,
	publisher out.EventPublisher,
	notifier out.NotificationRelay,
	log *logger.Logger,
) *CancelRequestService {
	return &CancelRequestService{
		donationRepo: donationRepo,
		requestRepo:  requestRepo,
		publisher:    publisher,
		notifier:     notifier,
		log:          log,
	}
}

// Execute отменяет заявку от имени получателя. Статус донации при этом
// не меняется: если отменена принятая заявка, донор сам решает, что
// делать дальше (отклонить её нельзя — она уже в конечном статусе).
func (s *CancelRequestService) Execute(ctx context.Context, input in.CancelRequestInput) (*in.CancelRequestOutput, error) {
	request, err := s.requestRepo.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	if request.RecipientID != input.RecipientID {
		return nil, domain.ErrNotRequestOwner
	}

	if request.IsTerminal() {
		return nil, domain.ErrRequestNotCancellable
	}

	wasAccepted := request.Status == domain.RequestStatusAccepted

	if err := s.requestRepo.Cancel(ctx, request.ID); err != nil {
		s.log.Error(logger.Entry{
			Action:     "cancel_request_failed",
			Message:    err.Error(),
			DonationID: request.DonationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("cancel request: %w", err)
	}

	updated, err := s.requestRepo.FindByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:     "request_cancelled",
		Message:    request.ID,
		DonationID: request.DonationID,
		Additional: map[string]any{
			"recipient_id": input.RecipientID,
			"was_accepted": wasAccepted,
		},
	})

	donation, err := s.donationRepo.FindByID(ctx, request.DonationID)
	if err != nil {
		// Заявка уже отменена, донация нужна только для уведомления
		return &in.CancelRequestOutput{Request: updated}, nil
	}

	eventData := out.DonationEventData{
		DonationID:  donation.ID,
		DonorID:     donation.DonorID,
		RecipientID: request.RecipientID,
		RequestID:   request.ID,
	}

	if err := s.publisher.PublishDonationEvent(ctx, domain.EventRequestCancelled, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:     "publish_donation_event_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	// Об отмене принятой заявки донору стоит знать сразу
	if wasAccepted {
		msg := fmt.Sprintf("Recipient cancelled the accepted request for %q", donation.Title)
		if err := s.notifier.Notify(ctx, donation.DonorID, donation.ID, msg); err != nil {
			s.log.Error(logger.Entry{
				Action:     "notify_donor_failed",
				Message:    err.Error(),
				DonationID: donation.ID,
				Error:      &logger.ErrObj{Msg: err.Error()},
			})
		}
	}

	return &in.CancelRequestOutput{Request: updated}, nil
}
