package usecase

import (
	"context"
	"errors"
	"fmt"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

// AcceptRequestService реализует AcceptRequestUseCase
type AcceptRequestService struct {
	donationRepo out.DonationRepository
	requestRepo  out.RequestRepository
	publisher    out.EventPublisher
	notifier     out.NotificationRelay
	log          *logger.Logger
}

// NewAcceptRequestService создает новый сервис принятия заявок
func NewAcceptRequestService(
	donationRepo out.DonationRepository,
	requestRepo out.RequestRepository,
	publisher out.EventPublisher,
	notifier out.NotificationRelay,
	log *logger.Logger,
) *AcceptRequestService {
	return &AcceptRequestService{
		donationRepo: donationRepo,
		requestRepo:  requestRepo,
		publisher:    publisher,
		notifier:     notifier,
		log:          log,
	}
}

// Execute принимает заявку от имени донора. Сериализация конкурирующих
// accept происходит в репозитории на условном UPDATE донации: ровно один
// вызов выигрывает, остальные получают ErrDonationNotAvailable.
func (s *AcceptRequestService) Execute(ctx context.Context, input in.AcceptRequestInput) (*in.AcceptRequestOutput, error) {
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

	if !request.IsPending() {
		return nil, domain.ErrRequestNotPending
	}

	result, err := s.requestRepo.Accept(ctx, request.ID, donation.ID)
	if err != nil {
		if errors.Is(err, domain.ErrDonationNotAvailable) || errors.Is(err, domain.ErrRequestNotPending) {
			return nil, err
		}
		s.log.Error(logger.Entry{
			Action:     "accept_request_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("accept request: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:     "request_accepted",
		Message:    request.ID,
		DonationID: donation.ID,
		Additional: map[string]any{
			"recipient_id":      request.RecipientID,
			"rejected_siblings": len(result.RejectedSiblings),
		},
	})

	eventData := out.DonationEventData{
		DonationID:  donation.ID,
		DonorID:     donation.DonorID,
		RecipientID: request.RecipientID,
		RequestID:   request.ID,
		Status:      domain.DonationStatusAccepted,
	}

	if err := s.publisher.PublishDonationEvent(ctx, domain.EventRequestAccepted, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:     "publish_donation_event_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	// Уведомляем победителя и проигравших. Ошибки доставки только логируем.
	winMsg := fmt.Sprintf("Your request for %q was accepted", donation.Title)
	if err := s.notifier.Notify(ctx, request.RecipientID, donation.ID, winMsg); err != nil {
		s.log.Error(logger.Entry{
			Action:     "notify_recipient_failed",
			Message:    err.Error(),
			DonationID: donation.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
	}

	loseMsg := fmt.Sprintf("Donation %q went to another recipient", donation.Title)
	for _, sib := range result.RejectedSiblings {
		if err := s.notifier.Notify(ctx, sib.RecipientID, donation.ID, loseMsg); err != nil {
			s.log.Error(logger.Entry{
				Action:     "notify_recipient_failed",
				Message:    err.Error(),
				DonationID: donation.ID,
				Error:      &logger.ErrObj{Msg: err.Error()},
			})
		}
	}

	return &in.AcceptRequestOutput{
		Request:          result.Request,
		RejectedSiblings: len(result.RejectedSiblings),
	}, nil
}
