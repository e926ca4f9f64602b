package usecase

import (
	"context"
	"fmt"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

// ExpireDonationsService реализует ExpireDonationsUseCase
type ExpireDonationsService struct {
	donationRepo out.DonationRepository
	publisher    out.EventPublisher
	notifier     out.NotificationRelay
	log          *logger.Logger
}

// NewExpireDonationsService создает новый сервис истечения донаций
func NewExpireDonationsService(
	donationRepo out.DonationRepository,
	publisher out.EventPublisher,
	notifier out.NotificationRelay,
	log *logger.Logger,
) *ExpireDonationsService {
	return &ExpireDonationsService{
		donationRepo: donationRepo,
		publisher:    publisher,
		notifier:     notifier,
		log:          log,
	}
}

// Execute переводит просроченные available-донации в expired.
// Принятые донации не трогаем: передача уже согласована.
func (s *ExpireDonationsService) Execute(ctx context.Context, input in.ExpireDonationsInput) (*in.ExpireDonationsOutput, error) {
	expired, err := s.donationRepo.ExpireDue(ctx, input.Now.UTC())
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "expire_donations_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("expire donations: %w", err)
	}

	if len(expired) == 0 {
		return &in.ExpireDonationsOutput{Expired: 0}, nil
	}

	s.log.Info(logger.Entry{
		Action:  "donations_expired",
		Message: fmt.Sprintf("%d donations expired", len(expired)),
	})

	for _, donation := range expired {
		eventData := out.DonationEventData{
			DonationID: donation.ID,
			DonorID:    donation.DonorID,
			Status:     domain.DonationStatusExpired,
		}
		if err := s.publisher.PublishDonationEvent(ctx, domain.EventDonationExpired, eventData); err != nil {
			s.log.Error(logger.Entry{
				Action:     "publish_donation_event_failed",
				Message:    err.Error(),
				DonationID: donation.ID,
				Error:      &logger.ErrObj{Msg: err.Error()},
			})
		}

		msg := fmt.Sprintf("Your donation %q expired without pickup", donation.Title)
		if err := s.notifier.Notify(ctx, donation.DonorID, donation.ID, msg); err != nil {
			s.log.Error(logger.Entry{
				Action:     "notify_donor_failed",
				Message:    err.Error(),
				DonationID: donation.ID,
				Error:      &logger.ErrObj{Msg: err.Error()},
			})
		}
	}

	return &in.ExpireDonationsOutput{Expired: len(expired)}, nil
}
