package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
	"foodshare/internal/shared/mq"
)

// DonationEventPublisher публикует события донаций в RabbitMQ
type DonationEventPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

// NewDonationEventPublisher создает новый publisher
func NewDonationEventPublisher(mqConn *mq.RabbitMQ, log *logger.Logger) *DonationEventPublisher {
	return &DonationEventPublisher{
		mq:  mqConn,
		log: log,
	}
}

// PublishDonationEvent публикует событие донации в RabbitMQ
func (p *DonationEventPublisher) PublishDonationEvent(ctx context.Context, eventType string, data out.DonationEventData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	routingKey := getRoutingKey(eventType)

	if err := p.mq.Publish(ctx, mq.ExchangeDonationTopic, routingKey, payload); err != nil {
		p.log.Error(logger.Entry{
			Action:     "publish_donation_event_failed",
			Message:    err.Error(),
			DonationID: data.DonationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"event_type":  eventType,
				"routing_key": routingKey,
			},
		})
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	p.log.Debug(logger.Entry{
		Action:     "donation_event_published",
		Message:    eventType,
		DonationID: data.DonationID,
		Additional: map[string]any{
			"routing_key": routingKey,
		},
	})

	return nil
}

// getRoutingKey возвращает routing key для события
func getRoutingKey(eventType string) string {
	switch eventType {
	case domain.EventDonationCreated:
		return "donation.created"
	case domain.EventFoodRequested:
		return "donation.requested"
	case domain.EventRequestAccepted:
		return "donation.accepted"
	case domain.EventRequestRejected:
		return "donation.rejected"
	case domain.EventRequestCompleted:
		return "donation.completed"
	case domain.EventRequestCancelled:
		return "donation.cancelled"
	case domain.EventDonationExpired:
		return "donation.expired"
	default:
		return "donation.event"
	}
}
