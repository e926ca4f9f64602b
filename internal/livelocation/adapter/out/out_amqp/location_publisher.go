package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"foodshare/internal/livelocation/application/ports/out"
	"foodshare/internal/shared/logger"
	"foodshare/internal/shared/mq"
)

// AmqpLocationPublisher зеркалирует live-локации в fanout exchange
type AmqpLocationPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

// NewAmqpLocationPublisher создает новый publisher
func NewAmqpLocationPublisher(mqConn *mq.RabbitMQ, log *logger.Logger) *AmqpLocationPublisher {
	return &AmqpLocationPublisher{
		mq:  mqConn,
		log: log,
	}
}

// PublishLocation публикует событие локации в location_fanout
func (p *AmqpLocationPublisher) PublishLocation(ctx context.Context, event out.LocationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal location event: %w", err)
	}

	// fanout игнорирует routing key
	if err := p.mq.Publish(ctx, mq.ExchangeLocationFanout, "", payload); err != nil {
		p.log.Error(logger.Entry{
			Action:     "publish_location_failed",
			Message:    err.Error(),
			DonationID: event.DonationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	return nil
}
