package mq

import (
	"fmt"
)

// Exchanges и очереди, через которые общаются сервисы
const (
	ExchangeDonationTopic  = "donation_topic"
	ExchangeLocationFanout = "location_fanout"
)

// SetupTopology создает exchanges, queues и bindings
func SetupTopology(mq *RabbitMQ) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	// 1. Exchange: donation_topic (topic) — события жизненного цикла донаций
	if err := ch.ExchangeDeclare(
		ExchangeDonationTopic,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		return fmt.Errorf("declare donation_topic: %w", err)
	}

	// 2. Exchange: location_fanout (fanout) — зеркало live-локаций для внешних подписчиков
	if err := ch.ExchangeDeclare(
		ExchangeLocationFanout,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare location_fanout: %w", err)
	}

	// 3. Очереди для donation_topic
	donationQueues := []string{
		"donation.created",
		"donation.requested",
		"donation.accepted",
		"donation.rejected",
		"donation.completed",
		"donation.cancelled",
		"donation.expired",
	}
	for _, q := range donationQueues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		if err := ch.QueueBind(q, q, ExchangeDonationTopic, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}

	return nil
}
