package out

import "context"

// LocationEvent — зеркало live-локации для внешних подписчиков.
// Точка расширения для multi-instance деплоя: сейчас hub живет в одном
// процессе, fanout позволяет другим инстансам или сервисам слушать поток.
type LocationEvent struct {
	DonationID  string  `json:"donation_id"`
	RecipientID string  `json:"recipient_id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	UpdatedAt   string  `json:"updated_at"`
}

// LocationEventPublisher — порт публикации локаций в брокер, best-effort
type LocationEventPublisher interface {
	PublishLocation(ctx context.Context, event LocationEvent) error
}
