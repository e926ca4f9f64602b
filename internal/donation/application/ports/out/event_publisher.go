package out

import "context"

// DonationEventData — полезная нагрузка события донации для брокера
type DonationEventData struct {
	DonationID  string   `json:"donation_id"`
	DonorID     string   `json:"donor_id,omitempty"`
	RecipientID string   `json:"recipient_id,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
	Status      string   `json:"status,omitempty"`
	FoodType    string   `json:"food_type,omitempty"`
	City        string   `json:"city,omitempty"`
	District    string   `json:"district,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// EventPublisher — порт публикации доменных событий в брокер
type EventPublisher interface {
	PublishDonationEvent(ctx context.Context, eventType string, data DonationEventData) error
}
