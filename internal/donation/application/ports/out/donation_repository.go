package out

import (
	"context"
	"time"

	"foodshare/internal/donation/domain"
)

// DonationFilter — фильтры выборки доступных донаций
type DonationFilter struct {
	City     string
	District string
	FoodType string
	Limit    int
	Offset   int
}

// DonationRepository — порт хранилища донаций
type DonationRepository interface {
	Save(ctx context.Context, donation *domain.Donation) error
	FindByID(ctx context.Context, id string) (*domain.Donation, error)
	FindAvailable(ctx context.Context, filter DonationFilter) ([]*domain.Donation, error)
	FindByDonor(ctx context.Context, donorID string, activeOnly bool) ([]*domain.Donation, error)

	// ExpireDue переводит в expired все донации со статусом available,
	// у которых expiry_at <= now. Возвращает затронутые донации
	// (для уведомлений доноров).
	ExpireDue(ctx context.Context, now time.Time) ([]*domain.Donation, error)
}
