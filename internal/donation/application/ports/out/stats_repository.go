package out

import (
	"context"

	"foodshare/internal/donation/domain"
)

// StatsRepository — порт агрегированной статистики платформы
type StatsRepository interface {
	Overview(ctx context.Context) (*domain.OverviewStats, error)
}
