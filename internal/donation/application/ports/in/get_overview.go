package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// GetOverviewInput — запрос статистики (только для админа)
type GetOverviewInput struct {
	RequesterRole string
}

// GetOverviewOutput — результат
type GetOverviewOutput struct {
	Stats *domain.OverviewStats
}

// GetOverviewUseCase — интерфейс use-case статистики платформы
type GetOverviewUseCase interface {
	Execute(ctx context.Context, input GetOverviewInput) (*GetOverviewOutput, error)
}
