package usecase

import (
	"context"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
	"foodshare/internal/shared/user"
)

// GetOverviewService реализует GetOverviewUseCase
type GetOverviewService struct {
	statsRepo out.StatsRepository
	log       *logger.Logger
}

// NewGetOverviewService создает новый сервис статистики платформы
func NewGetOverviewService(statsRepo out.StatsRepository, log *logger.Logger) *GetOverviewService {
	return &GetOverviewService{statsRepo: statsRepo, log: log}
}

// Execute возвращает агрегированную статистику. Доступно только админу.
func (s *GetOverviewService) Execute(ctx context.Context, input in.GetOverviewInput) (*in.GetOverviewOutput, error) {
	if input.RequesterRole != user.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	stats, err := s.statsRepo.Overview(ctx)
	if err != nil {
		return nil, err
	}

	return &in.GetOverviewOutput{Stats: stats}, nil
}
