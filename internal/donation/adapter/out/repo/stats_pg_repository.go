package repo

import (
	"context"
	"fmt"

	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsPgRepository — PostgreSQL репозиторий агрегированной статистики
type StatsPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewStatsPgRepository создает новый экземпляр репозитория
func NewStatsPgRepository(pool *pgxpool.Pool, log *logger.Logger) *StatsPgRepository {
	return &StatsPgRepository{
		pool: pool,
		log:  log,
	}
}

// Overview возвращает сводку по донациям, заявкам и пользователям
func (r *StatsPgRepository) Overview(ctx context.Context) (*domain.OverviewStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM donations),
			(SELECT COUNT(*) FROM donations WHERE status = 'available'),
			(SELECT COUNT(*) FROM donations WHERE status = 'accepted'),
			(SELECT COUNT(*) FROM donations WHERE status = 'completed'),
			(SELECT COUNT(*) FROM donations WHERE status = 'expired'),
			(SELECT COUNT(*) FROM requests),
			(SELECT COUNT(*) FROM requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM users WHERE role = 'DONOR' AND status = 'ACTIVE'),
			(SELECT COUNT(*) FROM users WHERE role = 'RECIPIENT' AND status = 'ACTIVE')
	`

	stats := &domain.OverviewStats{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalDonations,
		&stats.AvailableDonations,
		&stats.AcceptedDonations,
		&stats.CompletedDonations,
		&stats.ExpiredDonations,
		&stats.TotalRequests,
		&stats.PendingRequests,
		&stats.ActiveDonors,
		&stats.ActiveRecipients,
	)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:  "db_overview_stats_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query overview stats: %w", err)
	}

	return stats, nil
}
