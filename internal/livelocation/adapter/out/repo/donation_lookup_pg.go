package repo

import (
	"context"
	"errors"
	"fmt"

	"foodshare/internal/livelocation/application/ports/out"
	"foodshare/internal/livelocation/domain"
	"foodshare/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DonationLookupPg читает донации и пользователей из общей PostgreSQL.
// Location-сервис не пишет в эти таблицы — только проверяет регистрации.
type DonationLookupPg struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewDonationLookupPg создает новый lookup
func NewDonationLookupPg(pool *pgxpool.Pool, log *logger.Logger) *DonationLookupPg {
	return &DonationLookupPg{
		pool: pool,
		log:  log,
	}
}

// FindDonation возвращает донацию вместе с принятым получателем (если есть)
func (r *DonationLookupPg) FindDonation(ctx context.Context, donationID string) (*out.DonationRef, error) {
	query := `
		SELECT d.id, d.donor_id, d.status, req.recipient_id
		FROM donations d
		LEFT JOIN requests req ON req.id = d.accepted_request_id
		WHERE d.id = $1
	`

	ref := &out.DonationRef{}
	err := r.pool.QueryRow(ctx, query, donationID).Scan(
		&ref.ID,
		&ref.DonorID,
		&ref.Status,
		&ref.AcceptedRecipientID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDonationNotFound
		}
		r.log.Error(logger.Entry{
			Action:     "db_find_donation_failed",
			Message:    err.Error(),
			DonationID: donationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query donation: %w", err)
	}

	return ref, nil
}

// UserExists проверяет, существует ли активный пользователь
func (r *DonationLookupPg) UserExists(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND status = 'ACTIVE')`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query user exists: %w", err)
	}

	return exists, nil
}
