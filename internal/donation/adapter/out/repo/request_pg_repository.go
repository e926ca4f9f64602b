package repo

import (
	"context"
	"errors"
	"fmt"

	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `
	id, donation_id, recipient_id, status,
	requested_at, accepted_at, rejected_at, completed_at, cancelled_at,
	created_at, updated_at
`

// RequestPgRepository — PostgreSQL репозиторий заявок на донации
type RequestPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewRequestPgRepository создает новый экземпляр репозитория
func NewRequestPgRepository(pool *pgxpool.Pool, log *logger.Logger) *RequestPgRepository {
	return &RequestPgRepository{
		pool: pool,
		log:  log,
	}
}

// Save создает новую заявку
func (r *RequestPgRepository) Save(ctx context.Context, req *domain.FoodRequest) error {
	query := `
		INSERT INTO requests (
			id, donation_id, recipient_id, status,
			requested_at, accepted_at, rejected_at, completed_at, cancelled_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.DonationID,
		req.RecipientID,
		req.Status,
		req.RequestedAt,
		req.AcceptedAt,
		req.RejectedAt,
		req.CompletedAt,
		req.CancelledAt,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:     "db_create_request_failed",
			Message:    err.Error(),
			DonationID: req.DonationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("insert request: %w", err)
	}

	return nil
}

func scanRequest(row pgx.Row) (*domain.FoodRequest, error) {
	req := &domain.FoodRequest{}
	err := row.Scan(
		&req.ID,
		&req.DonationID,
		&req.RecipientID,
		&req.Status,
		&req.RequestedAt,
		&req.AcceptedAt,
		&req.RejectedAt,
		&req.CompletedAt,
		&req.CancelledAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// FindByID возвращает заявку по ID
func (r *RequestPgRepository) FindByID(ctx context.Context, requestID string) (*domain.FoodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		r.log.Error(logger.Entry{
			Action:  "db_find_request_by_id_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query request by id: %w", err)
	}

	return req, nil
}

// FindByDonation возвращает заявки по донации, старые первыми
func (r *RequestPgRepository) FindByDonation(ctx context.Context, donationID string) ([]*domain.FoodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE donation_id = $1 ORDER BY requested_at ASC`

	rows, err := r.pool.Query(ctx, query, donationID)
	if err != nil {
		return nil, fmt.Errorf("query requests by donation: %w", err)
	}
	defer rows.Close()

	var requests []*domain.FoodRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// FindByRecipient возвращает заявки получателя, новые первыми
func (r *RequestPgRepository) FindByRecipient(ctx context.Context, recipientID string) ([]*domain.FoodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE recipient_id = $1 ORDER BY requested_at DESC`

	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("query requests by recipient: %w", err)
	}
	defer rows.Close()

	var requests []*domain.FoodRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// Accept атомарно принимает заявку. Точка сериализации — условный UPDATE
// донации: только один из конкурирующих вызовов увидит status = 'available'.
// Остальные получают ErrDonationNotAvailable. В той же транзакции заявка
// переводится в accepted, а остальные pending-заявки по донации — в rejected.
func (r *RequestPgRepository) Accept(ctx context.Context, requestID, donationID string) (*out.AcceptResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback(ctx)

	claim := `
		UPDATE donations
		SET status = 'accepted', accepted_request_id = $1, updated_at = NOW()
		WHERE id = $2
		  AND status = 'available'
	`

	tag, err := tx.Exec(ctx, claim, requestID, donationID)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:     "db_claim_donation_failed",
			Message:    err.Error(),
			DonationID: donationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("claim donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDonationNotAvailable
	}

	acceptReq := `
		UPDATE requests
		SET status = 'accepted', accepted_at = NOW(), updated_at = NOW()
		WHERE id = $1
		  AND donation_id = $2
		  AND status = 'pending'
		RETURNING ` + requestColumns

	req, err := scanRequest(tx.QueryRow(ctx, acceptReq, requestID, donationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Заявку успели отменить или отклонить; откатываем захват донации
			return nil, domain.ErrRequestNotPending
		}
		return nil, fmt.Errorf("accept request: %w", err)
	}

	rejectSiblings := `
		UPDATE requests
		SET status = 'rejected', rejected_at = NOW(), updated_at = NOW()
		WHERE donation_id = $1
		  AND id <> $2
		  AND status = 'pending'
		RETURNING id, recipient_id
	`

	rows, err := tx.Query(ctx, rejectSiblings, donationID, requestID)
	if err != nil {
		return nil, fmt.Errorf("reject sibling requests: %w", err)
	}

	var siblings []out.RejectedSibling
	for rows.Next() {
		var sib out.RejectedSibling
		if err := rows.Scan(&sib.RequestID, &sib.RecipientID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan rejected sibling: %w", err)
		}
		siblings = append(siblings, sib)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reject sibling requests: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit accept tx: %w", err)
	}

	return &out.AcceptResult{Request: req, RejectedSiblings: siblings}, nil
}

// Reject отклоняет заявку; принятая заявка возвращает донацию в available
func (r *RequestPgRepository) Reject(ctx context.Context, requestID, donationID string, wasAccepted bool) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin reject tx: %w", err)
	}
	defer tx.Rollback(ctx)

	reject := `
		UPDATE requests
		SET status = 'rejected', rejected_at = NOW(), updated_at = NOW()
		WHERE id = $1
		  AND status IN ('pending', 'accepted')
	`

	tag, err := tx.Exec(ctx, reject, requestID)
	if err != nil {
		return false, fmt.Errorf("reject request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, domain.ErrRequestNotPending
	}

	reopened := false
	if wasAccepted {
		reopen := `
			UPDATE donations
			SET status = 'available', accepted_request_id = NULL, updated_at = NOW()
			WHERE id = $1
			  AND status = 'accepted'
			  AND accepted_request_id = $2
		`
		tag, err := tx.Exec(ctx, reopen, donationID, requestID)
		if err != nil {
			return false, fmt.Errorf("reopen donation: %w", err)
		}
		reopened = tag.RowsAffected() > 0
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit reject tx: %w", err)
	}

	return reopened, nil
}

// Complete завершает принятую заявку вместе с донацией
func (r *RequestPgRepository) Complete(ctx context.Context, requestID, donationID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin complete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	complete := `
		UPDATE requests
		SET status = 'completed', completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		  AND status = 'accepted'
	`

	tag, err := tx.Exec(ctx, complete, requestID)
	if err != nil {
		return fmt.Errorf("complete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRequestNotAccepted
	}

	closeDonation := `
		UPDATE donations
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1
		  AND status = 'accepted'
		  AND accepted_request_id = $2
	`

	tag, err = tx.Exec(ctx, closeDonation, donationID, requestID)
	if err != nil {
		return fmt.Errorf("complete donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDonationNotAvailable
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit complete tx: %w", err)
	}

	return nil
}

// Cancel отменяет заявку получателя. Донацию не трогаем.
func (r *RequestPgRepository) Cancel(ctx context.Context, requestID string) error {
	cancel := `
		UPDATE requests
		SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1
		  AND status IN ('pending', 'accepted')
	`

	tag, err := r.pool.Exec(ctx, cancel, requestID)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:  "db_cancel_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("cancel request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRequestNotCancellable
	}

	return nil
}
