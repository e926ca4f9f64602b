package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donationColumns = `
	id, donor_id, title, description, food_type, quantity, unit,
	district, city, lat, lng, pickup_instructions, photo,
	status, accepted_request_id, expiry_at, created_at, updated_at
`

// DonationPgRepository — PostgreSQL репозиторий донаций
type DonationPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewDonationPgRepository создает новый экземпляр репозитория
func NewDonationPgRepository(pool *pgxpool.Pool, log *logger.Logger) *DonationPgRepository {
	return &DonationPgRepository{
		pool: pool,
		log:  log,
	}
}

// Save создает новую донацию
func (r *DonationPgRepository) Save(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (
			id, donor_id, title, description, food_type, quantity, unit,
			district, city, lat, lng, pickup_instructions, photo,
			status, accepted_request_id, expiry_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`

	_, err := r.pool.Exec(ctx, query,
		d.ID,
		d.DonorID,
		d.Title,
		d.Description,
		d.FoodType,
		d.Quantity,
		d.Unit,
		d.District,
		d.City,
		d.Lat,
		d.Lng,
		d.PickupInstructions,
		d.Photo,
		d.Status,
		d.AcceptedRequestID,
		d.ExpiryAt,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:     "db_create_donation_failed",
			Message:    err.Error(),
			DonationID: d.ID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("insert donation: %w", err)
	}

	return nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	d := &domain.Donation{}
	err := row.Scan(
		&d.ID,
		&d.DonorID,
		&d.Title,
		&d.Description,
		&d.FoodType,
		&d.Quantity,
		&d.Unit,
		&d.District,
		&d.City,
		&d.Lat,
		&d.Lng,
		&d.PickupInstructions,
		&d.Photo,
		&d.Status,
		&d.AcceptedRequestID,
		&d.ExpiryAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FindByID возвращает донацию по ID
func (r *DonationPgRepository) FindByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`

	d, err := scanDonation(r.pool.QueryRow(ctx, query, donationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDonationNotFound
		}
		r.log.Error(logger.Entry{
			Action:     "db_find_donation_by_id_failed",
			Message:    err.Error(),
			DonationID: donationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query donation by id: %w", err)
	}

	return d, nil
}

// FindAvailable возвращает доступные донации с фильтрами
func (r *DonationPgRepository) FindAvailable(ctx context.Context, filter out.DonationFilter) ([]*domain.Donation, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + donationColumns + ` FROM donations WHERE status = 'available' AND expiry_at > NOW()`)

	args := []any{}
	if filter.City != "" {
		args = append(args, filter.City)
		sb.WriteString(" AND city = $" + strconv.Itoa(len(args)))
	}
	if filter.District != "" {
		args = append(args, filter.District)
		sb.WriteString(" AND district = $" + strconv.Itoa(len(args)))
	}
	if filter.FoodType != "" {
		args = append(args, filter.FoodType)
		sb.WriteString(" AND food_type = $" + strconv.Itoa(len(args)))
	}

	args = append(args, filter.Limit)
	sb.WriteString(" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query available donations: %w", err)
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		donations = append(donations, d)
	}

	return donations, rows.Err()
}

// FindByDonor возвращает донации донора, новые первыми
func (r *DonationPgRepository) FindByDonor(ctx context.Context, donorID string, activeOnly bool) ([]*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donor_id = $1`
	if activeOnly {
		query += ` AND status IN ('available', 'accepted')`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, donorID)
	if err != nil {
		return nil, fmt.Errorf("query donations by donor: %w", err)
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		donations = append(donations, d)
	}

	return donations, rows.Err()
}

// ExpireDue переводит просроченные available-донации в expired.
// Принятые и завершенные донации не трогаем.
func (r *DonationPgRepository) ExpireDue(ctx context.Context, now time.Time) ([]*domain.Donation, error) {
	query := `
		UPDATE donations
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'available'
		  AND expiry_at <= $1
		RETURNING ` + donationColumns

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:  "db_expire_donations_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("expire donations: %w", err)
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		donations = append(donations, d)
	}

	return donations, rows.Err()
}
