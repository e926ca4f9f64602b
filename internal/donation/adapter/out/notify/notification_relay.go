package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
	"foodshare/internal/shared/ws"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgWsNotificationRelay сохраняет уведомление в PostgreSQL и, если
// пользователь подключен по WebSocket, сразу пушит его. Запись в базу
// обязательна, доставка по сокету — best-effort.
type PgWsNotificationRelay struct {
	pool *pgxpool.Pool
	hub  *ws.Hub
	log  *logger.Logger
}

// NewPgWsNotificationRelay создает новый relay
func NewPgWsNotificationRelay(pool *pgxpool.Pool, hub *ws.Hub, log *logger.Logger) *PgWsNotificationRelay {
	return &PgWsNotificationRelay{
		pool: pool,
		hub:  hub,
		log:  log,
	}
}

// Notify сохраняет и доставляет уведомление пользователю
func (n *PgWsNotificationRelay) Notify(ctx context.Context, userID, donationID, message string) error {
	notification := &domain.Notification{
		ID:         uuid.New().String(),
		UserID:     userID,
		DonationID: donationID,
		Message:    message,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}

	query := `
		INSERT INTO notifications (id, user_id, donation_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var donationRef *string
	if donationID != "" {
		donationRef = &donationID
	}

	_, err := n.pool.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		donationRef,
		notification.Message,
		notification.Read,
		notification.CreatedAt,
	)
	if err != nil {
		n.log.Error(logger.Entry{
			Action:     "db_create_notification_failed",
			Message:    err.Error(),
			DonationID: donationID,
			Error:      &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("insert notification: %w", err)
	}

	// Пользователь может быть оффлайн — это не ошибка, уведомление
	// дойдет через GET /notifications/my
	if n.hub.IsUserConnected(userID) {
		if err := n.hub.SendTypedMessage(userID, "notification", notification); err != nil {
			n.log.Warn(logger.Entry{
				Action:     "ws_notification_push_failed",
				Message:    err.Error(),
				DonationID: donationID,
				Additional: map[string]any{
					"user_id": userID,
				},
			})
		}
	}

	return nil
}

// NotificationPgStore — PostgreSQL хранилище для чтения уведомлений
type NotificationPgStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewNotificationPgStore создает новое хранилище
func NewNotificationPgStore(pool *pgxpool.Pool, log *logger.Logger) *NotificationPgStore {
	return &NotificationPgStore{
		pool: pool,
		log:  log,
	}
}

// FindByUser возвращает уведомления пользователя, новые первыми
func (s *NotificationPgStore) FindByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, donation_id, message, read, created_at, read_at
		FROM notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		nt := &domain.Notification{}
		var donationID *string
		if err := rows.Scan(&nt.ID, &nt.UserID, &donationID, &nt.Message, &nt.Read, &nt.CreatedAt, &nt.ReadAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if donationID != nil {
			nt.DonationID = *donationID
		}
		notifications = append(notifications, nt)
	}

	return notifications, rows.Err()
}

// MarkRead помечает уведомление прочитанным. Чужие уведомления не видны.
func (s *NotificationPgStore) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		  AND user_id = $2
		RETURNING id, user_id, donation_id, message, read, created_at, read_at
	`

	nt := &domain.Notification{}
	var donationID *string
	err := s.pool.QueryRow(ctx, query, notificationID, userID).Scan(
		&nt.ID, &nt.UserID, &donationID, &nt.Message, &nt.Read, &nt.CreatedAt, &nt.ReadAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	if donationID != nil {
		nt.DonationID = *donationID
	}

	return nt, nil
}
