package out

import (
	"context"

	"foodshare/internal/donation/domain"
)

// NotificationStore — порт чтения и пометки уведомлений
type NotificationStore interface {
	FindByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
}
