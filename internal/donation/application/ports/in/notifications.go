package in

import (
	"context"

	"foodshare/internal/donation/domain"
)

// GetNotificationsInput — запрос уведомлений пользователя
type GetNotificationsInput struct {
	UserID     string
	UnreadOnly bool
	Limit      int
}

// GetNotificationsOutput — уведомления, новые первыми
type GetNotificationsOutput struct {
	Notifications []*domain.Notification
}

// GetNotificationsUseCase — интерфейс use-case списка уведомлений
type GetNotificationsUseCase interface {
	Execute(ctx context.Context, input GetNotificationsInput) (*GetNotificationsOutput, error)
}

// MarkNotificationReadInput — пометка уведомления прочитанным
type MarkNotificationReadInput struct {
	NotificationID string
	UserID         string
}

// MarkNotificationReadOutput — обновлённое уведомление
type MarkNotificationReadOutput struct {
	Notification *domain.Notification
}

// MarkNotificationReadUseCase — интерфейс use-case пометки уведомления
type MarkNotificationReadUseCase interface {
	Execute(ctx context.Context, input MarkNotificationReadInput) (*MarkNotificationReadOutput, error)
}
