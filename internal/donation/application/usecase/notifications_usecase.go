package usecase

import (
	"context"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/shared/logger"
)

// GetNotificationsService реализует GetNotificationsUseCase
type GetNotificationsService struct {
	store out.NotificationStore
	log   *logger.Logger
}

// NewGetNotificationsService создает новый сервис списка уведомлений
func NewGetNotificationsService(store out.NotificationStore, log *logger.Logger) *GetNotificationsService {
	return &GetNotificationsService{store: store, log: log}
}

// Execute возвращает уведомления пользователя, новые первыми
func (s *GetNotificationsService) Execute(ctx context.Context, input in.GetNotificationsInput) (*in.GetNotificationsOutput, error) {
	limit := input.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}

	notifications, err := s.store.FindByUser(ctx, input.UserID, input.UnreadOnly, limit)
	if err != nil {
		return nil, err
	}

	return &in.GetNotificationsOutput{Notifications: notifications}, nil
}

// MarkNotificationReadService реализует MarkNotificationReadUseCase
type MarkNotificationReadService struct {
	store out.NotificationStore
	log   *logger.Logger
}

// NewMarkNotificationReadService создает новый сервис пометки уведомлений
func NewMarkNotificationReadService(store out.NotificationStore, log *logger.Logger) *MarkNotificationReadService {
	return &MarkNotificationReadService{store: store, log: log}
}

// Execute помечает уведомление прочитанным. Чужое уведомление пометить нельзя.
func (s *MarkNotificationReadService) Execute(ctx context.Context, input in.MarkNotificationReadInput) (*in.MarkNotificationReadOutput, error) {
	notification, err := s.store.MarkRead(ctx, input.NotificationID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &in.MarkNotificationReadOutput{Notification: notification}, nil
}
