package user

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrUserInactive пользователь неактивен
	ErrUserInactive = errors.New("user is inactive")
)

// Repository — интерфейс для проверки пользователей (donation/location сервисы)
type Repository interface {
	// FindByID находит пользователя по ID
	// Возвращает ErrUserNotFound если не найден
	FindByID(ctx context.Context, userID string) (*User, error)

	// Exists проверяет существование пользователя
	Exists(ctx context.Context, userID string) (bool, error)
}
