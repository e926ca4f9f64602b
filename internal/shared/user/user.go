package user

import "time"

// ==== Roles ====
const (
	RoleDonor     = "DONOR"
	RoleRecipient = "RECIPIENT"
	RoleAdmin     = "ADMIN"
)

// ==== User Status ====
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusBanned   = "BANNED"
)

// User — упрощённая модель пользователя для проверки в donation/location сервисах.
// Регистрация и управление аккаунтами живут вне этого бэкенда.
type User struct {
	ID        string
	FullName  string
	Email     string
	Role      string // DONOR | RECIPIENT | ADMIN
	Status    string // ACTIVE | INACTIVE | BANNED
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive проверяет, активен ли пользователь
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasRole проверяет наличие роли
func (u *User) HasRole(role string) bool {
	return u.Role == role
}
