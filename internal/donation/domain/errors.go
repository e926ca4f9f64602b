package domain

import "errors"

var (
	// ErrValidation возвращается при некорректных входных данных
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCoordinates возвращается при невалидных координатах
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrUnauthorized возвращается при отсутствии identity
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden возвращается когда identity есть, но прав не хватает
	ErrForbidden = errors.New("forbidden")

	// ErrDonationNotFound возвращается когда донация не найдена
	ErrDonationNotFound = errors.New("donation not found")

	// ErrRequestNotFound возвращается когда заявка не найдена
	ErrRequestNotFound = errors.New("request not found")

	// ErrNotificationNotFound возвращается когда уведомление не найдено или чужое
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrNotDonationOwner возвращается когда действие выполняет не владелец донации
	ErrNotDonationOwner = errors.New("not the donation owner")

	// ErrNotRequestOwner возвращается когда действие выполняет не автор заявки
	ErrNotRequestOwner = errors.New("not the request owner")

	// ErrDonationNotAvailable возвращается когда донация уже занята или закрыта.
	// Проигравшая сторона гонки accept получает именно эту ошибку.
	ErrDonationNotAvailable = errors.New("donation is not available")

	// ErrRequestNotPending возвращается при переходе из неподходящего статуса заявки
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrRequestNotAccepted возвращается при complete заявки не в статусе accepted
	ErrRequestNotAccepted = errors.New("request is not accepted")

	// ErrRequestNotCancellable возвращается при cancel заявки в конечном статусе
	ErrRequestNotCancellable = errors.New("request cannot be cancelled")
)
