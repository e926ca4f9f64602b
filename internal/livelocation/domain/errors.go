package domain

import "errors"

var (
	// ErrValidation возвращается при некорректном сообщении
	ErrValidation = errors.New("validation failed")

	// ErrDonationNotFound возвращается когда донация не найдена
	ErrDonationNotFound = errors.New("donation not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAcceptedRecipient возвращается когда получатель не является
	// принятым получателем донации
	ErrNotAcceptedRecipient = errors.New("not the accepted recipient of this donation")

	// ErrNotRegistered возвращается при publish с незарегистрированного соединения
	ErrNotRegistered = errors.New("connection is not registered")

	// ErrNotRecipientConnection возвращается при publish с donor-соединения
	ErrNotRecipientConnection = errors.New("only recipient connections can publish locations")
)
