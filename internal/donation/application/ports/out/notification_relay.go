package out

import "context"

// NotificationRelay — порт доставки уведомлений пользователям.
// Сохраняет уведомление и пытается отдать его по websocket, если
// пользователь подключён. Ошибки доставки не должны ронять use-case.
type NotificationRelay interface {
	Notify(ctx context.Context, userID, donationID, message string) error
}
