package hub

import (
	"context"
	"sync"
	"time"

	"foodshare/internal/livelocation/application/ports/out"
	"foodshare/internal/livelocation/domain"
	"foodshare/internal/shared/logger"
)

// SendFunc доставляет сообщение в конкретное соединение
type SendFunc func(v any) error

// LocationUpdate — событие локации, рассылаемое donor-соединениям
type LocationUpdate struct {
	Type        string  `json:"type"`
	DonationID  string  `json:"donationId"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	RecipientID string  `json:"recipientId"`
}

type registration struct {
	domain.ConnectionRegistration
	send SendFunc
}

// LiveLocationHub держит process-scoped состояние live-локаций:
// по одному слоту на донацию плюс реестр соединений. Состояние не
// переживает рестарт процесса и не шарится между инстансами; для
// multi-instance деплоя поток зеркалируется в fanout exchange через
// LocationEventPublisher.
type LiveLocationHub struct {
	mu            sync.RWMutex
	entries       map[string]*domain.LiveLocationEntry // donationID -> последняя позиция
	registrations map[string]*registration             // connID -> регистрация

	lookup    out.DonationLookup
	publisher out.LocationEventPublisher
	ttl       time.Duration
	log       *logger.Logger
}

// NewLiveLocationHub создает новый hub. publisher может быть nil —
// тогда зеркалирование в брокер выключено.
func NewLiveLocationHub(lookup out.DonationLookup, publisher out.LocationEventPublisher, ttl time.Duration, log *logger.Logger) *LiveLocationHub {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LiveLocationHub{
		entries:       make(map[string]*domain.LiveLocationEntry),
		registrations: make(map[string]*registration),
		lookup:        lookup,
		publisher:     publisher,
		ttl:           ttl,
		log:           log,
	}
}

// Register привязывает соединение к донации. Повторная регистрация
// того же connID игнорируется. Для роли recipient проверяется, что
// userID — принятый получатель донации.
func (h *LiveLocationHub) Register(ctx context.Context, connID, userID, role, donationID string, send SendFunc) error {
	if err := domain.ValidateRole(role); err != nil {
		return err
	}

	h.mu.RLock()
	_, exists := h.registrations[connID]
	h.mu.RUnlock()
	if exists {
		// Соединение уже привязано
		return nil
	}

	ok, err := h.lookup.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}

	donation, err := h.lookup.FindDonation(ctx, donationID)
	if err != nil {
		return err
	}

	if role == domain.RoleRecipient {
		if donation.AcceptedRecipientID == nil || *donation.AcceptedRecipientID != userID {
			return domain.ErrNotAcceptedRecipient
		}
	}

	h.mu.Lock()
	if _, exists := h.registrations[connID]; !exists {
		h.registrations[connID] = &registration{
			ConnectionRegistration: domain.ConnectionRegistration{
				ConnID:       connID,
				UserID:       userID,
				Role:         role,
				DonationID:   donationID,
				RegisteredAt: time.Now().UTC(),
			},
			send: send,
		}
	}
	h.mu.Unlock()

	h.log.Info(logger.Entry{
		Action:     "location_connection_registered",
		Message:    connID,
		DonationID: donationID,
		Additional: map[string]any{
			"user_id": userID,
			"role":    role,
		},
	})

	return nil
}

// Publish перезаписывает позицию по донации (last-write-wins) и рассылает
// её всем donor-соединениям этой донации. Авторизация — по регистрации
// соединения: publish принимается только с recipient-соединения,
// привязанного к этой донации.
func (h *LiveLocationHub) Publish(ctx context.Context, connID string, donationID string, lat, lng float64) error {
	if err := domain.ValidateCoordinates(lat, lng); err != nil {
		return err
	}

	h.mu.RLock()
	reg, exists := h.registrations[connID]
	h.mu.RUnlock()
	if !exists {
		return domain.ErrNotRegistered
	}
	if reg.Role != domain.RoleRecipient {
		return domain.ErrNotRecipientConnection
	}
	if reg.DonationID != donationID {
		return domain.ErrNotAcceptedRecipient
	}

	entry := &domain.LiveLocationEntry{
		DonationID:  donationID,
		RecipientID: reg.UserID,
		Lat:         lat,
		Lng:         lng,
		UpdatedAt:   time.Now().UTC(),
	}

	update := LocationUpdate{
		Type:        "LIVE_LOCATION",
		DonationID:  donationID,
		Lat:         lat,
		Lng:         lng,
		RecipientID: reg.UserID,
	}

	h.mu.Lock()
	h.entries[donationID] = entry
	var targets []*registration
	for _, r := range h.registrations {
		if r.Role == domain.RoleDonor && r.DonationID == donationID {
			targets = append(targets, r)
		}
	}
	h.mu.Unlock()

	for _, t := range targets {
		if err := t.send(update); err != nil {
			h.log.Warn(logger.Entry{
				Action:     "location_broadcast_failed",
				Message:    err.Error(),
				DonationID: donationID,
				Additional: map[string]any{
					"conn_id": t.ConnID,
				},
			})
		}
	}

	// Зеркало в брокер — best-effort
	if h.publisher != nil {
		event := out.LocationEvent{
			DonationID:  donationID,
			RecipientID: reg.UserID,
			Lat:         lat,
			Lng:         lng,
			UpdatedAt:   entry.UpdatedAt.Format(time.RFC3339),
		}
		if err := h.publisher.PublishLocation(ctx, event); err != nil {
			h.log.Warn(logger.Entry{
				Action:     "location_mirror_failed",
				Message:    err.Error(),
				DonationID: donationID,
			})
		}
	}

	return nil
}

// Unregister снимает привязку соединения. Записи локаций не трогаем:
// их уберет sweep по TTL.
func (h *LiveLocationHub) Unregister(connID string) {
	h.mu.Lock()
	_, existed := h.registrations[connID]
	delete(h.registrations, connID)
	h.mu.Unlock()

	if existed {
		h.log.Info(logger.Entry{
			Action:  "location_connection_unregistered",
			Message: connID,
		})
	}
}

// IsRegistered проверяет, привязано ли соединение
func (h *LiveLocationHub) IsRegistered(connID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.registrations[connID]
	return ok
}

// Entry возвращает текущую позицию по донации, если она есть
func (h *LiveLocationHub) Entry(donationID string) (*domain.LiveLocationEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[donationID]
	if !ok {
		return nil, false
	}
	copied := *e
	return &copied, true
}

// Sweep удаляет записи, не обновлявшиеся дольше TTL. Свежая запись,
// пришедшая во время прохода, не удаляется: staleness оценивается по
// lastUpdatedAt конкретной записи.
func (h *LiveLocationHub) Sweep(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for donationID, entry := range h.entries {
		if entry.IsStale(now, h.ttl) {
			delete(h.entries, donationID)
			removed++
		}
	}

	if removed > 0 {
		h.log.Debug(logger.Entry{
			Action:  "location_entries_swept",
			Message: "stale live location entries removed",
			Additional: map[string]any{
				"removed": removed,
			},
		})
	}

	return removed
}

// RunSweeper запускает периодический sweep до отмены ctx
func (h *LiveLocationHub) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.log.Info(logger.Entry{
		Action:  "location_sweeper_started",
		Message: interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			h.log.Info(logger.Entry{Action: "location_sweeper_stopped", Message: "location sweeper stopped"})
			return
		case now := <-ticker.C:
			h.Sweep(now.UTC())
		}
	}
}
