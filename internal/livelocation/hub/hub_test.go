package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"foodshare/internal/livelocation/application/ports/out"
	"foodshare/internal/livelocation/domain"
	"foodshare/internal/shared/logger"
)

type fakeLookup struct {
	donations map[string]*out.DonationRef
	users     map[string]bool
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		donations: make(map[string]*out.DonationRef),
		users:     make(map[string]bool),
	}
}

func (f *fakeLookup) FindDonation(ctx context.Context, donationID string) (*out.DonationRef, error) {
	d, ok := f.donations[donationID]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *fakeLookup) UserExists(ctx context.Context, userID string) (bool, error) {
	return f.users[userID], nil
}

type recorder struct {
	mu       sync.Mutex
	received []LocationUpdate
}

func (r *recorder) send(v any) error {
	update, ok := v.(LocationUpdate)
	if !ok {
		return errors.New("unexpected message type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, update)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

func (r *recorder) last() LocationUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.received[len(r.received)-1]
}

func testHub(lookup *fakeLookup, ttl time.Duration) *LiveLocationHub {
	return NewLiveLocationHub(lookup, nil, ttl, logger.NewLogger("test"))
}

// lookup с донацией d1 донора donor1 и принятым получателем rec1
func seededLookup() *fakeLookup {
	lookup := newFakeLookup()
	rec := "rec1"
	lookup.donations["d1"] = &out.DonationRef{
		ID:                  "d1",
		DonorID:             "donor1",
		Status:              "accepted",
		AcceptedRecipientID: &rec,
	}
	lookup.users["donor1"] = true
	lookup.users["rec1"] = true
	lookup.users["stranger"] = true
	return lookup
}

func noopSend(v any) error { return nil }

func TestRegisterUnknownDonation(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)

	err := h.Register(context.Background(), "c1", "rec1", domain.RoleRecipient, "missing", noopSend)
	if !errors.Is(err, domain.ErrDonationNotFound) {
		t.Fatalf("expected ErrDonationNotFound, got %v", err)
	}
}

func TestRegisterUnknownUser(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)

	err := h.Register(context.Background(), "c1", "ghost", domain.RoleRecipient, "d1", noopSend)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRegisterRecipientMustBeAccepted(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)

	err := h.Register(context.Background(), "c1", "stranger", domain.RoleRecipient, "d1", noopSend)
	if !errors.Is(err, domain.ErrNotAcceptedRecipient) {
		t.Fatalf("expected ErrNotAcceptedRecipient, got %v", err)
	}
}

func TestRegisterIdempotentPerConnection(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)
	ctx := context.Background()

	if err := h.Register(ctx, "c1", "rec1", domain.RoleRecipient, "d1", noopSend); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// Повторная регистрация того же соединения игнорируется
	if err := h.Register(ctx, "c1", "stranger", domain.RoleRecipient, "d1", noopSend); err != nil {
		t.Fatalf("repeated register returned error: %v", err)
	}
	if !h.IsRegistered("c1") {
		t.Fatal("connection lost its registration")
	}
}

func TestPublishLastWriteWins(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)
	ctx := context.Background()

	if err := h.Register(ctx, "c1", "rec1", domain.RoleRecipient, "d1", noopSend); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := h.Publish(ctx, "c1", "d1", 41.0, 69.0); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if err := h.Publish(ctx, "c1", "d1", 42.0, 70.0); err != nil {
		t.Fatalf("second publish failed: %v", err)
	}

	entry, ok := h.Entry("d1")
	if !ok {
		t.Fatal("no entry after publishes")
	}
	if entry.Lat != 42.0 || entry.Lng != 70.0 {
		t.Fatalf("expected last write to win, got (%f, %f)", entry.Lat, entry.Lng)
	}
}

func TestPublishBroadcastsToMatchingDonorsOnly(t *testing.T) {
	lookup := seededLookup()
	rec2 := "rec2"
	lookup.donations["d2"] = &out.DonationRef{
		ID:                  "d2",
		DonorID:             "donor2",
		Status:              "accepted",
		AcceptedRecipientID: &rec2,
	}
	lookup.users["donor2"] = true
	lookup.users["rec2"] = true

	h := testHub(lookup, time.Minute)
	ctx := context.Background()

	matching := &recorder{}
	other := &recorder{}
	asRecipient := &recorder{}

	if err := h.Register(ctx, "donor-conn", "donor1", domain.RoleDonor, "d1", matching.send); err != nil {
		t.Fatalf("donor register failed: %v", err)
	}
	if err := h.Register(ctx, "other-donor-conn", "donor2", domain.RoleDonor, "d2", other.send); err != nil {
		t.Fatalf("other donor register failed: %v", err)
	}
	if err := h.Register(ctx, "rec-conn", "rec1", domain.RoleRecipient, "d1", asRecipient.send); err != nil {
		t.Fatalf("recipient register failed: %v", err)
	}

	if err := h.Publish(ctx, "rec-conn", "d1", 41.5, 69.5); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if matching.count() != 1 {
		t.Fatalf("matching donor got %d updates, want 1", matching.count())
	}
	update := matching.last()
	if update.Type != "LIVE_LOCATION" || update.DonationID != "d1" || update.RecipientID != "rec1" {
		t.Fatalf("unexpected update: %+v", update)
	}
	if other.count() != 0 {
		t.Fatal("donor of another donation received the update")
	}
	if asRecipient.count() != 0 {
		t.Fatal("recipient connection received a donor broadcast")
	}
}

func TestLateDonorGetsNothingRetroactively(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)
	ctx := context.Background()

	if err := h.Register(ctx, "rec-conn", "rec1", domain.RoleRecipient, "d1", noopSend); err != nil {
		t.Fatalf("recipient register failed: %v", err)
	}
	if err := h.Publish(ctx, "rec-conn", "d1", 41.0, 69.0); err != nil {
		t.Fatalf("publish 1 failed: %v", err)
	}
	if err := h.Publish(ctx, "rec-conn", "d1", 41.1, 69.1); err != nil {
		t.Fatalf("publish 2 failed: %v", err)
	}

	donor := &recorder{}
	if err := h.Register(ctx, "donor-conn", "donor1", domain.RoleDonor, "d1", donor.send); err != nil {
		t.Fatalf("donor register failed: %v", err)
	}
	if donor.count() != 0 {
		t.Fatal("late donor received past publishes")
	}

	if err := h.Publish(ctx, "rec-conn", "d1", 41.2, 69.2); err != nil {
		t.Fatalf("publish 3 failed: %v", err)
	}
	if donor.count() != 1 {
		t.Fatalf("late donor got %d updates after next publish, want 1", donor.count())
	}
}

func TestPublishRequiresRegistration(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)

	err := h.Publish(context.Background(), "nope", "d1", 41.0, 69.0)
	if !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestPublishRejectsDonorConnections(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)
	ctx := context.Background()

	if err := h.Register(ctx, "donor-conn", "donor1", domain.RoleDonor, "d1", noopSend); err != nil {
		t.Fatalf("donor register failed: %v", err)
	}

	err := h.Publish(ctx, "donor-conn", "d1", 41.0, 69.0)
	if !errors.Is(err, domain.ErrNotRecipientConnection) {
		t.Fatalf("expected ErrNotRecipientConnection, got %v", err)
	}
}

func TestPublishRejectsBadCoordinates(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)
	ctx := context.Background()

	if err := h.Register(ctx, "rec-conn", "rec1", domain.RoleRecipient, "d1", noopSend); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := h.Publish(ctx, "rec-conn", "d1", 95.0, 69.0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, ok := h.Entry("d1"); ok {
		t.Fatal("invalid publish stored an entry")
	}
}

func TestSweepRemovesOnlyStaleEntries(t *testing.T) {
	h := testHub(seededLookup(), 10*time.Minute)
	ctx := context.Background()

	if err := h.Register(ctx, "rec-conn", "rec1", domain.RoleRecipient, "d1", noopSend); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := h.Publish(ctx, "rec-conn", "d1", 41.0, 69.0); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// Свежая запись переживает sweep
	if removed := h.Sweep(time.Now().UTC()); removed != 0 {
		t.Fatalf("fresh entry swept: removed=%d", removed)
	}
	if _, ok := h.Entry("d1"); !ok {
		t.Fatal("fresh entry missing after sweep")
	}

	// Спустя TTL+ запись удаляется
	if removed := h.Sweep(time.Now().UTC().Add(11 * time.Minute)); removed != 1 {
		t.Fatalf("stale entry not swept: removed=%d", removed)
	}
	if _, ok := h.Entry("d1"); ok {
		t.Fatal("stale entry still present after sweep")
	}
}

func TestUnregisterKeepsEntries(t *testing.T) {
	h := testHub(seededLookup(), time.Minute)
	ctx := context.Background()

	if err := h.Register(ctx, "rec-conn", "rec1", domain.RoleRecipient, "d1", noopSend); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := h.Publish(ctx, "rec-conn", "d1", 41.0, 69.0); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	h.Unregister("rec-conn")

	if h.IsRegistered("rec-conn") {
		t.Fatal("connection still registered after unregister")
	}
	// Запись остается до TTL sweep
	if _, ok := h.Entry("d1"); !ok {
		t.Fatal("entry removed by unregister")
	}
}
