package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/domain"
)

func TestRequestFoodOnNonAvailableDonation(t *testing.T) {
	store := newMemStore()
	d := seedDonation(store, "d1", "donor1")
	d.Status = domain.DonationStatusAccepted

	svc := NewRequestFoodService(store, requestRepoView{store}, &fakePublisher{}, newFakeNotifier(), testLogger())

	_, err := svc.Execute(context.Background(), in.RequestFoodInput{DonationID: "d1", RecipientID: "alice"})
	if !errors.Is(err, domain.ErrDonationNotAvailable) {
		t.Fatalf("expected ErrDonationNotAvailable, got %v", err)
	}
	if len(store.requests) != 0 {
		t.Fatal("request created against non-available donation")
	}
}

func TestRequestFoodOwnDonation(t *testing.T) {
	store := newMemStore()
	seedDonation(store, "d1", "donor1")

	svc := NewRequestFoodService(store, requestRepoView{store}, &fakePublisher{}, newFakeNotifier(), testLogger())

	_, err := svc.Execute(context.Background(), in.RequestFoodInput{DonationID: "d1", RecipientID: "donor1"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRequestFoodAllowsRepeatedRequests(t *testing.T) {
	store := newMemStore()
	seedDonation(store, "d1", "donor1")

	svc := NewRequestFoodService(store, requestRepoView{store}, &fakePublisher{}, newFakeNotifier(), testLogger())

	for i := 0; i < 2; i++ {
		if _, err := svc.Execute(context.Background(), in.RequestFoodInput{DonationID: "d1", RecipientID: "alice"}); err != nil {
			t.Fatalf("repeated request %d failed: %v", i, err)
		}
	}
	if len(store.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(store.requests))
	}
}

func TestCompleteRequestConflictWhenNotAccepted(t *testing.T) {
	store := newMemStore()
	seedDonation(store, "d1", "donor1")
	seedRequest(store, "r1", "d1", "alice")

	svc := NewCompleteRequestService(store, requestRepoView{store}, &fakePublisher{}, newFakeNotifier(), testLogger())

	_, err := svc.Execute(context.Background(), in.CompleteRequestInput{RequestID: "r1", DonorID: "donor1"})
	if !errors.Is(err, domain.ErrRequestNotAccepted) {
		t.Fatalf("expected ErrRequestNotAccepted, got %v", err)
	}
	if store.requests["r1"].Status != domain.RequestStatusPending {
		t.Fatal("pending request mutated by failed complete")
	}
	if store.donations["d1"].Status != domain.DonationStatusAvailable {
		t.Fatal("donation mutated by failed complete")
	}
}

func TestCancelKeepsDonationStatus(t *testing.T) {
	store := newMemStore()
	d := seedDonation(store, "d1", "donor1")
	r := seedRequest(store, "r1", "d1", "alice")

	now := time.Now().UTC()
	d.Status = domain.DonationStatusAccepted
	d.AcceptedRequestID = &r.ID
	r.Status = domain.RequestStatusAccepted
	r.AcceptedAt = &now

	notifier := newFakeNotifier()
	svc := NewCancelRequestService(store, requestRepoView{store}, &fakePublisher{}, notifier, testLogger())

	output, err := svc.Execute(context.Background(), in.CancelRequestInput{RequestID: "r1", RecipientID: "alice"})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if output.Request.Status != domain.RequestStatusCancelled || output.Request.CancelledAt == nil {
		t.Fatal("request not cancelled")
	}

	// Отмена принятой заявки не трогает донацию
	if d.Status != domain.DonationStatusAccepted || d.AcceptedRequestID == nil {
		t.Fatalf("donation mutated by cancel: status=%s", d.Status)
	}
	if notifier.countFor("donor1") != 1 {
		t.Error("donor not notified about cancelled accepted request")
	}
}

func TestCancelForbiddenForNonOwner(t *testing.T) {
	store := newMemStore()
	seedDonation(store, "d1", "donor1")
	seedRequest(store, "r1", "d1", "alice")

	svc := NewCancelRequestService(store, requestRepoView{store}, &fakePublisher{}, newFakeNotifier(), testLogger())

	_, err := svc.Execute(context.Background(), in.CancelRequestInput{RequestID: "r1", RecipientID: "bob"})
	if !errors.Is(err, domain.ErrNotRequestOwner) {
		t.Fatalf("expected ErrNotRequestOwner, got %v", err)
	}
}

func TestRejectAcceptedRequestReopensDonation(t *testing.T) {
	store := newMemStore()
	d := seedDonation(store, "d1", "donor1")
	r := seedRequest(store, "r1", "d1", "alice")

	now := time.Now().UTC()
	d.Status = domain.DonationStatusAccepted
	d.AcceptedRequestID = &r.ID
	r.Status = domain.RequestStatusAccepted
	r.AcceptedAt = &now

	svc := NewRejectRequestService(store, requestRepoView{store}, &fakePublisher{}, newFakeNotifier(), testLogger())

	output, err := svc.Execute(context.Background(), in.RejectRequestInput{RequestID: "r1", DonorID: "donor1"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if !output.DonationReopened {
		t.Fatal("donation not reported as reopened")
	}
	if d.Status != domain.DonationStatusAvailable || d.AcceptedRequestID != nil {
		t.Fatalf("donation not reopened: status=%s", d.Status)
	}
	if store.requests["r1"].Status != domain.RequestStatusRejected {
		t.Fatal("request not rejected")
	}
}

func TestExpireDonations(t *testing.T) {
	store := newMemStore()
	stale := seedDonation(store, "d1", "donor1")
	stale.ExpiryAt = time.Now().Add(-time.Hour)

	fresh := seedDonation(store, "d2", "donor2")
	fresh.ExpiryAt = time.Now().Add(time.Hour)

	accepted := seedDonation(store, "d3", "donor3")
	accepted.ExpiryAt = time.Now().Add(-time.Hour)
	accepted.Status = domain.DonationStatusAccepted

	notifier := newFakeNotifier()
	publisher := &fakePublisher{}
	svc := NewExpireDonationsService(store, publisher, notifier, testLogger())

	output, err := svc.Execute(context.Background(), in.ExpireDonationsInput{Now: time.Now().UTC()})
	if err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if output.Expired != 1 {
		t.Fatalf("expected 1 expired donation, got %d", output.Expired)
	}
	if stale.Status != domain.DonationStatusExpired {
		t.Fatal("stale donation not expired")
	}
	if fresh.Status != domain.DonationStatusAvailable {
		t.Fatal("fresh donation expired")
	}
	if accepted.Status != domain.DonationStatusAccepted {
		t.Fatal("accepted donation touched by sweep")
	}
	if notifier.countFor("donor1") != 1 {
		t.Error("donor not notified about expiry")
	}
	if publisher.count(domain.EventDonationExpired) != 1 {
		t.Error("DONATION_EXPIRED event not published")
	}
}

// Полный жизненный цикл: create → две заявки → accept → complete →
// повторный complete по отклоненной заявке дает конфликт.
func TestDonationLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	reqRepo := requestRepoView{store}
	publisher := &fakePublisher{}
	notifier := newFakeNotifier()
	log := testLogger()

	createSvc := NewCreateDonationService(store, publisher, log)
	requestSvc := NewRequestFoodService(store, reqRepo, publisher, notifier, log)
	acceptSvc := NewAcceptRequestService(store, reqRepo, publisher, notifier, log)
	completeSvc := NewCompleteRequestService(store, reqRepo, publisher, notifier, log)

	created, err := createSvc.Execute(ctx, in.CreateDonationInput{
		DonorID:            "donor1",
		Title:              "Soup",
		Description:        "Vegetable soup, 5 liters",
		FoodType:           domain.FoodTypeCooked,
		Quantity:           5,
		Unit:               "liters",
		ExpiryAt:           time.Now().Add(4 * time.Hour),
		District:           "Chilonzor",
		City:               "Tashkent",
		PickupInstructions: "Call on arrival",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	donationID := created.Donation.ID

	reqA, err := requestSvc.Execute(ctx, in.RequestFoodInput{DonationID: donationID, RecipientID: "alice"})
	if err != nil {
		t.Fatalf("request A failed: %v", err)
	}
	reqB, err := requestSvc.Execute(ctx, in.RequestFoodInput{DonationID: donationID, RecipientID: "bob"})
	if err != nil {
		t.Fatalf("request B failed: %v", err)
	}

	if _, err := acceptSvc.Execute(ctx, in.AcceptRequestInput{RequestID: reqA.Request.ID, DonorID: "donor1"}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if store.requests[reqA.Request.ID].Status != domain.RequestStatusAccepted {
		t.Fatal("request A not accepted")
	}
	if store.requests[reqB.Request.ID].Status != domain.RequestStatusRejected {
		t.Fatal("request B not auto-rejected")
	}
	if store.donations[donationID].Status != domain.DonationStatusAccepted {
		t.Fatal("donation not accepted")
	}

	if _, err := completeSvc.Execute(ctx, in.CompleteRequestInput{RequestID: reqA.Request.ID, DonorID: "donor1"}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if store.requests[reqA.Request.ID].Status != domain.RequestStatusCompleted {
		t.Fatal("request A not completed")
	}
	if store.donations[donationID].Status != domain.DonationStatusCompleted {
		t.Fatal("donation not completed")
	}

	// Завершение отклоненной заявки — конфликт
	if _, err := completeSvc.Execute(ctx, in.CompleteRequestInput{RequestID: reqB.Request.ID, DonorID: "donor1"}); !errors.Is(err, domain.ErrRequestNotAccepted) {
		t.Fatalf("expected ErrRequestNotAccepted, got %v", err)
	}
}

func TestCreateDonationRejectsPastExpiry(t *testing.T) {
	store := newMemStore()
	svc := NewCreateDonationService(store, &fakePublisher{}, testLogger())

	_, err := svc.Execute(context.Background(), in.CreateDonationInput{
		DonorID:            "donor1",
		Title:              "Old bread",
		Description:        "Stale",
		FoodType:           domain.FoodTypeOther,
		Quantity:           1,
		Unit:               "items",
		ExpiryAt:           time.Now().Add(-time.Minute),
		District:           "Center",
		City:               "Tashkent",
		PickupInstructions: "Anytime",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for past expiry, got %v", err)
	}
	if len(store.donations) != 0 {
		t.Fatal("donation persisted despite validation failure")
	}
}
