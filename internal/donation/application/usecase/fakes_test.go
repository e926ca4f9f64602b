package usecase

import (
	"context"
	"sync"
	"time"

	"foodshare/internal/donation/application/ports/out"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

// memStore — in-memory реализация DonationRepository и RequestRepository
// с одной блокировкой, повторяющая транзакционную семантику accept.
type memStore struct {
	mu        sync.Mutex
	donations map[string]*domain.Donation
	requests  map[string]*domain.FoodRequest
}

func newMemStore() *memStore {
	return &memStore{
		donations: make(map[string]*domain.Donation),
		requests:  make(map[string]*domain.FoodRequest),
	}
}

func (s *memStore) Save(ctx context.Context, d *domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations[d.ID] = d
	return nil
}

func (s *memStore) FindByID(ctx context.Context, id string) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *memStore) FindAvailable(ctx context.Context, filter out.DonationFilter) ([]*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Donation
	for _, d := range s.donations {
		if d.Status != domain.DonationStatusAvailable {
			continue
		}
		if filter.City != "" && d.City != filter.City {
			continue
		}
		if filter.District != "" && d.District != filter.District {
			continue
		}
		if filter.FoodType != "" && d.FoodType != filter.FoodType {
			continue
		}
		copied := *d
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memStore) FindByDonor(ctx context.Context, donorID string, activeOnly bool) ([]*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Donation
	for _, d := range s.donations {
		if d.DonorID != donorID {
			continue
		}
		if activeOnly && d.Status != domain.DonationStatusAvailable && d.Status != domain.DonationStatusAccepted {
			continue
		}
		copied := *d
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memStore) ExpireDue(ctx context.Context, now time.Time) ([]*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []*domain.Donation
	for _, d := range s.donations {
		if d.Status == domain.DonationStatusAvailable && !d.ExpiryAt.After(now) {
			d.Status = domain.DonationStatusExpired
			copied := *d
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

// ---- RequestRepository ----

func (s *memStore) SaveRequest(ctx context.Context, r *domain.FoodRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.ID] = r
	return nil
}

func (s *memStore) FindRequestByID(ctx context.Context, id string) (*domain.FoodRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *memStore) FindByDonation(ctx context.Context, donationID string) ([]*domain.FoodRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.FoodRequest
	for _, r := range s.requests {
		if r.DonationID == donationID {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) FindByRecipient(ctx context.Context, recipientID string) ([]*domain.FoodRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.FoodRequest
	for _, r := range s.requests {
		if r.RecipientID == recipientID {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) Accept(ctx context.Context, requestID, donationID string) (*out.AcceptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.donations[donationID]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	if d.Status != domain.DonationStatusAvailable {
		return nil, domain.ErrDonationNotAvailable
	}
	r, ok := s.requests[requestID]
	if !ok || r.Status != domain.RequestStatusPending {
		return nil, domain.ErrRequestNotPending
	}

	now := time.Now().UTC()
	d.Status = domain.DonationStatusAccepted
	d.AcceptedRequestID = &r.ID
	r.Status = domain.RequestStatusAccepted
	r.AcceptedAt = &now

	var siblings []out.RejectedSibling
	for _, sib := range s.requests {
		if sib.DonationID == donationID && sib.ID != requestID && sib.Status == domain.RequestStatusPending {
			sib.Status = domain.RequestStatusRejected
			ts := now
			sib.RejectedAt = &ts
			siblings = append(siblings, out.RejectedSibling{RequestID: sib.ID, RecipientID: sib.RecipientID})
		}
	}

	copied := *r
	return &out.AcceptResult{Request: &copied, RejectedSiblings: siblings}, nil
}

func (s *memStore) Reject(ctx context.Context, requestID, donationID string, wasAccepted bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[requestID]
	if !ok || (r.Status != domain.RequestStatusPending && r.Status != domain.RequestStatusAccepted) {
		return false, domain.ErrRequestNotPending
	}

	now := time.Now().UTC()
	r.Status = domain.RequestStatusRejected
	r.RejectedAt = &now

	reopened := false
	if wasAccepted {
		d, ok := s.donations[donationID]
		if ok && d.Status == domain.DonationStatusAccepted && d.AcceptedRequestID != nil && *d.AcceptedRequestID == requestID {
			d.Status = domain.DonationStatusAvailable
			d.AcceptedRequestID = nil
			reopened = true
		}
	}

	return reopened, nil
}

func (s *memStore) Complete(ctx context.Context, requestID, donationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[requestID]
	if !ok || r.Status != domain.RequestStatusAccepted {
		return domain.ErrRequestNotAccepted
	}

	d, ok := s.donations[donationID]
	if !ok || d.Status != domain.DonationStatusAccepted {
		return domain.ErrDonationNotAvailable
	}

	now := time.Now().UTC()
	r.Status = domain.RequestStatusCompleted
	r.CompletedAt = &now
	d.Status = domain.DonationStatusCompleted
	return nil
}

func (s *memStore) Cancel(ctx context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[requestID]
	if !ok || (r.Status != domain.RequestStatusPending && r.Status != domain.RequestStatusAccepted) {
		return domain.ErrRequestNotCancellable
	}

	now := time.Now().UTC()
	r.Status = domain.RequestStatusCancelled
	r.CancelledAt = &now
	return nil
}

// requestRepoView адаптирует memStore к out.RequestRepository
// (имена Save/FindByID конфликтуют с DonationRepository).
type requestRepoView struct {
	*memStore
}

func (v requestRepoView) Save(ctx context.Context, r *domain.FoodRequest) error {
	return v.SaveRequest(ctx, r)
}

func (v requestRepoView) FindByID(ctx context.Context, id string) (*domain.FoodRequest, error) {
	return v.FindRequestByID(ctx, id)
}

// fakePublisher записывает опубликованные события
type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) PublishDonationEvent(ctx context.Context, eventType string, data out.DonationEventData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *fakePublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}
	return n
}

// fakeNotifier записывает доставленные уведомления
type fakeNotifier struct {
	mu       sync.Mutex
	messages map[string][]string // userID -> messages
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{messages: make(map[string][]string)}
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, donationID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[userID] = append(n.messages[userID], message)
	return nil
}

func (n *fakeNotifier) countFor(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages[userID])
}

func testLogger() *logger.Logger {
	return logger.NewLogger("test")
}
