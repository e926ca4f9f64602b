package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

type fakeCreateDonation struct {
	fn func(ctx context.Context, input in.CreateDonationInput) (*in.CreateDonationOutput, error)
}

func (f *fakeCreateDonation) Execute(ctx context.Context, input in.CreateDonationInput) (*in.CreateDonationOutput, error) {
	return f.fn(ctx, input)
}

type fakeAcceptRequest struct {
	fn func(ctx context.Context, input in.AcceptRequestInput) (*in.AcceptRequestOutput, error)
}

func (f *fakeAcceptRequest) Execute(ctx context.Context, input in.AcceptRequestInput) (*in.AcceptRequestOutput, error) {
	return f.fn(ctx, input)
}

type fakeGetOverview struct {
	fn func(ctx context.Context, input in.GetOverviewInput) (*in.GetOverviewOutput, error)
}

func (f *fakeGetOverview) Execute(ctx context.Context, input in.GetOverviewInput) (*in.GetOverviewOutput, error) {
	return f.fn(ctx, input)
}

type fakeGetDonations struct {
	fn func(ctx context.Context, input in.GetDonationsInput) (*in.GetDonationsOutput, error)
}

func (f *fakeGetDonations) Execute(ctx context.Context, input in.GetDonationsInput) (*in.GetDonationsOutput, error) {
	return f.fn(ctx, input)
}

// testAuth подкладывает пользователя в контекст вместо JWT middleware
func testAuth(userID, role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyUserRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

func newTestServer(uc UseCases, userID, role string) *httptest.Server {
	mux := http.NewServeMux()
	h := NewHTTPHandler(uc, logger.NewLogger("test"))
	h.RegisterRoutes(mux, testAuth(userID, role))
	return httptest.NewServer(mux)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(UseCases{}, "u1", "DONOR")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateDonationCreated(t *testing.T) {
	uc := UseCases{
		CreateDonation: &fakeCreateDonation{fn: func(ctx context.Context, input in.CreateDonationInput) (*in.CreateDonationOutput, error) {
			if input.DonorID != "donor1" {
				t.Errorf("donor id not taken from context: %q", input.DonorID)
			}
			if input.FoodType != domain.FoodTypeCooked {
				t.Errorf("unexpected food type %q", input.FoodType)
			}
			return &in.CreateDonationOutput{Donation: &domain.Donation{
				ID:      "d1",
				DonorID: input.DonorID,
				Title:   input.Title,
				Status:  domain.DonationStatusAvailable,
			}}, nil
		}},
	}
	srv := newTestServer(uc, "donor1", "DONOR")
	defer srv.Close()

	body := `{
		"title": "Plov",
		"description": "10 portions",
		"type": "cooked",
		"quantity": 10,
		"unit": "portions",
		"expiry_at": "` + time.Now().Add(3*time.Hour).Format(time.RFC3339) + `",
		"district": "Yunusobod",
		"city": "Tashkent",
		"pickup_instructions": "Entrance 2"
	}`

	resp, err := http.Post(srv.URL+"/donations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created domain.Donation
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID != "d1" || created.Title != "Plov" {
		t.Fatalf("unexpected response: %+v", created)
	}
}

func TestCreateDonationBadExpiry(t *testing.T) {
	srv := newTestServer(UseCases{}, "donor1", "DONOR")
	defer srv.Close()

	body := `{"title": "x", "description": "y", "type": "cooked", "quantity": 1, "unit": "kg", "expiry_at": "tomorrow", "district": "a", "city": "b", "pickup_instructions": "c"}`
	resp, err := http.Post(srv.URL+"/donations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAcceptRequestConflictMapsTo409(t *testing.T) {
	uc := UseCases{
		AcceptRequest: &fakeAcceptRequest{fn: func(ctx context.Context, input in.AcceptRequestInput) (*in.AcceptRequestOutput, error) {
			return nil, domain.ErrDonationNotAvailable
		}},
	}
	srv := newTestServer(uc, "donor1", "DONOR")
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/requests/r1/accept", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] == "" {
		t.Fatal("conflict response missing error message")
	}
}

func TestAcceptRequestForbiddenMapsTo403(t *testing.T) {
	uc := UseCases{
		AcceptRequest: &fakeAcceptRequest{fn: func(ctx context.Context, input in.AcceptRequestInput) (*in.AcceptRequestOutput, error) {
			return nil, domain.ErrNotDonationOwner
		}},
	}
	srv := newTestServer(uc, "other", "DONOR")
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/requests/r1/accept", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAcceptRequestNotFoundMapsTo404(t *testing.T) {
	uc := UseCases{
		AcceptRequest: &fakeAcceptRequest{fn: func(ctx context.Context, input in.AcceptRequestInput) (*in.AcceptRequestOutput, error) {
			return nil, domain.ErrRequestNotFound
		}},
	}
	srv := newTestServer(uc, "donor1", "DONOR")
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/requests/missing/accept", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestOverviewForbiddenMapsTo403(t *testing.T) {
	uc := UseCases{
		GetOverview: &fakeGetOverview{fn: func(ctx context.Context, input in.GetOverviewInput) (*in.GetOverviewOutput, error) {
			if input.RequesterRole != "DONOR" {
				t.Errorf("role not taken from context: %q", input.RequesterRole)
			}
			return nil, domain.ErrForbidden
		}},
	}
	srv := newTestServer(uc, "u1", "DONOR")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/overview")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestGetDonationsPassesFilters(t *testing.T) {
	var got in.GetDonationsInput
	uc := UseCases{
		GetDonations: &fakeGetDonations{fn: func(ctx context.Context, input in.GetDonationsInput) (*in.GetDonationsOutput, error) {
			got = input
			return &in.GetDonationsOutput{Donations: []*domain.Donation{}}, nil
		}},
	}
	srv := newTestServer(uc, "u1", "RECIPIENT")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/donations?city=Tashkent&district=Chilonzor&type=cooked&limit=5")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got.City != "Tashkent" || got.District != "Chilonzor" || got.FoodType != "cooked" || got.Limit != 5 {
		t.Fatalf("filters not passed through: %+v", got)
	}
}

func TestRequestFoodRequiresDonationID(t *testing.T) {
	srv := newTestServer(UseCases{}, "alice", "RECIPIENT")
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/requests", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
