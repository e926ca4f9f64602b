package in_ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodshare/internal/livelocation/application/ports/out"
	"foodshare/internal/livelocation/domain"
	"foodshare/internal/livelocation/hub"
	"foodshare/internal/shared/logger"

	"github.com/gorilla/websocket"
)

type fakeLookup struct {
	donations map[string]*out.DonationRef
	users     map[string]bool
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

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	rec := "rec1"
	lookup := &fakeLookup{
		donations: map[string]*out.DonationRef{
			"d1": {ID: "d1", DonorID: "donor1", Status: "accepted", AcceptedRecipientID: &rec},
		},
		users: map[string]bool{"donor1": true, "rec1": true},
	}

	log := logger.NewLogger("test")
	locationHub := hub.NewLiveLocationHub(lookup, nil, time.Minute, log)
	handler := NewLocationWSHandler(locationHub, log)

	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var payload map[string]any
	if err := conn.ReadJSON(&payload); err != nil {
		t.Fatalf("ws read failed: %v", err)
	}
	return payload
}

func send(t *testing.T, conn *websocket.Conn, msg LocationMessage) {
	t.Helper()

	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("ws write failed: %v", err)
	}
}

func TestDonorRegistration(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, LocationMessage{UserID: "donor1", Role: "donor", DonationID: "d1"})

	reply := readJSON(t, conn)
	if reply["type"] != "REGISTERED" {
		t.Fatalf("expected REGISTERED, got %v", reply)
	}
}

func TestRecipientPublishReachesDonor(t *testing.T) {
	srv := newTestServer(t)

	donor := dial(t, srv)
	send(t, donor, LocationMessage{UserID: "donor1", Role: "donor", DonationID: "d1"})
	if reply := readJSON(t, donor); reply["type"] != "REGISTERED" {
		t.Fatalf("donor registration failed: %v", reply)
	}

	recipient := dial(t, srv)
	lat, lng := 41.31, 69.24
	send(t, recipient, LocationMessage{UserID: "rec1", Role: "recipient", DonationID: "d1", Lat: &lat, Lng: &lng})
	if reply := readJSON(t, recipient); reply["type"] != "REGISTERED" {
		t.Fatalf("recipient registration failed: %v", reply)
	}

	update := readJSON(t, donor)
	if update["type"] != "LIVE_LOCATION" {
		t.Fatalf("expected LIVE_LOCATION, got %v", update)
	}
	if update["donationId"] != "d1" || update["recipientId"] != "rec1" {
		t.Fatalf("unexpected update payload: %v", update)
	}
	if update["lat"].(float64) != lat || update["lng"].(float64) != lng {
		t.Fatalf("coordinates mangled: %v", update)
	}
}

func TestErrorKeepsConnectionOpen(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	// Неизвестная донация — ошибка, но соединение остается открытым
	send(t, conn, LocationMessage{UserID: "donor1", Role: "donor", DonationID: "missing"})
	reply := readJSON(t, conn)
	if reply["error"] == nil || reply["error"] == "" {
		t.Fatalf("expected error reply, got %v", reply)
	}

	// То же соединение успешно регистрируется следующим сообщением
	send(t, conn, LocationMessage{UserID: "donor1", Role: "donor", DonationID: "d1"})
	reply = readJSON(t, conn)
	if reply["type"] != "REGISTERED" {
		t.Fatalf("connection unusable after error: %v", reply)
	}
}

func TestMalformedMessage(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("ws write failed: %v", err)
	}

	reply := readJSON(t, conn)
	if reply["error"] == nil {
		t.Fatalf("expected error for malformed payload, got %v", reply)
	}
}

func TestStrangerCannotRegisterAsRecipient(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, LocationMessage{UserID: "donor1", Role: "recipient", DonationID: "d1"})
	reply := readJSON(t, conn)
	if reply["error"] == nil {
		t.Fatalf("expected error for non-accepted recipient, got %v", reply)
	}
}
