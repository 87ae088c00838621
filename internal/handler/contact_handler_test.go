package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelhouse/internal/storage"
)

func TestSubmitContactDisabledRelay(t *testing.T) {
	api, _ := setupTestAPI(t)
	r := newTestRouter(api)

	w := doJSON(t, r, http.MethodPost, "/api/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Hello",
	}, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestSubmitContactRelaysForm(t *testing.T) {
	var received string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		received = r.PostForm.Get("projectType")
		w.WriteHeader(http.StatusOK)
	}))
	defer relay.Close()

	api := NewAPI(setupHandlerTestDB(t), Options{
		Store:        storage.NewMemoryStore(""),
		FormRelayURL: relay.URL,
		HTTPClient:   relay.Client(),
	})
	r := newTestRouter(api)

	w := doJSON(t, r, http.MethodPost, "/api/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Hello", "projectType": "music-video",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if received != "music-video" {
		t.Fatalf("expected relay to receive projectType, got %q", received)
	}

	w = doJSON(t, r, http.MethodPost, "/api/contact", map[string]string{"name": "Ada", "email": "not-an-email"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for invalid fields, got %d", w.Code)
	}
}

func TestSubmitContactRelayFailure(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer relay.Close()

	api := NewAPI(setupHandlerTestDB(t), Options{FormRelayURL: relay.URL, HTTPClient: relay.Client()})
	r := newTestRouter(api)

	w := doJSON(t, r, http.MethodPost, "/api/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Hello",
	}, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}
