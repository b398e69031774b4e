package interact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/citygate/interstitial/internal/content"
)

func TestClientTogglePropagatesCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/interactions/event/ev-1/like/toggle" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer viewer-1" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(toggleResponse{Count: 17})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "viewer-1", 5*time.Second)
	count, err := c.Toggle(context.Background(), content.KindEvent, "ev-1", TypeLike)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if count != 17 {
		t.Errorf("count = %d, want 17", count)
	}
}

func TestClientUnauthorizedMapsToAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	if _, err := c.Toggle(context.Background(), content.KindEvent, "ev-1", TypeLike); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
}

func TestClientServerErrorWrapsWriteFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "viewer-1", 5*time.Second)
	if err := c.RegisterView(context.Background(), "ad-1"); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
}
