package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrackerSync/internal/httpjson"
)

func TestNotifyPayloadShape(t *testing.T) {
	t.Parallel()

	var got payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, httpjson.New(server.Client(), nil), nil)
	notifier.now = func() time.Time {
		return time.Date(2026, time.August, 29, 8, 0, 0, 0, time.UTC)
	}

	if err := notifier.Notify(context.Background(), "✅ CodeForces Sync", "Added 3 new accepted submission(s)."); err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	if got.Content != nil {
		t.Fatalf("content must be null, got %v", *got.Content)
	}
	if len(got.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(got.Embeds))
	}
	e := got.Embeds[0]
	if e.Title != "✅ CodeForces Sync" || e.Description != "Added 3 new accepted submission(s)." {
		t.Fatalf("unexpected embed %+v", e)
	}
	if e.Color != embedColorGreen {
		t.Fatalf("unexpected color %d", e.Color)
	}
	if e.Footer.Text != footerText {
		t.Fatalf("unexpected footer %q", e.Footer.Text)
	}
	if e.Timestamp != "2026-08-29T08:00:00Z" {
		t.Fatalf("unexpected timestamp %q", e.Timestamp)
	}
	if got.Username == "" || got.AvatarURL == "" {
		t.Fatal("username and avatar must be set")
	}
}

func TestNotifyToleratesRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusBadRequest)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, httpjson.New(server.Client(), nil), nil)
	if err := notifier.Notify(context.Background(), "t", "m"); err != nil {
		t.Fatalf("rejection must be logged, not returned: %v", err)
	}
}

func TestNotifyMisconfigured(t *testing.T) {
	t.Parallel()

	notifier := NewNotifier("", nil, nil)
	if err := notifier.Notify(context.Background(), "t", "m"); err == nil {
		t.Fatal("expected error for empty webhook URL")
	}
}
