package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"TrackerSync/internal/httpjson"
)

const profileHTML = `
<html><body>
  <div class="user-rank"><span>specialist</span></div>
  <div class="info">
    <ul>
      <li>Contest rating: 1450 (max. expert, 1512)</li>
      <li>Contribution: +3</li>
    </ul>
  </div>
</body></html>`

func TestProfileRating(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/alice" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL + "/api"},
		httpjson.New(server.Client(), nil), nil)

	info, err := client.ProfileRating(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ProfileRating error: %v", err)
	}
	if info.Rating != 1450 {
		t.Fatalf("expected rating 1450, got %d", info.Rating)
	}
	if info.MaxRating != 1512 {
		t.Fatalf("expected max rating 1512, got %d", info.MaxRating)
	}
	if info.Rank != "specialist" {
		t.Fatalf("expected rank specialist, got %q", info.Rank)
	}
}

func TestProfileFallbackUsedWhenAPIDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/user.info" {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL + "/api"},
		httpjson.New(server.Client(), nil), nil)

	info, err := client.WithProfileFallback().UserInfo(context.Background(), "alice")
	if err != nil {
		t.Fatalf("fallback UserInfo error: %v", err)
	}
	if info.Rating != 1450 {
		t.Fatalf("expected scraped rating 1450, got %d", info.Rating)
	}
}
