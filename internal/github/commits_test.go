package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrackerSync/internal/httpjson"
)

func TestCommitsSince(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotAccept, gotSince string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotSince = r.URL.Query().Get("since")
		_, _ = w.Write([]byte(`[
			{"sha":"abc","commit":{"message":"fix parser","author":{"date":"2026-08-01T10:00:00Z"}}},
			{"sha":"def","commit":{"message":"add tests","author":{"date":"2026-08-01T15:30:00Z"}}},
			{"sha":"ghi","commit":{"message":"docs","author":{"date":"2026-08-02T09:00:00Z"}}}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tkn", httpjson.New(server.Client(), nil), nil)

	since := time.Date(2026, time.July, 30, 0, 0, 0, 0, time.UTC)
	commits, err := client.CommitsSince(context.Background(), "alice/dotfiles", since)
	if err != nil {
		t.Fatalf("CommitsSince error: %v", err)
	}

	if gotPath != "/repos/alice/dotfiles/commits" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "token tkn" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotAccept != "application/vnd.github.v3+json" {
		t.Fatalf("unexpected accept header %q", gotAccept)
	}
	if gotSince != "2026-07-30" {
		t.Fatalf("unexpected since %q", gotSince)
	}

	if len(commits) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(commits))
	}
	if commits[0].SHA != "abc" || commits[0].Message != "fix parser" {
		t.Fatalf("unexpected first commit %+v", commits[0])
	}
	want := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	if !commits[0].AuthoredAt.Equal(want) {
		t.Fatalf("unexpected authored date %v", commits[0].AuthoredAt)
	}
}

func TestCommitsSinceAPIErrorMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", httpjson.New(server.Client(), nil), nil)
	_, err := client.CommitsSince(context.Background(), "alice/dotfiles", time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "github commits: Bad credentials" {
		t.Fatalf("expected the API's own message, got %q", got)
	}
}
