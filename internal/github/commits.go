package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"TrackerSync/internal/domain"
	"TrackerSync/internal/httpjson"
	"TrackerSync/internal/ports"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.github.com"

const (
	userAgent = "tracker-sync/1.0"
	pageSize  = 100
)

// Client lists repository commits through the commit-history API. The simple
// flow reads a single page, which covers a personal repo's recent activity.
type Client struct {
	baseURL string
	token   string
	fetcher *httpjson.Client
	logger  *slog.Logger
}

var _ ports.CommitSource = (*Client)(nil)

// NewClient builds a client with the pasted token; baseURL "" means the
// public API.
func NewClient(baseURL, token string, fetcher *httpjson.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if fetcher == nil {
		fetcher = httpjson.New(nil, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, token: token, fetcher: fetcher, logger: logger}
}

type apiCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// CommitsSince lists commits authored since the given day for "owner/repo".
func (c *Client) CommitsSince(ctx context.Context, repo string, since time.Time) ([]domain.Commit, error) {
	commitsURL := fmt.Sprintf("%s/repos/%s/commits?since=%s&per_page=%d",
		c.baseURL, repo, since.UTC().Format("2006-01-02"), pageSize)

	res := c.fetcher.Fetch(ctx, commitsURL, httpjson.Options{
		Headers: map[string]string{
			"Authorization": "token " + c.token,
			"Accept":        "application/vnd.github.v3+json",
			"User-Agent":    userAgent,
		},
	})
	if !res.OK || res.JSON == nil {
		return nil, fmt.Errorf("github commits: %s", apiFailure(res))
	}

	var raw []apiCommit
	if err := json.Unmarshal(res.JSON, &raw); err != nil {
		return nil, fmt.Errorf("github commits: decode: %w", err)
	}

	commits := make([]domain.Commit, 0, len(raw))
	for _, entry := range raw {
		commits = append(commits, domain.Commit{
			SHA:        entry.SHA,
			Message:    entry.Commit.Message,
			AuthoredAt: entry.Commit.Author.Date,
		})
	}
	return commits, nil
}

// apiFailure prefers the API's own error message over the raw status.
func apiFailure(res httpjson.Result) string {
	if res.JSON != nil {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(res.JSON, &payload) == nil && payload.Message != "" {
			return payload.Message
		}
	}
	return res.Failure()
}
