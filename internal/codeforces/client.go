package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"TrackerSync/internal/domain"
	"TrackerSync/internal/httpjson"
	"TrackerSync/internal/ports"
)

const (
	// DefaultBaseURL is the public REST API root.
	DefaultBaseURL = "https://codeforces.com/api"

	// DefaultPageSize matches the provider's maximum page length.
	DefaultPageSize = 1000
)

// Config tunes the client; zero values pick the public defaults.
type Config struct {
	BaseURL  string
	PageSize int
}

// Client talks to the submission-history and user-info endpoints.
type Client struct {
	baseURL  string
	pageSize int
	fetcher  *httpjson.Client
	logger   *slog.Logger
}

var _ ports.SubmissionSource = (*Client)(nil)
var _ ports.UserInfoSource = (*Client)(nil)

// NewClient wires the fetch envelope; nil fetcher gets a default one.
func NewClient(cfg Config, fetcher *httpjson.Client, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if fetcher == nil {
		fetcher = httpjson.New(nil, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		pageSize: cfg.PageSize,
		fetcher:  fetcher,
		logger:   logger,
	}
}

type apiEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type apiSubmission struct {
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	Verdict             string `json:"verdict"`
	ProgrammingLanguage string `json:"programmingLanguage"`
	Problem             struct {
		ContestID int      `json:"contestId"`
		Index     string   `json:"index"`
		Name      string   `json:"name"`
		Rating    *int     `json:"rating"`
		Tags      []string `json:"tags"`
	} `json:"problem"`
}

type apiUser struct {
	Handle    string `json:"handle"`
	Rating    int    `json:"rating"`
	Rank      string `json:"rank"`
	MaxRating int    `json:"maxRating"`
	MaxRank   string `json:"maxRank"`
}

// Submissions pages user.status from offset 1 until a short page or a failed
// call. A failure mid-pagination returns the pages fetched so far with no
// error: a rate-limited or flaky page must not erase already-retrieved ones.
func (c *Client) Submissions(ctx context.Context, handle string) ([]domain.Submission, error) {
	var all []domain.Submission
	from := 1
	for {
		pageURL := fmt.Sprintf("%s/user.status?handle=%s&from=%d&count=%d",
			c.baseURL, url.QueryEscape(handle), from, c.pageSize)

		res := c.fetcher.Fetch(ctx, pageURL, httpjson.Options{})
		if !res.OK || res.JSON == nil {
			c.logger.Debug("submission page failed, keeping fetched pages",
				"from", from, "reason", res.Failure())
			break
		}

		var envelope apiEnvelope
		if err := json.Unmarshal(res.JSON, &envelope); err != nil {
			c.logger.Debug("submission page malformed", "from", from, "error", err)
			break
		}
		if envelope.Status != "OK" || envelope.Result == nil {
			c.logger.Debug("submission page rejected", "from", from, "comment", envelope.Comment)
			break
		}

		var page []apiSubmission
		if err := json.Unmarshal(envelope.Result, &page); err != nil {
			c.logger.Debug("submission list malformed", "from", from, "error", err)
			break
		}

		for _, raw := range page {
			all = append(all, coerce(raw))
		}
		if len(page) < c.pageSize {
			break
		}
		from += c.pageSize
	}
	return all, nil
}

// UserInfo resolves rating and rank via user.info. Unlike Submissions it does
// return an error, so the caller can fall back to the profile-page scraper.
func (c *Client) UserInfo(ctx context.Context, handle string) (domain.UserStats, error) {
	infoURL := fmt.Sprintf("%s/user.info?handles=%s", c.baseURL, url.QueryEscape(handle))

	res := c.fetcher.Fetch(ctx, infoURL, httpjson.Options{})
	if !res.OK || res.JSON == nil {
		return domain.UserStats{}, fmt.Errorf("user.info: %s", res.Failure())
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(res.JSON, &envelope); err != nil {
		return domain.UserStats{}, fmt.Errorf("user.info: decode envelope: %w", err)
	}
	if envelope.Status != "OK" {
		return domain.UserStats{}, fmt.Errorf("user.info: provider said %q", envelope.Comment)
	}

	var users []apiUser
	if err := json.Unmarshal(envelope.Result, &users); err != nil {
		return domain.UserStats{}, fmt.Errorf("user.info: decode result: %w", err)
	}
	if len(users) == 0 {
		return domain.UserStats{}, fmt.Errorf("user.info: no user for handle %s", handle)
	}

	user := users[0]
	return domain.UserStats{
		Handle:    user.Handle,
		Rating:    user.Rating,
		Rank:      user.Rank,
		MaxRating: user.MaxRating,
		MaxRank:   user.MaxRank,
	}, nil
}

// coerce validates and normalizes one raw API entry at the provider boundary
// so the reconciler never sees malformed payloads. Missing optional fields
// become sentinels, never errors.
func coerce(raw apiSubmission) domain.Submission {
	name := raw.Problem.Name
	if name == "" {
		name = fmt.Sprintf("Problem %d%s", raw.Problem.ContestID, raw.Problem.Index)
	}

	rating := domain.RatingUnknown
	if raw.Problem.Rating != nil {
		rating = *raw.Problem.Rating
	}

	tags := raw.Problem.Tags
	if tags == nil {
		tags = []string{}
	}

	return domain.Submission{
		Key: domain.ProblemKey{
			ContestID: raw.Problem.ContestID,
			Index:     raw.Problem.Index,
		},
		Verdict:   raw.Verdict,
		CreatedAt: time.Unix(raw.CreationTimeSeconds, 0).UTC(),
		Rating:    rating,
		Tags:      tags,
		Language:  raw.ProgrammingLanguage,
		Name:      name,
	}
}
