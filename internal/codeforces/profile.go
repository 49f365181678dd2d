package codeforces

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TrackerSync/internal/domain"
	"TrackerSync/internal/httpjson"
	"TrackerSync/internal/ports"
)

var ratingExpr = regexp.MustCompile(`-?\d+`)

// fallbackSource tries user.info first and scrapes the profile page when the
// API is unavailable.
type fallbackSource struct {
	client *Client
}

func (f fallbackSource) UserInfo(ctx context.Context, handle string) (domain.UserStats, error) {
	info, err := f.client.UserInfo(ctx, handle)
	if err == nil {
		return info, nil
	}
	f.client.logger.Debug("user.info failed, scraping profile page", "error", err)
	return f.client.ProfileRating(ctx, handle)
}

// WithProfileFallback wraps the client as a user-info source that degrades
// to scraping.
func (c *Client) WithProfileFallback() ports.UserInfoSource {
	return fallbackSource{client: c}
}

// ProfileRating scrapes the public profile page for rating and rank. It is
// the fallback path for when user.info is down, which happens often enough
// during contests to matter.
func (c *Client) ProfileRating(ctx context.Context, handle string) (domain.UserStats, error) {
	profileURL := fmt.Sprintf("%s/profile/%s",
		strings.TrimSuffix(c.baseURL, "/api"), url.PathEscape(handle))

	res := c.fetcher.Fetch(ctx, profileURL, httpjson.Options{
		Headers: map[string]string{"User-Agent": "tracker-sync/1.0"},
	})
	if !res.OK {
		return domain.UserStats{}, fmt.Errorf("profile page: %s", res.Failure())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Text))
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("profile page: parse: %w", err)
	}

	info := domain.UserStats{Handle: handle}
	doc.Find("div.info li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Text())
		switch {
		case strings.Contains(text, "Contest rating:"):
			numbers := ratingExpr.FindAllString(text, 2)
			if len(numbers) > 0 {
				info.Rating, _ = strconv.Atoi(numbers[0])
			}
			if len(numbers) > 1 {
				info.MaxRating, _ = strconv.Atoi(numbers[1])
			}
		}
	})
	if rank := strings.TrimSpace(doc.Find("div.user-rank span").First().Text()); rank != "" {
		info.Rank = rank
	}

	if info.Rating == 0 && info.Rank == "" {
		return domain.UserStats{}, fmt.Errorf("profile page: no rating found for %s", handle)
	}
	return info, nil
}
