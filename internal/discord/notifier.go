package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"TrackerSync/internal/httpjson"
	"TrackerSync/internal/ports"
)

const (
	embedColorGreen  = 3066993
	footerText       = "365-Day Transformation Tracker"
	defaultUsername  = "📊 365-Day Tracker"
	defaultAvatarURL = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"
)

// Notifier posts run summaries as webhook embeds.
type Notifier struct {
	webhookURL string
	fetcher    *httpjson.Client
	logger     *slog.Logger
	now        func() time.Time
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the webhook target.
func NewNotifier(webhookURL string, fetcher *httpjson.Client, logger *slog.Logger) *Notifier {
	if fetcher == nil {
		fetcher = httpjson.New(nil, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		webhookURL: webhookURL,
		fetcher:    fetcher,
		logger:     logger,
		now:        time.Now,
	}
}

type payload struct {
	Content   *string `json:"content"`
	Embeds    []embed `json:"embeds"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Footer      footer `json:"footer"`
	Timestamp   string `json:"timestamp"`
}

type footer struct {
	Text string `json:"text"`
}

// Notify posts one embed. The webhook replies 204 on success; any other
// non-2xx response is logged and dropped, never retried: a failed
// notification must not fail the run it reports on.
func (n *Notifier) Notify(ctx context.Context, title, message string) error {
	if n.webhookURL == "" {
		return fmt.Errorf("discord notifier misconfigured: empty webhook URL")
	}

	body, err := json.Marshal(payload{
		Embeds: []embed{{
			Title:       title,
			Description: message,
			Color:       embedColorGreen,
			Footer:      footer{Text: footerText},
			Timestamp:   n.now().UTC().Format(time.RFC3339),
		}},
		Username:  defaultUsername,
		AvatarURL: defaultAvatarURL,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	res := n.fetcher.Fetch(ctx, n.webhookURL, httpjson.Options{
		Method: http.MethodPost,
		Body:   body,
	})
	if !res.OK && res.Code != http.StatusNoContent {
		n.logger.Warn("webhook rejected notification", "code", res.Code, "error", res.Err)
	}
	return nil
}
