package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxBodyBytes = 8 << 20

// Options tune a single fetch. The zero value issues a plain GET.
type Options struct {
	Method  string
	Headers map[string]string
	Body    []byte // sent as application/json when non-nil
}

// Result is the uniform fetch envelope. Transport and protocol failures are
// folded into it so callers can treat "no data this call" uniformly instead
// of handling errors at every call site.
type Result struct {
	OK   bool
	Code int
	Text string
	JSON json.RawMessage // nil when the body is not valid JSON
	Err  string
}

// Failure describes why a fetch yielded no usable data.
func (r Result) Failure() string {
	switch {
	case r.Err != "":
		return r.Err
	case !r.OK:
		return fmt.Sprintf("HTTP %d", r.Code)
	case r.JSON == nil:
		return "response body is not JSON"
	}
	return ""
}

// Client issues HTTP requests and parses JSON without ever returning a Go
// error. OK is true iff the status is in [200,300); a transport failure
// yields OK=false, Code=0 and Err set.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

// New wires an HTTP client; a nil client gets a 20s-timeout default.
func New(client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: client, logger: logger}
}

// Fetch performs the request and returns the envelope. It has no side effects
// beyond the network call.
func (c *Client) Fetch(ctx context.Context, url string, opts Options) Result {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return Result{Err: err.Error()}
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("fetch failed", "url", url, "error", err)
		return Result{Err: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Code: resp.StatusCode, Err: fmt.Sprintf("read body: %v", err)}
	}

	result := Result{
		OK:   resp.StatusCode >= 200 && resp.StatusCode < 300,
		Code: resp.StatusCode,
		Text: string(raw),
	}
	if json.Valid(raw) {
		result.JSON = json.RawMessage(raw)
	}
	return result
}
