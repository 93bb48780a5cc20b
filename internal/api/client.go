package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/taskdeck/internal/logging"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorMessage = 200
	maxErrorBody    = 64 << 10
)

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", errors.New("no token")
	}
	return string(t), nil
}

// Options configures a Client.
type Options struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	// HTTPClient replaces the client built from Timeout and
	// InsecureSkipVerify.
	HTTPClient *http.Client
}

// Client talks to the backend REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
}

// NewClient builds a Client. tokens may be nil for a client that only
// logs in and registers.
func NewClient(opts Options, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q is not absolute", ErrValidation, opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			//nolint:gosec // Opt-in for self-signed development backends.
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		hc = &http.Client{Timeout: timeout, Transport: transport}
	}

	return &Client{baseURL: base, http: hc, tokens: tokens}, nil
}

// WithTokens returns a copy of c that authenticates with tokens.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	anon   bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	logger := logging.FromContext(ctx)

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", r.op, err)
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return &FetchError{Op: r.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !r.anon {
		if c.tokens == nil {
			return &AuthorizationError{Op: r.op, Message: "not logged in"}
		}
		token, tokenErr := c.tokens.Token()
		if tokenErr != nil {
			return &AuthorizationError{Op: r.op, Err: tokenErr}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Ctx(ctx).
			Str("component", "api").
			Str("method", r.method).
			Str("path", r.path).
			Err(err).
			Msg("request failed")
		return &FetchError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug().Ctx(ctx).
		Str("component", "api").
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("request completed")

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthorizationError{Op: r.op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Op: r.op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Op: r.op, Status: resp.StatusCode, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return &FetchError{Op: r.op, Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	return nil
}

// errorMessage pulls a readable message out of an error body. JSON bodies
// with "message" or "error" win over raw text.
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return truncate(payload.Message)
		}
		if payload.Error != "" {
			return truncate(payload.Error)
		}
	}
	return truncate(strings.TrimSpace(string(data)))
}

// truncate caps s at maxErrorMessage runes.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxErrorMessage {
		return s
	}
	return string(runes[:maxErrorMessage]) + "..."
}

func idPath(parts ...any) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, url.PathEscape(fmt.Sprint(p)))
	}
	return strings.Join(segs, "/")
}
