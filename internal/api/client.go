// Package api is the HTTP client for the fumosclub script service.
//
// Every request is authenticated with the session cookie acquired by
// "fumo login". Responses share a {"success": bool} envelope; failures are
// mapped to the sentinel and typed errors in errors.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UserAgent is sent with every request.
const UserAgent = "fumosync-go (github.com/techs-sus/fumo)"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client talks to the remote script service on behalf of one session.
type Client struct {
	baseURL string
	session string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets a per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithLogger sets a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the service rooted at baseURL that
// authenticates with session.
func NewClient(baseURL, session string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetDetails returns the account behind the session.
func (c *Client) GetDetails(ctx context.Context) (*AccountDetails, error) {
	var details AccountDetails
	if err := c.do(ctx, http.MethodGet, "/api/account/getdetails", nil, &details); err != nil {
		return nil, fmt.Errorf("getting account details: %w", err)
	}

	return &details, nil
}

// ListScripts returns every script visible to the account.
func (c *Client) ListScripts(ctx context.Context) (*ScriptList, error) {
	var list ScriptList
	if err := c.do(ctx, http.MethodGet, "/api/script/home/getscripts", nil, &list); err != nil {
		return nil, fmt.Errorf("listing scripts: %w", err)
	}

	return &list, nil
}

// GetEditor returns the editable state of the script with the given id.
func (c *Client) GetEditor(ctx context.Context, scriptID string) (*Editor, error) {
	path := "/api/script/editor?id=" + url.QueryEscape(scriptID)

	var editor Editor
	if err := c.do(ctx, http.MethodGet, path, nil, &editor); err != nil {
		return nil, fmt.Errorf("getting editor for %s: %w", scriptID, err)
	}

	if editor.ScriptInfo.Source.Modules == nil {
		editor.ScriptInfo.Source.Modules = map[string]string{}
	}

	return &editor, nil
}

// SetEditor sends updates to the script with the given id as one partial
// update. Fields not named by any update are left untouched remotely.
func (c *Client) SetEditor(ctx context.Context, scriptID string, updates []EditorUpdate) error {
	patch := BuildPatch(scriptID, updates)

	if err := c.do(ctx, http.MethodPatch, "/api/script/editor", patch, nil); err != nil {
		return fmt.Errorf("updating editor for %s: %w", scriptID, err)
	}

	return nil
}

// GenerateKey creates a loader key for the script with the given id.
func (c *Client) GenerateKey(ctx context.Context, scriptID string) (string, error) {
	body := map[string]string{"scriptId": scriptID}

	var key generatedKey

	err := c.do(ctx, http.MethodPut, "/api/script/generatekey", body, &key)

	var apiErr *Error
	if errors.As(err, &apiErr) || (err == nil && key.Key == "") {
		return "", fmt.Errorf("generating key for %s: %w", scriptID, ErrInvalidKeyGenerationTarget)
	}

	if err != nil {
		return "", fmt.Errorf("generating key for %s: %w", scriptID, err)
	}

	return key.Key, nil
}

// do performs one authenticated request. A non-nil in is sent as JSON; a
// non-nil out receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Cookie", "session="+c.session)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if len(bytes.TrimSpace(data)) > 0 {
		// The envelope is best effort: error pages need not be JSON.
		_ = json.Unmarshal(data, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if err := bodyError(env); err != nil && env.Banned {
			return err
		}

		return statusError(resp.StatusCode)
	}

	if err := bodyError(env); err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
