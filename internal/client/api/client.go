// Package api is the HTTP layer of the client: one configured http.Client
// with a bearer-token request interceptor, envelope unwrapping on responses,
// and session teardown on transport-level 401. Endpoint wrappers for the
// auth and section services live in auth.go and section.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/open436/forumctl/internal/client/storage"
	"github.com/open436/forumctl/internal/logging"
)

// envelope is the uniform response wrapper used by the backend:
// {code, message, data, timestamp}. Code is a pointer so that bodies
// without a code field (e.g. the DRF list endpoint) can be told apart
// and passed through unchanged.
type envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is the single configured HTTP client shared by all endpoint
// wrappers.
//
// Before each request it reads the session token from the persistent store
// (read-only; the session store owns all writes) and attaches it as a
// bearer credential. On a transport-level 401 it clears the persisted
// session and fires the unauthorized handler so the app can route the user
// back to login.
type Client struct {
	baseURL string
	http    *http.Client
	store   *storage.Store
	log     logging.Logger

	// onUnauthorized is invoked after a 401 teardown. It is skipped when the
	// request carried no token, so an already-logged-out client does not
	// loop back into the login flow.
	onUnauthorized func()
}

func NewClient(baseURL string, timeout time.Duration, store *storage.Store, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		log:     log,
	}
}

// SetUnauthorizedHandler registers the hook fired after a 401 clears the
// persisted session. Set it once during app wiring, before any requests.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// Do performs one round trip and decodes the result into out (which may be
// nil when the caller does not need the payload). Failures are logged and
// returned as *Error values wrapping a category sentinel.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Request interceptor: attach the bearer credential when present.
	var token string
	c.store.Get(ctx, storage.KeyToken, &token)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(ctx, method, path, resp.StatusCode, data, token != "")
	}

	return c.decodeSuccess(ctx, method, path, data, out)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.Do(ctx, http.MethodDelete, path, query, nil, nil)
}

// transportError classifies network-level failures (unreachable host,
// timeouts) into their sentinels with a user-facing message.
func (c *Client) transportError(ctx context.Context, method, path string, err error) error {
	c.log.Error(ctx, "request failed", "method", method, "path", path, "error", err)

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
	default:
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
}

// statusError handles non-2xx responses. A 401 clears the persisted session
// and fires the unauthorized handler; a 403 is surfaced without side
// effects, the caller decides what to show.
func (c *Client) statusError(ctx context.Context, method, path string, status int, body []byte, hadToken bool) error {
	var env envelope
	_ = json.Unmarshal(body, &env) // best effort, the body may not be JSON

	code := 0
	if env.Code != nil {
		code = *env.Code
	}
	apiErr := &Error{
		Code:       code,
		Message:    Resolve(code, env.Message, status),
		HTTPStatus: status,
	}

	c.log.Warn(ctx, "request rejected",
		"method", method, "path", path, "status", status, "code", code)

	if status == http.StatusUnauthorized {
		c.store.Remove(ctx, storage.KeyToken)
		c.store.Remove(ctx, storage.KeyUserInfo)
		c.store.Remove(ctx, storage.KeyExpiresIn)
		if hadToken && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	return apiErr
}

// decodeSuccess unwraps the business envelope on 2xx responses. Bodies
// without a recognizable envelope are passed through unchanged.
func (c *Client) decodeSuccess(ctx context.Context, method, path string, body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Code == nil {
		// Compatibility fallback: not an envelope, hand the raw body over.
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	code := *env.Code
	if code < 200 || code >= 300 {
		apiErr := &Error{Code: code, Message: Resolve(code, env.Message, 0)}
		c.log.Warn(ctx, "request failed with business code",
			"method", method, "path", path, "code", code)
		return apiErr
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
