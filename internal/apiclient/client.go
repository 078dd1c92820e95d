package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"balancegame-web/models"
)

const authorizationHeader = "Authorization"

// APIError is returned for any non-2xx upstream response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api status %d", e.StatusCode)
	}
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the balance game REST API. Headers set on it are sent
// with every request, the way a shared browser HTTP client behaves.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.RWMutex
	headers http.Header
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		headers:    http.Header{"Accept": []string{"application/json"}},
	}
}

// Clone returns a client sharing the transport but owning a copy of the
// default headers.
func (c *Client) Clone() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		headers:    c.headers.Clone(),
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) SetBearerToken(token string) {
	c.SetDefaultHeader(authorizationHeader, "Bearer "+token)
}

func (c *Client) ClearBearerToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Del(authorizationHeader)
}

func (c *Client) SetDefaultHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Set(key, value)
}

func (c *Client) DefaultHeader(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers.Get(key)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.mu.RLock()
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	c.mu.RUnlock()
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type LoginResponse struct {
	Token    string      `json:"token"`
	User     models.User `json:"user"`
	Platform string      `json:"platform"`
}

func authPrefix(platform models.Platform) string {
	if platform == models.PlatformMobile {
		return "/api/mobile/auth"
	}
	return "/api/web/auth"
}

// TestLogin signs in with the upstream username/password test endpoint.
func (c *Client) TestLogin(ctx context.Context, platform models.Platform, username, password string) (*LoginResponse, error) {
	creds := map[string]string{"username": username, "password": password}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, authPrefix(platform)+"/test-login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("login response is missing token or user")
	}
	return &resp, nil
}

func (c *Client) CurrentUser(ctx context.Context, platform models.Platform) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, authPrefix(platform)+"/me", nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) Logout(ctx context.Context, platform models.Platform) error {
	return c.do(ctx, http.MethodPost, authPrefix(platform)+"/logout", nil, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, partial models.User) (models.User, error) {
	var user models.User
	path := "/api/users/" + url.PathEscape(userID) + "/profile"
	if err := c.do(ctx, http.MethodPut, path, partial, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}
