// Package api implements the HTTP client of the vault API. It owns the
// cookie jar carrying the session, persists it between invocations, and
// attaches the anti-forgery token to every state-changing request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/nstepanov/passvault/internal/models"
)

// csrfCookie is the client-readable cookie the server pairs with the
// session. Its value is echoed in the header of the same name on mutations.
const csrfCookie = "X-CSRF-Token"

// Client talks to the vault API at a fixed base URL.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// NewClient constructs a Client for the given base URL with a fresh cookie
// jar. The jar starts empty; LoadSession restores a persisted session.
func NewClient(baseURL string, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new cookie jar: %w", err)
	}

	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
		log:  log,
	}, nil
}

// mutationToken reads the anti-forgery token from the jar. It is read fresh
// on every mutating request because the server may rotate it. A missing
// token degrades to an empty string; the server rejects the request then.
func (c *Client) mutationToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

// mutating reports whether the method changes server state.
func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// do issues one request and decodes the enveloped response into out (which
// may be nil when only the envelope matters). fallback is the generic
// message used when a rejection carries no server message.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	u := c.base.JoinPath(path)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if mutating(method) {
		if token := c.mutationToken(); token != "" {
			req.Header.Set(csrfCookie, token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("path", path), zap.Error(err))
		return networkError(fallback, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(fallback, err)
	}

	var env models.Response
	if err := json.Unmarshal(data, &env); err != nil {
		return networkError(fallback, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return rejectedError(resp.StatusCode, env.Message, fallback)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return networkError(fallback, err)
		}
	}
	return nil
}

// Register creates a new user and stores the issued session in the jar.
func (c *Client) Register(ctx context.Context, username, email, password string) (models.Identity, error) {
	var resp models.AuthResponse
	req := models.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp, "Registration failed"); err != nil {
		return models.Identity{}, err
	}
	return models.Identity{Username: resp.Username}, nil
}

// Login authenticates and stores the issued session in the jar.
func (c *Client) Login(ctx context.Context, email, password string) (models.Identity, error) {
	var resp models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp, "Login failed"); err != nil {
		return models.Identity{}, err
	}
	return models.Identity{Username: resp.Username}, nil
}

// Me performs the identity check for the current session.
func (c *Client) Me(ctx context.Context) (models.Identity, error) {
	var resp models.MeResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp, "Not signed in"); err != nil {
		return models.Identity{}, err
	}
	return models.Identity{Username: resp.Username}, nil
}

// List fetches the metadata of all stored accounts.
func (c *Client) List(ctx context.Context) ([]models.Account, error) {
	var resp models.ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/password/list", nil, &resp, "Failed to load accounts"); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// Show fetches the plaintext secret of one account.
func (c *Client) Show(ctx context.Context, id string) (string, error) {
	var resp models.ShowResponse
	if err := c.do(ctx, http.MethodGet, "/api/password/show/"+url.PathEscape(id), nil, &resp, "Could not retrieve password"); err != nil {
		return "", err
	}
	return resp.Password, nil
}

// Add creates a new stored account.
func (c *Client) Add(ctx context.Context, name, password string) error {
	req := models.AccountRequest{AccountName: name, AccountPassword: password}
	return c.do(ctx, http.MethodPost, "/api/password/add", req, nil, "Save failed")
}

// Edit updates the name and secret of an existing account.
func (c *Client) Edit(ctx context.Context, id, name, password string) error {
	req := models.AccountRequest{AccountName: name, AccountPassword: password}
	return c.do(ctx, http.MethodPut, "/api/password/edit/"+url.PathEscape(id), req, nil, "Update failed")
}

// Delete removes a stored account.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/password/delete/"+url.PathEscape(id), nil, nil, "Delete failed")
}

// Logout destroys the server-side session. The jar is cleared of auth
// cookies by the server's expired Set-Cookie headers.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, "Logout failed")
}
