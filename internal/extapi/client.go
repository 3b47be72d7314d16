package extapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"capability-dashboard/internal/dto"
	"capability-dashboard/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client talks to the external HR master-data API. Authentication state
// lives on the client, not in package globals, so independent clients
// (and tests) do not share tokens.
type Client struct {
	baseURL  string
	username string
	password string
	tokenTTL time.Duration

	refTimeout time.Duration
	empTimeout time.Duration

	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	// refresh collapses concurrent re-authentication attempts into one
	// upstream call.
	refresh singleflight.Group
}

type ClientInterface interface {
	Authenticate(ctx context.Context) (string, error)
	VerifyCredentials(ctx context.Context, username, password string) error
	FetchDepartments(ctx context.Context) ([]dto.ExternalDepartmentDTO, error)
	FetchPositions(ctx context.Context) ([]dto.ExternalPositionDTO, error)
	FetchEmployees(ctx context.Context) ([]dto.ExternalEmployeeDTO, error)
	TestConnection(ctx context.Context) error
}

func NewClient(cfg config.ExternalAPIConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		tokenTTL:   cfg.TokenTTL,
		refTimeout: cfg.ReferenceTimeout,
		empTimeout: cfg.EmployeeTimeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type secureAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type secureAuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Authenticate returns a valid bearer token, re-authenticating when the
// cached one is missing or past its TTL.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	result, err, _ := c.refresh.Do("auth", func() (interface{}, error) {
		token, err := c.secureAuth(ctx, c.username, c.password)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.token = token
		c.tokenExpiry = time.Now().Add(c.tokenTTL)
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// VerifyCredentials checks an arbitrary username/password pair against
// the upstream without touching the client's own token cache. The login
// flow delegates user authentication through this.
func (c *Client) VerifyCredentials(ctx context.Context, username, password string) error {
	_, err := c.secureAuth(ctx, username, password)
	return err
}

func (c *Client) secureAuth(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(secureAuthRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.refTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/User/SecureAuth", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("secure auth request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		var parsed secureAuthResponse
		if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
			return "", fmt.Errorf("secure auth failed: %s", parsed.Message)
		}
		return "", fmt.Errorf("secure auth failed: status %d", resp.StatusCode)
	}

	// The upstream returns either {"token": "..."} or the bare token
	// string.
	var parsed secureAuthResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Token != "" {
		return parsed.Token, nil
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil && plain != "" {
		return plain, nil
	}
	token := strings.TrimSpace(string(raw))
	if token != "" && !strings.HasPrefix(token, "{") {
		return token, nil
	}
	return "", fmt.Errorf("token not found in auth response")
}

// invalidateToken drops the cached token so the next call re-authenticates.
func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// getJSON performs an authenticated GET and decodes the payload into out.
// On a 401 it discards the token, re-authenticates and retries exactly
// once; any other failure is returned as-is.
func (c *Client) getJSON(ctx context.Context, path string, timeout time.Duration, out interface{}) error {
	status, err := c.doGet(ctx, path, timeout, out)
	if err == nil {
		return nil
	}
	if status != http.StatusUnauthorized {
		return err
	}

	c.logger.Info("token rejected by upstream, re-authenticating", zap.String("path", path))
	c.invalidateToken()
	if _, err := c.doGet(ctx, path, timeout, out); err != nil {
		return err
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, timeout time.Duration, out interface{}) (int, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return 0, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", path, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) FetchDepartments(ctx context.Context) ([]dto.ExternalDepartmentDTO, error) {
	var departments []dto.ExternalDepartmentDTO
	if err := c.getJSON(ctx, "/Department", c.refTimeout, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (c *Client) FetchPositions(ctx context.Context) ([]dto.ExternalPositionDTO, error) {
	var positions []dto.ExternalPositionDTO
	if err := c.getJSON(ctx, "/Jabatan", c.refTimeout, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *Client) FetchEmployees(ctx context.Context) ([]dto.ExternalEmployeeDTO, error) {
	var employees []dto.ExternalEmployeeDTO
	if err := c.getJSON(ctx, "/User", c.empTimeout, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// TestConnection verifies the upstream is reachable by forcing a fresh
// authentication.
func (c *Client) TestConnection(ctx context.Context) error {
	c.invalidateToken()
	_, err := c.Authenticate(ctx)
	return err
}
