// internal/infrastructure/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/domain/account"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 4 << 20

// Client talks to the remote order/catalog API. The bearer token comes from
// the Credentials it was constructed with and nowhere else.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *Credentials
	logger     *logrus.Logger
}

// New creates a client for baseURL
func New(baseURL string, timeout time.Duration, creds *Credentials, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		logger:     logger,
	}
}

// WithCredentials returns a client sharing the transport but bound to creds
func (c *Client) WithCredentials(creds *Credentials) *Client {
	clone := *c
	clone.creds = creds
	return &clone
}

// Credentials returns the credentials the client authenticates with
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// Categories fetches GET /category/all
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/category/all", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Products fetches GET /product/all
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/product/all", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Rewards fetches GET /rewards/all
func (c *Client) Rewards(ctx context.Context) ([]RewardItem, error) {
	var out []RewardItem
	if err := c.do(ctx, http.MethodGet, "/rewards/all", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Addresses fetches GET /addresses/all
func (c *Client) Addresses(ctx context.Context) ([]Address, error) {
	var out []Address
	if err := c.do(ctx, http.MethodGet, "/addresses/all", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAddress posts a new saved address
func (c *Client) CreateAddress(ctx context.Context, addr Address) (*Address, error) {
	addr.ID = 0
	var out Address
	if err := c.do(ctx, http.MethodPost, "/addresses", addr, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAddress replaces a saved address
func (c *Client) UpdateAddress(ctx context.Context, id int, addr Address) (*Address, error) {
	addr.ID = id
	var out Address
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/addresses/%d", id), addr, &out, nil); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		out = addr
	}
	return &out, nil
}

// DeleteAddress removes a saved address
func (c *Client) DeleteAddress(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/addresses/%d", id), nil, nil, nil)
}

// StoreOrder posts a product order. A response that does not acknowledge
// success is a *ServerError.
func (c *Client) StoreOrder(ctx context.Context, payload OrderPayload, idempotencyKey string) (*OrderAck, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	var ack OrderAck
	if err := c.do(ctx, http.MethodPost, "/store-order", payload, &ack, headers); err != nil {
		return nil, err
	}
	if !ack.Success {
		return nil, &ServerError{Status: http.StatusOK, Message: ack.Message}
	}
	return &ack, nil
}

// StoreRewardOrder posts a reward order
func (c *Client) StoreRewardOrder(ctx context.Context, payload RewardOrderPayload, idempotencyKey string) (*OrderAck, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	var ack OrderAck
	if err := c.do(ctx, http.MethodPost, "/store-reward-order", payload, &ack, headers); err != nil {
		return nil, err
	}
	if !ack.Success {
		return nil, &ServerError{Status: http.StatusOK, Message: ack.Message}
	}
	return &ack, nil
}

// ClaimReward posts POST /rewards/claim
func (c *Client) ClaimReward(ctx context.Context, productID int) (*ClaimAck, error) {
	body := map[string]int{"productId": productID}

	var ack ClaimAck
	if err := c.do(ctx, http.MethodPost, "/rewards/claim", body, &ack, nil); err != nil {
		return nil, err
	}
	if !ack.Success {
		return nil, &ServerError{Status: http.StatusOK, Message: ack.Message}
	}
	return &ack, nil
}

// Profile fetches GET /user/profile, the authoritative point balance
func (c *Client) Profile(ctx context.Context) (*account.Profile, error) {
	var out account.Profile
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges phone and password for a remote token. It does not touch the
// client's credentials; the caller stores the token.
func (c *Client) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	body := map[string]string{"phone": phone, "password": password}

	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, nil); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &ServerError{Status: http.StatusOK, Message: "login response carried no token"}
	}
	return &out, nil
}

// do performs a single request. There are no retries.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Warn("Remote API unreachable")
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("Remote API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, raw)
	}

	var envelope errorBody
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Success != nil && !*envelope.Success {
		return &ServerError{Status: resp.StatusCode, Message: envelope.message()}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	payload := unwrapData(raw)
	if _, ok := out.(acknowledgement); ok {
		// Acknowledgement fields may sit under "data" or at the top level;
		// the top level wins
		if !bytes.Equal(payload, bytes.TrimSpace(raw)) {
			_ = json.Unmarshal(payload, out)
		}
		payload = raw
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &ServerError{Status: resp.StatusCode, Message: fmt.Sprintf("unexpected response: %v", err)}
	}
	return nil
}

// statusError maps a non-2xx response onto the error taxonomy
func (c *Client) statusError(status int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	switch {
	case status == http.StatusUnauthorized:
		c.creds.Clear()
		return &AuthExpiredError{Message: body.message()}
	case status >= 400 && status < 500:
		if fields := body.fields(); len(fields) > 0 || status == http.StatusUnprocessableEntity {
			return &ServerValidationError{Status: status, Message: body.message(), Fields: fields}
		}
		return &ServerError{Status: status, Message: body.message()}
	default:
		return &ServerError{Status: status, Message: body.message()}
	}
}

// IsAuthExpired reports whether err is an *AuthExpiredError
func IsAuthExpired(err error) bool {
	var authErr *AuthExpiredError
	return errors.As(err, &authErr)
}
