package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Gateway is the slice of the payment provider's API the service consumes:
// creating a hosted checkout session. Payment outcomes come back through the
// signed webhook, never through this interface.
type Gateway interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
}

type SessionParams struct {
	AmountMinor int64
	Currency    string
	ProductName string
	Quantity    int
	OrderID     string
	Environment string
	SuccessURL  string
	CancelURL   string
	ExpiresAt   time.Time
}

type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"url"`
}

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("line_items[0][quantity]", strconv.Itoa(params.Quantity))
	form.Set("metadata[order_id]", params.OrderID)
	form.Set("metadata[environment]", params.Environment)
	form.Set("expires_at", strconv.FormatInt(params.ExpiresAt.Unix(), 10))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code for POST /v1/checkout/sessions: %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return &session, nil
}

var _ Gateway = (*Client)(nil)
