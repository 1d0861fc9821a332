// Package gateway talks to the hosted-checkout payment gateway over
// its REST API. The gateway has no Go SDK; requests are plain JSON
// with client credentials in headers.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Currency is fixed for every order; amounts are rupee decimals.
const Currency = "INR"

// PlaceholderPhone is sent for every customer. The contribution flow
// collects a name only, but the gateway requires a phone field.
const PlaceholderPhone = "9999999999"

// PaymentSuccess is the payment_status value that confirms money was
// captured. Every other status leaves the ledger untouched.
const PaymentSuccess = "SUCCESS"

type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	// AppURL is the public base URL the gateway redirects back to.
	AppURL string
}

// Validate reports whether enough configuration exists to call the
// gateway at all.
func (c Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.BaseURL == "" || c.AppURL == "" {
		return fmt.Errorf("payment gateway not configured")
	}
	return nil
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// OrderRequest is the gateway's order-creation payload.
type OrderRequest struct {
	OrderID       string          `json:"order_id"`
	OrderAmount   float64         `json:"order_amount"`
	OrderCurrency string          `json:"order_currency"`
	Customer      CustomerDetails `json:"customer_details"`
	Meta          OrderMeta       `json:"order_meta"`
}

type CustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type OrderMeta struct {
	ReturnURL string `json:"return_url"`
}

// NewOrderRequest fills in the fixed fields: INR currency, placeholder
// phone, and the return URL with the gateway's {order_id} placeholder
// which the gateway substitutes on redirect.
func NewOrderRequest(cfg Config, orderID string, amount float64, contributor, contributionID string) OrderRequest {
	return OrderRequest{
		OrderID:       orderID,
		OrderAmount:   amount,
		OrderCurrency: Currency,
		Customer: CustomerDetails{
			CustomerID:    contributionID,
			CustomerName:  contributor,
			CustomerPhone: PlaceholderPhone,
		},
		Meta: OrderMeta{
			ReturnURL: cfg.AppURL + "/payment-status?order_id={order_id}",
		},
	}
}

// OrderResult carries the gateway's raw response. The body is kept as
// bytes so a successful response can be forwarded to the caller
// verbatim, session token included.
type OrderResult struct {
	StatusCode int
	Body       []byte
}

func (r *OrderResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorMessage pulls the gateway's error detail out of a non-2xx body,
// falling back to the raw body when it is not the usual shape.
func (r *OrderResult) ErrorMessage() string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return string(r.Body)
}

// CreateOrder posts an order to the gateway. Single attempt, no retry:
// transient gateway failures are the caller's problem to surface.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*OrderResult, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.cfg.ClientID)
	req.Header.Set("x-client-secret", c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	return &OrderResult{StatusCode: resp.StatusCode, Body: body}, nil
}

// VerifySignature checks a webhook's HMAC-SHA256 signature computed
// over timestamp + body and encoded as base64.
func VerifySignature(secret, timestamp string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
