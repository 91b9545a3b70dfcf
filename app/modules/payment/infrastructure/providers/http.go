package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const clientTimeout = 15 * time.Second

// HTTPClient talks to the payment provider's REST API. Both rails are
// served by the same gateway in this deployment, so one client covers both
// the hosted checkout and the order endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var (
	_ CheckoutProvider = (*HTTPClient)(nil)
	_ OrderProvider    = (*HTTPClient)(nil)
)

// NewHTTPClient creates a provider client for the given gateway base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: clientTimeout},
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal provider request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d for %s", resp.StatusCode, path)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return nil
}

// CreateSession opens a hosted checkout session.
func (c *HTTPClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	body := map[string]any{
		"mode":        "payment",
		"amount":      req.Amount.StringFixed(2),
		"currency":    req.Currency,
		"quantity":    req.Quantity,
		"success_url": req.SuccessURL,
		"cancel_url":  req.CancelURL,
		"metadata":    req.Metadata,
	}
	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.post(ctx, "/v1/checkout/sessions", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.URL == "" {
		return nil, fmt.Errorf("provider returned incomplete session")
	}
	return &Session{ID: out.ID, URL: out.URL}, nil
}

// CreateOrder opens a two-step order.
func (c *HTTPClient) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, customID string) (string, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"custom_id": customID,
				"amount": map[string]string{
					"currency_code": currency,
					"value":         amount.StringFixed(2),
				},
			},
		},
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/v2/checkout/orders", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("provider returned empty order id")
	}
	return out.ID, nil
}

// CaptureOrder captures an approved order.
func (c *HTTPClient) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	var out struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			CustomID string `json:"custom_id"`
			Payments struct {
				Captures []struct {
					CustomID string `json:"custom_id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", map[string]any{}, &out); err != nil {
		return nil, err
	}

	customID := ""
	if len(out.PurchaseUnits) > 0 {
		customID = out.PurchaseUnits[0].CustomID
		if customID == "" && len(out.PurchaseUnits[0].Payments.Captures) > 0 {
			customID = out.PurchaseUnits[0].Payments.Captures[0].CustomID
		}
	}
	return &CaptureResult{
		OrderID:  out.ID,
		Status:   out.Status,
		CustomID: customID,
	}, nil
}
