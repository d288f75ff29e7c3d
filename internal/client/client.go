// Package client is a thin typed wrapper over the subscription API. It never
// recomputes server-derived fields; it decodes what the server sent and
// surfaces failures through the error types in errors.go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"subtrack/internal/models"
)

// Client issues requests against one subscription API server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithAPIKey attaches the shared key sent on every request.
func (c *Client) WithAPIKey(key string) *Client {
	c.apiKey = key
	return c
}

// CreateRequest is the creation form payload.
type CreateRequest struct {
	Name             string   `json:"name"`
	Cost             float64  `json:"cost"`
	BillingCycle     string   `json:"billing_cycle"`
	StartDate        string   `json:"start_date"`
	AnnualCostOption *float64 `json:"annual_cost_option,omitempty"`
}

// Summary is the server-computed dashboard shortcut.
type Summary struct {
	TotalMonthlySpend float64 `json:"total_monthly_spend"`
}

// List fetches all subscriptions. It tolerates both response shapes the API
// has been seen to produce, a bare array and {"results": [...]}; anything
// else is a DataShapeError.
func (c *Client) List(ctx context.Context) ([]models.SubscriptionView, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/subscriptions/", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw)
}

// Create adds a new subscription and returns the server's record of it.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*models.SubscriptionView, error) {
	var view models.SubscriptionView
	if err := c.do(ctx, http.MethodPost, "/subscriptions/", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdatePrice changes the cost and billing cycle of one subscription.
func (c *Client) UpdatePrice(ctx context.Context, id uint, cost float64, billingCycle string) (*models.SubscriptionView, error) {
	body := map[string]interface{}{
		"cost":          cost,
		"billing_cycle": billingCycle,
	}
	var view models.SubscriptionView
	path := fmt.Sprintf("/subscriptions/%d/update-price/", id)
	if err := c.do(ctx, http.MethodPost, path, body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Delete removes one subscription.
func (c *Client) Delete(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/subscriptions/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// History fetches the price changes of one subscription, oldest first.
func (c *Client) History(ctx context.Context, id uint) ([]models.PriceHistoryView, error) {
	var entries []models.PriceHistoryView
	path := fmt.Sprintf("/subscriptions/%d/history/", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DashboardSummary fetches the server-computed total monthly spend.
func (c *Client) DashboardSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, http.MethodGet, "/dashboard-summary/", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// decodeList resolves the two accepted list shapes into a slice.
func decodeList(raw json.RawMessage) ([]models.SubscriptionView, error) {
	var subs []models.SubscriptionView
	if err := json.Unmarshal(raw, &subs); err == nil {
		return subs, nil
	}

	var wrapped struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Results != nil {
		if err := json.Unmarshal(wrapped.Results, &subs); err == nil {
			return subs, nil
		}
	}

	return nil, &DataShapeError{Got: snippet(raw)}
}

// errorEnvelope is the server's failure payload
type errorEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Errors  models.FieldErrors `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeError maps a non-success status onto the client error taxonomy.
func decodeError(status int, data []byte) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(data, &envelope)

	message := envelope.Message
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusNotFound:
		return &NotFoundError{Message: message}
	case len(envelope.Errors) > 0:
		return &ValidationError{Fields: envelope.Errors}
	default:
		return &APIError{StatusCode: status, Message: message}
	}
}

// snippet truncates a payload for error messages
func snippet(raw []byte) string {
	const max = 120
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
