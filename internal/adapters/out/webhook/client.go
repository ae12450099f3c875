// Package webhook implements the outbound notification gateway over
// HTTP. The remote endpoint is the external coordinator of restaurant
// responses: assignment responses must reach it before any local state
// changes, and a non-2xx answer fails the whole operation.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

const defaultTimeout = 30 * time.Second

// Client calls the notification endpoint with bearer authentication.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a notification endpoint client.
func NewClient(endpoint string, token string) (*Client, error) {
	if endpoint == "" {
		return nil, errs.NewValueIsRequiredError("endpoint")
	}

	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

type assignmentResponseBody struct {
	OrderID      string  `json:"order_id"`
	RestaurantID string  `json:"restaurant_id"`
	AssignmentID string  `json:"assignment_id"`
	Action       string  `json:"action"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type checkExpiredBody struct {
	Action          string `json:"action"`
	ClientTimestamp string `json:"client_timestamp"`
	TimezoneOffset  int    `json:"timezone_offset"`
}

type endpointResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SendAssignmentResponse forwards a restaurant's accept or reject
// decision to the notification endpoint. A non-2xx response is a hard
// failure carrying the endpoint's own message.
func (c *Client) SendAssignmentResponse(
	ctx context.Context,
	notification ports.AssignmentResponseNotification,
) error {
	body := assignmentResponseBody{
		OrderID:      notification.OrderID.String(),
		RestaurantID: notification.RestaurantID.String(),
		AssignmentID: notification.AssignmentID.String(),
		Action:       notification.Action,
		Latitude:     notification.Latitude,
		Longitude:    notification.Longitude,
	}

	return c.post(ctx, body)
}

// CheckExpired nudges the endpoint to sweep lapsed assignments.
func (c *Client) CheckExpired(ctx context.Context) error {
	now := time.Now()
	_, offsetSeconds := now.Zone()

	body := checkExpiredBody{
		Action:          "check_expired",
		ClientTimestamp: now.UTC().Format(time.RFC3339),
		TimezoneOffset:  offsetSeconds / 60,
	}

	return c.post(ctx, body)
}

func (c *Client) post(ctx context.Context, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification endpoint returned %d: %s", resp.StatusCode, endpointMessage(raw))
	}

	return nil
}

// endpointMessage extracts the endpoint's own error or message from the
// response body, falling back to the raw body when it is not the
// standard envelope.
func endpointMessage(raw []byte) string {
	var envelope endpointResponse
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	return string(raw)
}
