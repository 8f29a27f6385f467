// Package whatsapp is the outbound client for the WhatsApp Business Graph
// API: sending text replies and marking incoming messages as read.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
}

func NewClient(baseURL, accessToken, phoneNumberID string) *Client {
	return &Client{
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// IsConfigured reports whether every credential needed to call the API is
// present. An unconfigured client is valid: callers log replies instead of
// sending them.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.accessToken != "" && c.phoneNumberID != ""
}

// SendText delivers a text message to a phone number.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	req := sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
	if err := c.post(ctx, fmt.Sprintf("%s/messages", c.phoneNumberID), req); err != nil {
		return fmt.Errorf("send text to %s: %w", to, err)
	}

	slog.InfoContext(ctx, "Message sent", "to", to, "length", len(body))
	return nil
}

// MarkRead flags an incoming message as read so the sender sees the blue
// checkmarks.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	req := markReadRequest{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}
	if err := c.post(ctx, fmt.Sprintf("%s/messages", c.phoneNumberID), req); err != nil {
		return fmt.Errorf("mark message %s as read: %w", messageID, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, apiBody)
	}

	return nil
}
