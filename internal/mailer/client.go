package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Email is a single outbound message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// Client talks to a Resend-style transactional email API: bearer API key,
// JSON POST to /emails.
type Client struct {
	apiURL      string
	apiKey      string
	fromAddress string
	httpClient  *http.Client
	logger      *slog.Logger
}

type Config struct {
	APIURL      string
	APIKey      string
	FromAddress string
	SendTimeout time.Duration
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiURL:      config.APIURL,
		apiKey:      config.APIKey,
		fromAddress: config.FromAddress,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (c *Client) Send(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("recipient is required")
	}

	payload := map[string]interface{}{
		"from":    c.fromAddress,
		"to":      []string{email.To},
		"subject": email.Subject,
		"html":    email.HTML,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info("email sent",
		"mail_id", apiResponse.ID,
		"to", email.To,
		"subject", email.Subject)

	return nil
}

// Noop is used when no mail provider is configured; sends are logged and
// dropped.
type Noop struct {
	logger *slog.Logger
}

func NewNoop(logger *slog.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) Send(ctx context.Context, email Email) error {
	n.logger.Info("mailer not configured, dropping email",
		"to", email.To,
		"subject", email.Subject)
	return nil
}
