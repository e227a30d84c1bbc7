package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/infrastructure/config"
)

// MailAPIAdapter implements the MailTransport port against an HTTP
// mail API
type MailAPIAdapter struct {
	config     *config.MailConfig
	httpClient *http.Client
}

// NewMailAPIAdapter creates a new mail API adapter
func NewMailAPIAdapter(cfg *config.MailConfig) *MailAPIAdapter {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &MailAPIAdapter{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type mailAPIRequest struct {
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"html_body"`
	TextBody    string `json:"text_body"`
}

// Send posts the message to the configured mail API
func (a *MailAPIAdapter) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if a.config.APIURL == "" {
		return fmt.Errorf("mail: api_url is not configured")
	}

	body, err := json.Marshal(mailAPIRequest{
		FromAddress: a.config.FromAddress,
		FromName:    a.config.FromName,
		To:          to,
		Subject:     subject,
		HTMLBody:    htmlBody,
		TextBody:    textBody,
	})
	if err != nil {
		return fmt.Errorf("mail: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail: api returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

var _ receipt.MailTransport = (*MailAPIAdapter)(nil)
