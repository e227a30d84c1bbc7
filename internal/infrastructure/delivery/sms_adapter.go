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

// SMSGatewayAdapter implements the SMSGateway port against an HTTP
// SMS gateway
type SMSGatewayAdapter struct {
	config     *config.SMSConfig
	httpClient *http.Client
}

// NewSMSGatewayAdapter creates a new SMS gateway adapter
func NewSMSGatewayAdapter(cfg *config.SMSConfig) *SMSGatewayAdapter {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &SMSGatewayAdapter{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type smsGatewayRequest struct {
	Sender  string `json:"sender"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send posts the message to the configured SMS gateway
func (a *SMSGatewayAdapter) Send(ctx context.Context, to, text string) error {
	if a.config.APIURL == "" {
		return fmt.Errorf("sms: api_url is not configured")
	}

	body, err := json.Marshal(smsGatewayRequest{
		Sender:  a.config.SenderID,
		To:      to,
		Message: text,
	})
	if err != nil {
		return fmt.Errorf("sms: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms: gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

var _ receipt.SMSGateway = (*SMSGatewayAdapter)(nil)
