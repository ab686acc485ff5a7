package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// HTTPProvider posts a templated message to an SMS gateway
type HTTPProvider struct {
	config *Config
	client *http.Client
}

func NewHTTPProvider(config *Config) *HTTPProvider {
	return &HTTPProvider{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (p *HTTPProvider) SendCode(ctx context.Context, phoneNumber, code string) error {
	payload := map[string]any{
		"mobile":     phoneNumber,
		"templateId": p.config.TemplateID,
		"parameters": []map[string]string{
			{"name": "Code", "value": code},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &SMSError{Type: ErrTypeValidation, Message: "invalid payload", Cause: err}
	}

	return retry(ctx, p.config.MaxRetries, p.config.RetryDelay, func(ctx context.Context) error {
		return p.send(ctx, body)
	})
}

func (p *HTTPProvider) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return &SMSError{Type: ErrTypeConfig, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.config.AccessKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return &SMSError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode == http.StatusTooManyRequests {
		return &SMSError{Type: ErrTypeRateLimit, Code: resp.StatusCode, Message: "rate limit exceeded"}
	}

	return &SMSError{Type: ErrTypeProvider, Code: resp.StatusCode, Message: string(responseBody)}
}

// retry runs fn up to attempts times, waiting delay between tries
func retry(ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var smsErr *SMSError
		if errors.As(err, &smsErr) && !smsErr.retryable() {
			return err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return lastErr
}
