package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SMSSender delivers a single SMS message.
type SMSSender interface {
	Send(ctx context.Context, to, message string) error
}

const getOTPSendURL = "https://api.getotp.com/v1/send"

type getOTPSender struct {
	apiKey     string
	appID      string
	httpClient *http.Client
}

// NewGetOTPSender builds an SMSSender backed by the GetOTP send API.
func NewGetOTPSender(apiKey, appID string) SMSSender {
	return &getOTPSender{
		apiKey: apiKey,
		appID:  appID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *getOTPSender) Send(ctx context.Context, to, message string) error {
	payload, err := json.Marshal(map[string]string{
		"app_id":  s.appID,
		"mobile":  to,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal SMS payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, getOTPSendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode SMS response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("SMS provider rejected message to %s: %s", to, result.Message)
	}

	return nil
}
