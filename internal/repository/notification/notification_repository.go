package notification

import (
	"context"
	"dynamicPricing/pkg/logger"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"
)

type WebhookConfig struct {
	AlertWebhookURL        string
	AlertBasicAuthUsername string
	AlertBasicAuthPassword string
}

// WebhookRepository posts operational alerts to the ops webhook. Audit-write
// failures and broken cycles land here so someone sees them.
type WebhookRepository struct {
	webhookConfig WebhookConfig
}

func NewWebhookRepository(cfg WebhookConfig) *WebhookRepository {
	return &WebhookRepository{
		cfg,
	}
}

type alertPayload struct {
	Severity  string `json:"severity"`
	Component string `json:"component"`
	Message   string `json:"message"`
	Detail    string `json:"detail"`
	Timestamp string `json:"timestamp"`
}

func (r WebhookRepository) SendAlert(ctx context.Context, severity, component, message, detail string) (err error) {
	if r.webhookConfig.AlertWebhookURL == "" {
		// alerting disabled, keep a trace in the logs
		logger.Warn("Alert webhook disabled, dropping alert",
			"severity", severity,
			"component", component,
			"message", message,
		)
		return nil
	}

	payload := alertPayload{
		Severity:  severity,
		Component: component,
		Message:   message,
		Detail:    detail,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookConfig.AlertWebhookURL, strings.NewReader(string(payloadByte)))
	if err != nil {
		return err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.webhookConfig.AlertBasicAuthUsername + ":" + r.webhookConfig.AlertBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(res.Body)
	logger.Error("Alert webhook negative response", "status", res.StatusCode, "body", string(bodyBytes))

	return fmt.Errorf("alert webhook returned negative response %v", res.StatusCode)
}
