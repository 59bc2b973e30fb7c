package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/appclacks/sloreport/internal/validator"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
)

const (
	TypeHTTP  = "http"
	TypeSlack = "slack"
)

type Configuration struct {
	URL     string `validate:"required,url"`
	Type    string `validate:"omitempty,oneof=http slack"`
	Timeout string
}

type Webhook struct {
	logger *slog.Logger
	config Configuration
	client *http.Client
}

func New(logger *slog.Logger, config Configuration) (*Webhook, error) {
	err := validator.Validator.Struct(config)
	if err != nil {
		return nil, err
	}
	timeout := 10 * time.Second
	if config.Timeout != "" {
		timeout, err = time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid notifier timeout %s: %w", config.Timeout, err)
		}
	}
	if config.Type == "" {
		config.Type = TypeHTTP
	}
	return &Webhook{
		logger: logger,
		config: config,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Notify sends the breach notification for report.
func (w *Webhook) Notify(ctx context.Context, report *aggregates.Report) error {
	var payload any
	switch w.config.Type {
	case TypeSlack:
		payload = map[string]string{"text": SlackText(report)}
	default:
		payload = map[string]any{"report": report}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("fail to serialize notification: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("fail to build notification request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := w.client.Do(request)
	if err != nil {
		return fmt.Errorf("fail to send notification: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned HTTP %d", response.StatusCode)
	}
	w.logger.Debug(fmt.Sprintf("breach notification delivered for %d SLO(s)", len(report.Failing)))
	return nil
}

func SlackText(report *aggregates.Report) string {
	lines := []string{
		fmt.Sprintf("*[SLO BREACH]* %d SLO(s) below target on the %s window", len(report.Failing), report.EvaluationWindow),
	}
	for _, entry := range report.Failing {
		record := entry.Record
		value := "N/A"
		if v := record.Value(report.EvaluationWindow); v != nil {
			value = fmt.Sprintf("%.3f%%", *v)
		}
		target := "N/A"
		if record.Target != nil {
			target = fmt.Sprintf("%.3f%%", *record.Target)
		}
		lines = append(lines, fmt.Sprintf("• %s: %s (target %s, %s)", record.Name, value, target, entry.Trend))
	}
	return strings.Join(lines, "\n")
}
