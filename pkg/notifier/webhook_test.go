package notifier_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appclacks/sloreport/pkg/notifier"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 {
	return &v
}

func breachReport() *aggregates.Report {
	return &aggregates.Report{
		GeneratedAt:      time.Now().UTC(),
		EvaluationWindow: aggregates.Window7Days,
		HasBreach:        true,
		Failing: []aggregates.Entry{
			{
				Record: aggregates.SLORecord{
					ID:      "checkout",
					Name:    "Checkout",
					Target:  ptr(99.5),
					Windows: [4]*float64{nil, nil, ptr(98.25), nil},
				},
				Category: aggregates.CategoryFailing,
				Trend:    aggregates.TrendInsufficient,
				Severity: aggregates.SeverityNearMiss,
			},
		},
	}
}

func TestNotifyHTTP(t *testing.T) {
	var received map[string]aggregates.Report
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	webhook, err := notifier.New(slog.Default(), notifier.Configuration{URL: server.URL})
	assert.NoError(t, err)
	err = webhook.Notify(context.Background(), breachReport())
	assert.NoError(t, err)
	report := received["report"]
	assert.True(t, report.HasBreach)
	assert.Equal(t, aggregates.Window7Days, report.EvaluationWindow)
	assert.Len(t, report.Failing, 1)
	assert.Equal(t, "checkout", report.Failing[0].Record.ID)
}

func TestNotifySlack(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))
	}))
	defer server.Close()

	webhook, err := notifier.New(slog.Default(), notifier.Configuration{URL: server.URL, Type: notifier.TypeSlack})
	assert.NoError(t, err)
	err = webhook.Notify(context.Background(), breachReport())
	assert.NoError(t, err)
	assert.Equal(t, "*[SLO BREACH]* 1 SLO(s) below target on the 7d window\n• Checkout: 98.250% (target 99.500%, insufficient)", received["text"])
}

func TestNotifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	webhook, err := notifier.New(slog.Default(), notifier.Configuration{URL: server.URL})
	assert.NoError(t, err)
	err = webhook.Notify(context.Background(), breachReport())
	assert.ErrorContains(t, err, "HTTP 502")
}

func TestNewInvalidConfiguration(t *testing.T) {
	_, err := notifier.New(slog.Default(), notifier.Configuration{})
	assert.Error(t, err)
	_, err = notifier.New(slog.Default(), notifier.Configuration{URL: "http://127.0.0.1", Type: "pagerduty"})
	assert.Error(t, err)
	_, err = notifier.New(slog.Default(), notifier.Configuration{URL: "http://127.0.0.1", Timeout: "ten"})
	assert.ErrorContains(t, err, "invalid notifier timeout")
}
