package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/appclacks/sloreport/pkg/report"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 {
	return &v
}

func TestMarkdown(t *testing.T) {
	r := &aggregates.Report{
		GeneratedAt:      time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		EvaluationWindow: aggregates.Window7Days,
		HasBreach:        true,
		Failing: []aggregates.Entry{
			{
				Record: aggregates.SLORecord{
					ID:      "checkout",
					Name:    "Checkout | web",
					Target:  ptr(99.5),
					Windows: [4]*float64{ptr(99.7), ptr(99.6), ptr(99.2), nil},
					Actions: []string{"Pay", "Confirm"},
				},
				Category: aggregates.CategoryFailing,
				Trend:    aggregates.TrendDegrading,
				Severity: aggregates.SeverityNearMiss,
			},
		},
		NoData: []aggregates.Entry{
			{
				Record: aggregates.SLORecord{
					ID:   "search",
					Name: "Search",
				},
				Category: aggregates.CategoryNoData,
				Trend:    aggregates.TrendInsufficient,
				Severity: aggregates.SeverityUnknown,
			},
		},
	}
	expected := `# SLO report

Generated at 2026-03-01T08:00:00Z, evaluated on the 7d window.

**1 SLO(s) below target.**

## Failing (1)

| SLO | Target | 90d | 30d | 7d | 1d | Status | Trend |
|---|---|---|---|---|---|---|---|
| Checkout \| web (Pay, Confirm) | 99.500% | 99.700% | 99.600% | 99.200% | N/A | ⚠️ near-miss | ↘ degrading |

## No data (1)

| SLO | Target | 90d | 30d | 7d | 1d | Status | Trend |
|---|---|---|---|---|---|---|---|
| Search | N/A | N/A | N/A | N/A | N/A | ❔ unknown | – insufficient |
`
	assert.Equal(t, expected, report.Markdown(r))
}

func TestMarkdownNoBreach(t *testing.T) {
	r := &aggregates.Report{
		GeneratedAt:      time.Now(),
		EvaluationWindow: aggregates.WindowCurrent,
		Passing: []aggregates.Entry{
			{
				Record:   aggregates.SLORecord{ID: "a", Name: "A", Target: ptr(90), Windows: [4]*float64{nil, nil, nil, ptr(100)}},
				Category: aggregates.CategoryPassing,
				Trend:    aggregates.TrendInsufficient,
				Severity: aggregates.SeverityMet,
			},
		},
	}
	result := report.Markdown(r)
	assert.Contains(t, result, "evaluated on the 1d window")
	assert.Contains(t, result, "All SLOs with data are meeting their target.")
	assert.Contains(t, result, "## Passing (1)")
	assert.Contains(t, result, "| A | 90.000% | N/A | N/A | N/A | 100.000% | ✅ met | – insufficient |")
	assert.False(t, strings.Contains(result, "## Failing"))
	assert.False(t, strings.Contains(result, "## No data"))
}
