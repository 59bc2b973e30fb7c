package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/appclacks/sloreport/pkg/slo/aggregates"
)

var severityGlyphs = map[aggregates.Severity]string{
	aggregates.SeverityMet:      "✅",
	aggregates.SeverityNearMiss: "⚠️",
	aggregates.SeverityMissed:   "❌",
	aggregates.SeverityUnknown:  "❔",
}

var trendGlyphs = map[aggregates.Trend]string{
	aggregates.TrendImproving:    "↗",
	aggregates.TrendDegrading:    "↘",
	aggregates.TrendStable:       "→",
	aggregates.TrendFluctuating:  "↕",
	aggregates.TrendInsufficient: "–",
}

func formatPercent(v *float64) string {
	if v == nil || *v < 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.3f%%", *v)
}

// escapeCell keeps user supplied names from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func writeSection(b *strings.Builder, title string, entries []aggregates.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s (%d)\n\n", title, len(entries))
	b.WriteString("| SLO | Target | 90d | 30d | 7d | 1d | Status | Trend |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, entry := range entries {
		record := entry.Record
		name := escapeCell(record.Name)
		if len(record.Actions) > 0 {
			name = fmt.Sprintf("%s (%s)", name, escapeCell(strings.Join(record.Actions, ", ")))
		}
		fmt.Fprintf(b, "| %s | %s |", name, formatPercent(record.Target))
		for _, w := range aggregates.Windows() {
			fmt.Fprintf(b, " %s |", formatPercent(record.Value(w)))
		}
		fmt.Fprintf(b, " %s %s | %s %s |\n",
			severityGlyphs[entry.Severity], entry.Severity,
			trendGlyphs[entry.Trend], entry.Trend)
	}
}

// Markdown renders the report, one table per non empty category.
func Markdown(report *aggregates.Report) string {
	var b strings.Builder
	b.WriteString("# SLO report\n\n")
	fmt.Fprintf(&b, "Generated at %s, evaluated on the %s window.\n\n",
		report.GeneratedAt.UTC().Format(time.RFC3339), report.EvaluationWindow)
	if report.HasBreach {
		fmt.Fprintf(&b, "**%d SLO(s) below target.**\n", len(report.Failing))
	} else {
		b.WriteString("All SLOs with data are meeting their target.\n")
	}
	writeSection(&b, "Failing", report.Failing)
	writeSection(&b, "Passing", report.Passing)
	writeSection(&b, "No data", report.NoData)
	return b.String()
}
