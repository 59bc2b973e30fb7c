package slo

import (
	"context"
	"fmt"
	"time"

	"github.com/appclacks/sloreport/pkg/filter"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Records builds one SLORecord per stored SLO, with the achieved
// percentage of each lookback window computed from the aggregated records.
func (s *Service) Records(ctx context.Context) ([]aggregates.SLORecord, error) {
	slos, err := s.store.ListSLOs(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	percents := make(map[string][aggregates.WindowCount]*float64)
	for _, window := range aggregates.Windows() {
		sums, err := s.store.ListAggregatedRecords(ctx, now.Add(-window.Duration()))
		if err != nil {
			return nil, fmt.Errorf("fail to list SLO records for window %s: %w", window, err)
		}
		for _, sum := range sums {
			values := percents[sum.Name]
			values[window] = sum.Percent()
			percents[sum.Name] = values
		}
	}
	result := make([]aggregates.SLORecord, 0, len(slos))
	for _, slo := range slos {
		record := aggregates.SLORecord{
			ID:      slo.ID,
			Name:    slo.Name,
			Target:  slo.Objective,
			Windows: percents[slo.Name],
		}
		if slo.Filter != nil {
			actions, err := filter.Parse(*slo.Filter)
			if err != nil {
				s.logger.Warn(fmt.Sprintf("ignoring invalid filter of SLO %s: %s", slo.Name, err.Error()))
			} else {
				record.Actions = actions
			}
		}
		result = append(result, record)
	}
	return result, nil
}

// Evaluate runs the evaluator on caller supplied records.
func (s *Service) Evaluate(ctx context.Context, records []aggregates.SLORecord) (*aggregates.Report, error) {
	_, span := s.tracer.Start(ctx, "slo.evaluate")
	defer span.End()
	report, err := Evaluate(records, s.config)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.reportCounter.With(prometheus.Labels{"status": "failure"}).Inc()
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("slo.failing", len(report.Failing)),
		attribute.Int("slo.passing", len(report.Passing)),
		attribute.Int("slo.no_data", len(report.NoData)),
	)
	s.updateMetrics(report)
	s.reportCounter.With(prometheus.Labels{"status": "success"}).Inc()
	s.logger.Debug(fmt.Sprintf("SLO report generated: %d failing, %d passing, %d without data", len(report.Failing), len(report.Passing), len(report.NoData)))
	return report, nil
}

// Report fetches the stored SLOs and evaluates them.
func (s *Service) Report(ctx context.Context) (*aggregates.Report, error) {
	ctx, span := s.tracer.Start(ctx, "slo.report")
	defer span.End()
	records, err := s.Records(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.reportCounter.With(prometheus.Labels{"status": "failure"}).Inc()
		return nil, err
	}
	return s.Evaluate(ctx, records)
}

// Publish sends the breach notification when the report has failing SLOs.
// Delivery errors are logged, never returned.
func (s *Service) Publish(ctx context.Context, report *aggregates.Report) {
	if !report.HasBreach || s.notifier == nil {
		return
	}
	s.logger.Info(fmt.Sprintf("%d SLO(s) below target, sending breach notification", len(report.Failing)))
	err := s.notifier.Notify(ctx, report)
	if err != nil {
		s.logger.Error(fmt.Sprintf("fail to send breach notification: %s", err.Error()))
		s.notificationCounter.With(prometheus.Labels{"status": "failure"}).Inc()
		return
	}
	s.notificationCounter.With(prometheus.Labels{"status": "success"}).Inc()
}

func (s *Service) updateMetrics(report *aggregates.Report) {
	s.windowGauge.Reset()
	s.breachGauge.Reset()
	for _, entry := range report.Entries() {
		record := entry.Record
		for _, window := range aggregates.Windows() {
			if v := record.Value(window); v != nil {
				s.windowGauge.With(prometheus.Labels{"id": record.ID, "name": record.Name, "window": window.String()}).Set(*v)
			}
		}
		breached := 0.0
		if entry.Category == aggregates.CategoryFailing {
			breached = 1
		}
		s.breachGauge.With(prometheus.Labels{"id": record.ID, "name": record.Name}).Set(breached)
	}
}
