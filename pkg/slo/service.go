package slo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Store interface {
	CreateSLO(ctx context.Context, slo aggregates.SLO) error
	GetSLO(ctx context.Context, id string) (*aggregates.SLO, error)
	GetSLOByName(ctx context.Context, name string) (*aggregates.SLO, error)
	ListSLOs(ctx context.Context) ([]*aggregates.SLO, error)
	DeleteSLO(ctx context.Context, id string) error
	ListAggregatedRecords(ctx context.Context, threshold time.Time) ([]*aggregates.SLOSum, error)
	AddRecord(ctx context.Context, record aggregates.Record) error
}

type Notifier interface {
	Notify(ctx context.Context, report *aggregates.Report) error
}

type Service struct {
	logger   *slog.Logger
	store    Store
	config   Config
	notifier Notifier
	tracer   trace.Tracer

	windowGauge         *prometheus.GaugeVec
	breachGauge         *prometheus.GaugeVec
	reportCounter       *prometheus.CounterVec
	notificationCounter *prometheus.CounterVec

	wg     sync.WaitGroup
	stop   chan bool
	ticker *time.Ticker
}

// New builds the service. store may be nil when records are only
// evaluated from caller input, notifier may be nil to disable breach
// notifications.
func New(logger *slog.Logger, store Store, config Config, registry *prometheus.Registry, notifier Notifier) (*Service, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}
	windowGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slo_window_percent",
			Help: "Achieved percentage of the SLO over the window",
		},
		[]string{"id", "name", "window"})
	breachGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slo_breached",
			Help: "1 if the SLO is below its target on the evaluation window, 0 otherwise",
		},
		[]string{"id", "name"})
	reportCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slo_report_executions_total",
			Help: "Count the number of SLO report executions",
		},
		[]string{"status"})
	notificationCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slo_breach_notifications_total",
			Help: "Count the number of breach notifications sent",
		},
		[]string{"status"})
	for _, collector := range []prometheus.Collector{windowGauge, breachGauge, reportCounter, notificationCounter} {
		err := registry.Register(collector)
		if err != nil {
			return nil, err
		}
	}
	return &Service{
		logger:              logger,
		store:               store,
		config:              config,
		notifier:            notifier,
		tracer:              otel.Tracer("github.com/appclacks/sloreport/pkg/slo"),
		windowGauge:         windowGauge,
		breachGauge:         breachGauge,
		reportCounter:       reportCounter,
		notificationCounter: notificationCounter,
		stop:                make(chan bool),
	}, nil
}

// Start runs the report job periodically when an interval is configured.
func (s *Service) Start() {
	interval := s.config.ReportInterval()
	if interval == 0 {
		return
	}
	s.logger.Info(fmt.Sprintf("starting the periodic SLO report job every %s", interval))
	s.ticker = time.NewTicker(interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.stop:
				return
			case <-s.ticker.C:
				s.logger.Debug("running the periodic SLO report")
				ctx, cancel := context.WithTimeout(context.Background(), interval/2)
				report, err := s.Report(ctx)
				if err != nil {
					s.logger.Error(fmt.Sprintf("fail to generate the SLO report: %s", err.Error()))
				} else {
					s.Publish(ctx, report)
				}
				cancel()
			}
		}
	}()
}

func (s *Service) Stop() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.stop <- true
	s.wg.Wait()
}
