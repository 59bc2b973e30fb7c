package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/appclacks/sloreport/config"
	"github.com/appclacks/sloreport/internal/database"
	"github.com/appclacks/sloreport/internal/tracing"
	"github.com/appclacks/sloreport/pkg/report"
	"github.com/appclacks/sloreport/pkg/slo"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	input  string
	format string
	notify bool
}

func buildReportCmd() *cobra.Command {
	var options reportOptions
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generates a SLO report once and prints it",
		Run: func(cmd *cobra.Command, args []string) {
			// stdout is reserved for the report
			logger := buildLogger(logLevel, logFormat, os.Stderr)
			cfg, err := config.Load(configFile)
			if err == nil {
				err = runReport(cmd.Context(), logger, cfg, options, cmd.OutOrStdout())
			}
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}
		},
	}
	reportCmd.Flags().StringVarP(&options.input, "input", "i", "", "Evaluate the records of this YAML or JSON file instead of the database ones")
	reportCmd.Flags().StringVarP(&options.format, "format", "f", "markdown", "Report format (markdown, json)")
	reportCmd.Flags().BoolVar(&options.notify, "notify", false, "Send the breach notification if SLOs are failing")
	return reportCmd
}

func runReport(ctx context.Context, logger *slog.Logger, cfg *config.Configuration, options reportOptions, out io.Writer) error {
	if options.format != "markdown" && options.format != "json" {
		return fmt.Errorf("unknown report format %s (expected markdown or json)", options.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("fail to stop tracing: %s", err.Error()))
		}
	}()

	var webhook slo.Notifier
	if options.notify {
		if cfg.Notifier == nil {
			return fmt.Errorf("--notify requires a notifier section in the configuration")
		}
		webhook, err = buildNotifier(logger, cfg)
		if err != nil {
			return err
		}
	}

	var store slo.Store
	if options.input == "" {
		db, err := database.New(logger, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
	}
	service, err := slo.New(logger, store, cfg.Report, prometheus.NewRegistry(), webhook)
	if err != nil {
		return err
	}

	var result *aggregates.Report
	if options.input != "" {
		data, err := os.ReadFile(options.input)
		if err != nil {
			return fmt.Errorf("fail to read records file: %w", err)
		}
		records, err := slo.LoadRecords(data)
		if err != nil {
			return err
		}
		result, err = service.Evaluate(ctx, records)
		if err != nil {
			return err
		}
	} else {
		result, err = service.Report(ctx)
		if err != nil {
			return err
		}
	}

	if options.format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		if _, err := io.WriteString(out, report.Markdown(result)); err != nil {
			return err
		}
	}
	service.Publish(ctx, result)
	return nil
}
