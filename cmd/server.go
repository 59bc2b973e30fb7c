package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/appclacks/sloreport/config"
	"github.com/appclacks/sloreport/internal/database"
	"github.com/appclacks/sloreport/internal/http"
	"github.com/appclacks/sloreport/internal/http/handlers"
	"github.com/appclacks/sloreport/internal/tracing"
	"github.com/appclacks/sloreport/pkg/notifier"
	"github.com/appclacks/sloreport/pkg/slo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func buildServerCmd() *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Runs the HTTP server and the periodic SLO report job",
		Run: func(cmd *cobra.Command, args []string) {
			logger := buildLogger(logLevel, logFormat, os.Stdout)
			err := runServer(logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}

		},
	}
	return serverCmd
}

// buildNotifier returns a nil notifier when no webhook is configured.
func buildNotifier(logger *slog.Logger, cfg *config.Configuration) (slo.Notifier, error) {
	if cfg.Notifier == nil {
		return nil, nil
	}
	return notifier.New(logger, *cfg.Notifier)
}

func runServer(logger *slog.Logger) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	shutdownTracing, err := tracing.Setup(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("fail to stop tracing: %s", err.Error()))
		}
	}()
	store, err := database.New(logger, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	webhook, err := buildNotifier(logger, cfg)
	if err != nil {
		return err
	}
	registry := prometheus.DefaultRegisterer.(*prometheus.Registry)
	sloService, err := slo.New(logger, store, cfg.Report, registry, webhook)
	if err != nil {
		return err
	}
	handlersBuilder := handlers.NewBuilder(sloService)
	server, err := http.NewServer(logger, cfg.HTTP, registry, handlersBuilder)
	if err != nil {
		return err
	}
	signals := make(chan os.Signal, 1)
	errChan := make(chan error)

	signal.Notify(
		signals,
		syscall.SIGINT,
		syscall.SIGTERM)

	sloService.Start()
	server.Start()
	go func() {
		for sig := range signals {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Info(fmt.Sprintf("received signal %s, starting shutdown", sig))
				signal.Stop(signals)
				sloService.Stop()
				errChan <- server.Stop()
				return
			}

		}
	}()
	exitErr := <-errChan
	return exitErr
}
