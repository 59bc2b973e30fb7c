package cmd

import (
	"github.com/spf13/cobra"
)

var configFile string
var logLevel string
var logFormat string

func Run() error {
	rootCmd := &cobra.Command{
		Use:          "sloreport",
		Short:        "SLO trend and categorization reports",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the YAML configuration file")
	err := rootCmd.MarkPersistentFlagRequired("config")
	if err != nil {
		return err
	}
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "Logger log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Logger logs format (text, json)")

	rootCmd.AddCommand(buildServerCmd())
	rootCmd.AddCommand(buildReportCmd())
	return rootCmd.Execute()
}
