package main

import (
	"fmt"
	"os"

	"github.com/raykavin/roadrisk/internal/config"
	"github.com/raykavin/roadrisk/pkg/logger"
	"github.com/raykavin/roadrisk/pkg/logger/logrus"
	"github.com/raykavin/roadrisk/pkg/logger/zerolog"
	"github.com/spf13/cobra"
)

// Global flags
var (
	configFile string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "roadrisk",
		Short:         "Tamil Nadu road accident analysis dashboard",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "roadrisk.yaml", "Config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level override (trace, debug, info, warn, error)")

	rootCmd.AddCommand(buildServeCmd())
	rootCmd.AddCommand(buildReportCmd())
	rootCmd.AddCommand(buildTuneCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger shared by every command
func setup() (*config.AppConfig, logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

func newLogger(cfg config.LogConfig) (logger.Logger, error) {
	if cfg.Backend == config.LogBackendLogrus {
		return logrus.New(logrus.Options{
			Level:      cfg.Level,
			TimeLayout: cfg.TimeLayout,
			Colored:    cfg.Colored,
			JSON:       cfg.JSON,
			Out:        os.Stderr,
		})
	}

	return zerolog.New(zerolog.Options{
		Level:      cfg.Level,
		TimeLayout: cfg.TimeLayout,
		Colored:    cfg.Colored,
		JSON:       cfg.JSON,
		Out:        os.Stderr,
	})
}
