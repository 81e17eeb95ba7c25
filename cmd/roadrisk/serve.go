package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/roadrisk/pkg/dashboard"
	"github.com/raykavin/roadrisk/pkg/plot"
	"github.com/raykavin/roadrisk/pkg/storage"
	"github.com/spf13/cobra"
)

// Serve command flags
var (
	port  int
	debug bool
)

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides server.port)")
	serveCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Serve the dashboard script unminified")

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}

	builder := dashboard.NewBuilder(log,
		dashboard.WithModelParams(cfg.Model),
		dashboard.WithTrendline(cfg.Dashboard.Trendline),
	)

	options := []plot.Option{
		plot.WithPort(cfg.Server.Port),
		plot.WithDefaultTopN(cfg.Dashboard.DefaultTopN),
	}
	if debug || cfg.Server.Debug {
		options = append(options, plot.WithDebug())
	}

	var cache plot.PageCache
	if cfg.Cache.Enabled {
		ttl, err := cfg.Cache.TTLDuration()
		if err != nil {
			return err
		}

		pageCache, err := storage.NewPageCache(ttl)
		if err != nil {
			return err
		}
		defer pageCache.Close()

		cache = pageCache
		log.WithField("ttl", ttl.String()).Info("Page cache enabled")
	}

	server, err := plot.NewServer(builder, cache, log, options...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}
