package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news_mcp/internal/config"
	"news_mcp/internal/logger"
	"news_mcp/internal/metrics"
	"news_mcp/internal/news"
	"news_mcp/internal/server"
	"news_mcp/internal/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const tracingShutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fetch_news tool over stdio or streamable HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("transport", "", "Override transport: stdio or http")
	cmd.Flags().String("addr", "", "Override HTTP listen address")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout в режиме stdio занят кадрами протокола.
	logOut := io.Writer(os.Stdout)
	if cfg.Server.Transport == config.TransportStdio {
		logOut = os.Stderr
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format, logOut)
	defer logger.Log.Info("Application stopped")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Environment, version)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("Tracing shutdown failed")
		}
	}()

	database, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Error("DB connection error")
		return err
	}
	defer database.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tool := news.NewFetchNewsTool(database, news.WithMetrics(metrics.New(reg)))
	srv := server.NewServer(database, tool,
		server.WithVersion(version),
		server.WithGatherer(reg),
	)

	logger.Log.WithFields(logger.Fields{
		"transport":   cfg.Server.Transport,
		"table":       database.Table(),
		"environment": cfg.Environment,
		"version":     version,
	}).Info("Starting news MCP server")

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		err = srv.ListenHTTP(ctx, cfg.Server.Addr)
	default:
		err = srv.RunStdio(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Log.Info("Shutting down...")
	return nil
}
