package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/recipe-keeper/internal/server"
	"github.com/jonathan/recipe-keeper/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing POST /recipes/preview, GET /health and GET /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("failed to release resources", "err", err)
		}
	}()

	port := a.cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	srv := server.New(server.Config{
		Port:            port,
		AllowedOrigins:  a.cfg.Server.AllowedOrigins,
		RequestTimeout:  a.cfg.Server.RequestTimeout,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		RateLimit:       ratelimit.FromConfig(a.cfg.RateLimit),
	}, a.fetcher, a.logger, a.metrics)

	return srv.Start(ctx)
}
