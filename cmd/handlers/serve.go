package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"newsblog/internal/logger"
	"newsblog/internal/server"
)

const shutdownTimeout = 30 * time.Second

// NewServeCmd creates the serve command for starting the HTTP API
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the newsblog HTTP API.

Endpoints:
  GET  /health                 health check
  GET  /api/news               ranked candidates (?q=, ?category_id=, ?category=)
  POST /api/posts              generate a post (one at a time)
  POST /api/posts/render       render a posted record (?format=markdown|html|json)

Examples:
  newsblog serve
  newsblog serve --host 0.0.0.0 --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), host, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: localhost)")

	return cmd
}

func runServe(ctx context.Context, host string, port int) error {
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	if err := cfg.ValidateForGeneration(); err != nil {
		return err
	}

	p, generator, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(p, server.Options{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		CORSOrigins:   cfg.Server.CORSOrigins,
		Timeout:       cfg.PipelineTimeout(),
		ImagesEnabled: cfg.Images.UnsplashKey != "" || cfg.Images.PixabayKey != "",
		Model:         generator.ModelName(),
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on http://%s", cfg.Addr()))
		logger.Info("Press Ctrl+C to stop")
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Server shutdown initiated", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", err)
			return err
		}
		logger.Info("Server stopped successfully")
	}
	return nil
}
