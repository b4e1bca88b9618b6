package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/actionbridge"
	"github.com/aretw0/actionbridge/internal/presentation/tui"
	bridgehttp "github.com/aretw0/actionbridge/pkg/adapters/http"
	"github.com/aretw0/actionbridge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the sample application together with the evaluation endpoint,
health and info routes, and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := settings(cmd)
		if err != nil {
			return err
		}

		var extra []actionbridge.Option
		routerOpts := []bridgehttp.RouterOption{bridgehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Metrics {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			extra = append(extra, actionbridge.WithHooks(observability.NewMetrics(reg).Hooks()))
			routerOpts = append(routerOpts, bridgehttp.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}

		bridge, err := newBridge(cfg, logger, extra...)
		if err != nil {
			return err
		}
		handler, err := bridge.Router(routerOpts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(os.Stderr, srv.Addr)
			logger.Info("server starting", "listen", srv.Addr, "endpoint", cfg.Endpoint, "base_path", cfg.BasePath)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown started")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("close server: %w", err)
				}
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", ":8080", "Address to listen on")
	serveCmd.Flags().String("endpoint", bridgehttp.DefaultEndpoint, "Route accepting evaluation requests")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
}
