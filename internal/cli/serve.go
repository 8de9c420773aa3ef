package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/orderreport/internal/api"
	"github.com/noah-isme/orderreport/internal/config"
	"github.com/noah-isme/orderreport/internal/health"
	"github.com/noah-isme/orderreport/internal/obs"
	"github.com/noah-isme/orderreport/internal/security"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		src  sourceFlags
		port string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report over HTTP",
		Long:  "Run an HTTP server that prices the current input tables on every report request and exposes health and Prometheus endpoints.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			src.apply(cfg)
			if port != "" {
				cfg.Port = port
			}

			logger := newLogger(cmd, cfg)
			stopTracing := startTracing(cmd.Context(), cfg, logger)
			defer stopTracing()

			srv, err := newServer(cfg, logger, prometheus.NewRegistry())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listen(ctx, srv, logger)
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT or 8080)")
	return cmd
}

func newServer(cfg *config.Config, logger zerolog.Logger, reg *prometheus.Registry) (*http.Server, error) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.MetricsBuckets), reg)
	reportMetrics := obs.NewReportMetrics(cfg.Obs.MetricsNamespace, reg)

	svc, err := newService(cfg, logger, reportMetrics)
	if err != nil {
		return nil, err
	}

	handler := api.NewRouter(api.RouterConfig{
		Report:         &api.ReportHandler{Runner: svc},
		Health:         health.Handler{Checker: svc.Loader},
		Logger:         logger,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		AllowedOrigins: cfg.AllowedOrigins(),
		Security:       security.Headers{HSTS: cfg.Security.HSTS, HSTSMaxAge: cfg.Security.HSTSMaxAge},
		Tracing:        cfg.Obs.EnableTracing,
	})
	return &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// listen serves until ctx is done, then drains in-flight requests.
func listen(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server exited unexpectedly: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	health.SetReady(false)
	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-errCh
}
