package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitbook/internal/auth"
	"github.com/mmynk/splitbook/internal/httpapi"
	"github.com/mmynk/splitbook/internal/ledger"
	"github.com/mmynk/splitbook/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	cfg := a.cfg
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	a.logger.Info("Storage initialized", "driver", cfg.Database.Driver)

	jwtManager, err := auth.NewJWTManager(cfg.Auth)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	ledgerOpts := []ledger.Option{ledger.WithMetrics(m)}
	if cfg.Split.DistributeRemainder {
		ledgerOpts = append(ledgerOpts, ledger.WithRemainderDistribution())
	}
	l := ledger.New(store, ledgerOpts...)

	handler := httpapi.NewRouter(httpapi.Options{
		Ledger:         l,
		Authenticator:  auth.NewPasswordAuthenticator(store),
		JWT:            jwtManager,
		Resolver:       auth.NewTokenResolver(jwtManager, store),
		Logger:         a.logger,
		Metrics:        m,
		Gatherer:       reg,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// h2c serves HTTP/2 without TLS, which Connect and gRPC clients expect.
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Connect server starting", "address", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
