// Package httpapi assembles the HTTP surface: the Connect services, the CSV
// downloads, health and metrics.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/auth"
	"github.com/mmynk/splitbook/internal/ledger"
	"github.com/mmynk/splitbook/internal/metrics"
	"github.com/mmynk/splitbook/internal/middleware"
	"github.com/mmynk/splitbook/internal/service"
	"github.com/mmynk/splitbook/pkg/api/apiconnect"
)

// Options wires the router to its collaborators.
type Options struct {
	Ledger        *ledger.Service
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Resolver      auth.PrincipalResolver
	Logger        *slog.Logger

	// Metrics and Gatherer are optional. Without a Gatherer /metrics is not served.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	AllowedOrigins []string
}

// NewRouter builds the root handler.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms", "Content-Disposition"},
		MaxAge:         300,
	}))

	logging := middleware.LoggingInterceptor(logger, opts.Metrics)
	public := connect.WithInterceptors(logging)
	protected := connect.WithInterceptors(logging, middleware.RequireAuth(opts.Resolver))

	r.Mount(apiconnect.NewAuthServiceHandler(service.NewAuthService(opts.Authenticator, opts.JWT, logger), public))
	r.Mount(apiconnect.NewUserServiceHandler(service.NewUserService(opts.Ledger, logger), protected))
	r.Mount(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(opts.Ledger, logger), protected))

	downloads := &downloadHandler{ledger: opts.Ledger, logger: logger}
	r.Route("/api/v1/expenses/download/balance_sheet", func(r chi.Router) {
		r.Use(middleware.RequireAuthHTTP(opts.Resolver))
		r.Get("/current_user", downloads.currentUser)
		r.Get("/overall", downloads.overall)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// statusFor maps ledger errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeLedgerError(logger *slog.Logger, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		err = errors.New("internal error")
	}
	middleware.WriteError(w, status, err)
}
