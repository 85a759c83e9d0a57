// Package server assembles the HTTP router and middleware chain.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	accounthandler "github.com/kytseng/bankbook/internal/domain/account/handler"
	exporthandler "github.com/kytseng/bankbook/internal/domain/export/handler"
	importhandler "github.com/kytseng/bankbook/internal/domain/import/handler"
	transactionhandler "github.com/kytseng/bankbook/internal/domain/transaction/handler"
	"github.com/kytseng/bankbook/pkg/config"
)

// New assembles the router: middleware chain, import endpoints, account and
// transaction CRUD, export download, metrics and health probes.
func New(
	cfg *config.Config,
	importH *importhandler.Handler,
	accountH *accounthandler.Handler,
	transactionH *transactionhandler.Handler,
	exportH *exporthandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	router.Use(rateLimit(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst))

	router.Route("/api", func(r chi.Router) {
		importH.Routes(r)

		r.Route("/accounts", accountH.Routes)

		r.Route("/transactions", func(r chi.Router) {
			exportH.Routes(r)
			transactionH.Routes(r)
		})
	})

	if cfg.Observability.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return router
}

// rateLimit applies a process-wide token bucket to all API traffic.
func rateLimit(perSecond, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
