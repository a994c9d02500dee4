package api

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/user/threat-monitor/internal/adapter/api/handler"
	"github.com/user/threat-monitor/internal/adapter/api/middleware"
	"github.com/user/threat-monitor/internal/pkg/config"
)

// NewRouter creates and configures the main HTTP router for the monitor
// service.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	monitor handler.MonitorService,
) http.Handler {
	mux := http.NewServeMux()

	securityHandler := handler.NewSecurityHandler(monitor, logger, cfg.MaxEventSize)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	rateLimit := middleware.RateLimit(limiter, logger)

	mux.Handle("POST /api/security/log", rateLimit(http.HandlerFunc(securityHandler.LogEvent)))
	mux.Handle("GET /api/security/alerts", rateLimit(http.HandlerFunc(securityHandler.RecentAlerts)))
	mux.Handle("GET /api/security/stats", rateLimit(http.HandlerFunc(securityHandler.Stats)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
