package router

import (
	"net/http"
	"strings"

	"wordflow/docs"
	"wordflow/internal/api/v1/handler"
	"wordflow/internal/config"
	"wordflow/internal/metrics"
	"wordflow/internal/middleware"
	"wordflow/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// Deps are the services the HTTP surface is built over.
type Deps struct {
	Config     *config.Config
	Usage      service.UsageService
	Automation service.AutomationService
	Stripe     handler.StripeEventHandler
	DB         handler.Pinger
	Metrics    *metrics.Metrics
	// SchedulerTokenValidator overrides OIDC validation; nil uses Google's.
	SchedulerTokenValidator middleware.TokenValidator
}

func New(d Deps, logger zerolog.Logger) http.Handler {
	cfg := d.Config

	validate := validator.New(validator.WithRequiredStructEnabled())

	automationHandler := handler.NewAutomationHandler(d.Automation, validate, cfg.AutomationAPIKey, cfg.AutomationMaxRetries, logger)
	usageHandler := handler.NewUsageHandler(d.Usage, validate, logger)
	webhookHandler := handler.NewWebhookHandler(d.Stripe, logger)
	healthHandler := handler.NewHealthHandler(d.DB, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	schedulerMiddleware := middleware.SchedulerAuthMiddleware(middleware.SchedulerAuthOptions{
		APIKey:        cfg.AutomationAPIKey,
		Audience:      cfg.SchedulerAudience,
		ExpectedEmail: cfg.SchedulerServiceAccount,
		Validator:     d.SchedulerTokenValidator,
	}, logger)
	limiter := middleware.NewRateLimiter(cfg.UsageRateLimitPerSecond, cfg.UsageRateLimitBurst)

	mux := http.NewServeMux()

	apiV1Mux := http.NewServeMux()
	automationHandler.RegisterRoutes(apiV1Mux, authMiddleware, schedulerMiddleware)
	usageHandler.RegisterRoutes(apiV1Mux, authMiddleware, limiter.Middleware)
	webhookHandler.RegisterRoutes(apiV1Mux)

	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.Handle("GET /metrics", d.Metrics.Handler())
	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			logger.Error().Err(err).Msg("failed to render swagger doc")
			http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	// Redirect /api/* to /v1/* for older clients
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusPermanentRedirect)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.AutomationKeyHeader, middleware.RequestIDHeader},
		AllowCredentials: false,
	})

	return middleware.LoggerMiddleware(logger, d.Metrics)(c.Handler(mux))
}
