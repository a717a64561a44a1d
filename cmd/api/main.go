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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hh727w/portfolio-api/config"
	"github.com/hh727w/portfolio-api/internal/cache"
	"github.com/hh727w/portfolio-api/internal/handlers"
	"github.com/hh727w/portfolio-api/internal/middleware"
	"github.com/hh727w/portfolio-api/internal/models"
	"github.com/hh727w/portfolio-api/internal/repository"
	"github.com/hh727w/portfolio-api/internal/services"
	"github.com/hh727w/portfolio-api/pkg/circuitbreaker"
	"github.com/hh727w/portfolio-api/pkg/email"
	"github.com/hh727w/portfolio-api/pkg/httpclient"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"github.com/hh727w/portfolio-api/pkg/metrics"
	"github.com/hh727w/portfolio-api/pkg/profiling"
	"github.com/hh727w/portfolio-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// app bundles the handlers and limiters the router needs
type app struct {
	cfg                *config.Config
	contactHandler     *handlers.ContactHandler
	portfolioHandler   *handlers.PortfolioHandler
	healthHandler      *handlers.HealthHandler
	logsHandler        *handlers.LogsHandler
	generalRateLimiter *middleware.RateLimiter
	contactRateLimiter *middleware.RateLimiter
}

// newEmailSender picks the delivery backend: Resend when an API key is set,
// SMTP when a host is set, otherwise a sender that only logs. Real providers
// are wrapped with tracing, metrics and a circuit breaker.
func newEmailSender(cfg *config.Config, httpClient *httpclient.StandardHTTPClient) (email.Sender, error) {
	var (
		sender email.Sender
		err    error
	)

	switch cfg.EmailProvider() {
	case email.ProviderResend:
		sender, err = email.NewResendSender(cfg.Contact.ResendAPIKey, cfg.Contact.ResendBaseURL, httpClient.HTTPClient())
	case email.ProviderSMTP:
		sender, err = email.NewSMTPSender(email.SMTPOptions{
			Host:     cfg.Contact.SMTP.Host,
			Port:     cfg.Contact.SMTP.Port,
			Username: cfg.Contact.SMTP.Username,
			Password: cfg.Contact.SMTP.Password,
		})
	default:
		logger.Warn("No email provider configured; contact messages will only be logged")
		return email.NewLogSender(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s sender: %w", cfg.EmailProvider(), err)
	}

	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("email-" + sender.Name()))
	return email.NewInstrumentedSender(sender, breaker), nil
}

// setupRouter builds the gin engine with global middleware and all routes
func setupRouter(a *app) *gin.Engine {
	cfg := a.cfg
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	api := router.Group("/api")
	// Utility endpoints (not versioned)
	api.GET("/healthcheck", a.generalRateLimiter.Middleware(), a.healthHandler.Healthcheck)
	api.GET("/metrics", a.generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	router.POST(models.ContactPath,
		a.contactRateLimiter.Middleware(),
		middleware.BodySizeLimitMiddleware(cfg.Contact.MaxBodyBytes, handlers.MsgInvalidBody),
		a.contactHandler.Submit,
	)

	v1 := router.Group("/api/v1", a.generalRateLimiter.Middleware())
	v1.GET("/projects", a.portfolioHandler.ListProjects)
	v1.GET("/projects/featured", a.portfolioHandler.FeaturedProjects)
	v1.GET("/projects/:id", a.portfolioHandler.GetProject)
	v1.GET("/experience", a.portfolioHandler.ListExperience)
	v1.GET("/experience/:id", a.portfolioHandler.GetExperience)
	v1.POST("/logs", middleware.BodySizeLimitMiddleware(256*1024, handlers.MsgInvalidBody), a.logsHandler.ReceiveFrontendLogs)

	return router
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting portfolio API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("email_provider", cfg.EmailProvider()),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Options{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)
	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	// Continuous profiling (no-op unless enabled)
	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability.ServiceName, cfg.Server.AppEnv, cfg.Observability.ServiceVersion)
	if err != nil {
		logger.Error("Failed to start profiler", zap.Error(err))
	} else {
		defer stopProfiler()
	}

	// Load the portfolio catalog before accepting requests so the
	// healthcheck only passes once it is in memory
	catalogRepo := repository.NewCatalogRepository()
	if err := catalogRepo.LoadDefault(); err != nil {
		logger.Fatal("Failed to load portfolio catalog", zap.Error(err))
	}
	catalogCache := cache.NewCatalogCache(time.Duration(cfg.Cache.CatalogTTLSeconds) * time.Second)

	// Outbound email
	httpClient := httpclient.NewStandardClient()
	sender, err := newEmailSender(cfg, httpClient)
	if err != nil {
		logger.Fatal("Failed to initialize email sender", zap.Error(err))
	}

	// Initialize services
	contactService := services.NewContactService(cfg, sender)
	catalogService := services.NewCatalogService(catalogRepo, catalogCache)

	// Rate limiters
	generalRateLimiter := middleware.NewRateLimiter(50, 100)
	contactRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.Contact.RateLimitRPS), cfg.Contact.RateLimitBurst)
	defer generalRateLimiter.Stop()
	defer contactRateLimiter.Stop()

	gin.SetMode(cfg.Server.GinMode)
	router := setupRouter(&app{
		cfg:                cfg,
		contactHandler:     handlers.NewContactHandler(contactService),
		portfolioHandler:   handlers.NewPortfolioHandler(catalogService),
		healthHandler:      handlers.NewHealthHandler(catalogService.IsReady),
		logsHandler:        handlers.NewLogsHandler(),
		generalRateLimiter: generalRateLimiter,
		contactRateLimiter: contactRateLimiter,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
