package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urjavolt/solar-leads-platform/cmd/mainconfig"
	"github.com/urjavolt/solar-leads-platform/internal/api/router"
	appconfig "github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/crm"
	"github.com/urjavolt/solar-leads-platform/internal/delivery"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/internal/notify"
	"github.com/urjavolt/solar-leads-platform/internal/observability/metrics"
	"github.com/urjavolt/solar-leads-platform/internal/relay"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

func main() {
	// Load .env for local development; production injects real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting solar-leads-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"delivery_method", string(cfg.DeliveryMethod()),
	)

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	leadMetrics := metrics.NewLeadMetrics(reg)

	// CRM client for the relay endpoint. Stays nil when the endpoint or key is
	// missing; the relay then answers with a configuration fault.
	var crmClient *crm.Client
	if client, err := crm.New(crm.Config{
		Endpoint: cfg.CRMAPIEndpoint,
		APIKey:   cfg.CRMAPIKey,
		Timeout:  cfg.CRMTimeout,
		Logger:   logger,
	}); err != nil {
		logger.Warn("CRM client not configured", "error", err)
	} else {
		crmClient = client
	}

	// Operator email notifications
	var notifier *notify.Service
	emailSender, err := mainconfig.NewEmailSender(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email sender", "error", err)
		os.Exit(1)
	}
	if emailSender != nil {
		notifier = notify.NewService(emailSender, cfg.NotifyRecipients, logger)
	}

	// Delivery adapters. The submitter picks one per submission based on which
	// CRM settings are present.
	var secondary delivery.SecondaryNotifier
	if formRelay := notify.NewFormRelaySender(notify.FormRelayConfig{
		Endpoint: cfg.FormRelayEndpoint,
		To:       cfg.FormRelayTo,
		Subject:  cfg.FormRelaySubject,
		Redirect: cfg.FormRelayRedirect,
	}, logger); formRelay != nil {
		secondary = formRelay
	}

	relayURL := cfg.RelaySubmitURL
	if relayURL == "" && cfg.PublicBaseURL != "" {
		relayURL = strings.TrimRight(cfg.PublicBaseURL, "/") + "/api/submit"
	}

	adapters := []delivery.Deliverer{
		delivery.NewEmbedDeliverer(),
		delivery.NewWebhookDeliverer(cfg.CRMWebhookURL, secondary, logger),
		delivery.NewServerlessDeliverer(relayURL, logger),
	}
	submitter := delivery.NewSubmitter(cfg.DeliveryMethod, adapters, leadMetrics, logger).
		WithMaxAttempts(cfg.RetryMaxAttempts).
		WithBaseDelay(cfg.RetryBaseDelay)

	// Handlers
	leadsHandler := leads.NewHandler(submitter, logger)
	relayHandler := relay.NewHandler(crmClient, notifier, leadMetrics, cfg.IsProduction(), logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		RelayHandler:       relayHandler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
