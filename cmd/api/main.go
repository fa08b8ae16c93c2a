package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumeskin/clinic-platform/internal/api/router"
	"github.com/lumeskin/clinic-platform/internal/assistant"
	"github.com/lumeskin/clinic-platform/internal/catalog"
	appconfig "github.com/lumeskin/clinic-platform/internal/config"
	"github.com/lumeskin/clinic-platform/internal/dashboard"
	"github.com/lumeskin/clinic-platform/internal/http/handlers"
	"github.com/lumeskin/clinic-platform/internal/observability/metrics"
	"github.com/lumeskin/clinic-platform/internal/session"
	"github.com/lumeskin/clinic-platform/internal/webchat"
	"github.com/lumeskin/clinic-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		// Tokens signed with an ephemeral secret die with the process,
		// which is fine for local development.
		sessionSecret = randomSecret()
		logger.Warn("SESSION_SECRET not set, using an ephemeral secret")
	}

	cat, err := catalog.Load(cfg.ProductCatalogPath, cfg.DoctorCatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	store := session.NewStore()
	store.SeedAppointments(session.Appointment{
		ID:          "a1",
		PatientID:   "patient_jane",
		PatientName: "Jane Doe",
		DoctorID:    "d1",
		DoctorName:  "Dr. Sarah Smith",
		Date:        "2024-06-20",
		Time:        "09:00",
		Status:      session.StatusConfirmed,
	})

	gateway, err := assistant.NewFromConfig(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize assistant gateway", "error", err)
		os.Exit(1)
	}
	gateway = assistant.WithTimeout(gateway, cfg.AssistantTimeout)
	transcript := assistant.NewTranscript()

	clinicMetrics := metrics.NewClinicMetrics(nil)

	dashboards := dashboard.All(dashboard.Deps{
		Store:      store,
		Catalog:    cat,
		Gateway:    gateway,
		Transcript: transcript,
		Metrics:    clinicMetrics,
		Logger:     logger,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		AuthHandler:        handlers.NewAuthHandler(store, sessionSecret, logger),
		CatalogHandler:     handlers.NewCatalogHandler(cat),
		WebChatHandler:     webchat.NewHandler(gateway, transcript, logger),
		Dashboards:         dashboards,
		SessionSecret:      sessionSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "provider", gateway.Provider())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

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
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
