package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/config"
	"github.com/thelocaljewel/backend/internal/infra/auth"
	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/infra/http/handlers"
	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/infra/mail"
	"github.com/thelocaljewel/backend/internal/infra/queue"
	"github.com/thelocaljewel/backend/internal/infra/worker"
	"github.com/thelocaljewel/backend/internal/logger"
	"github.com/thelocaljewel/backend/internal/usecase"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories
	sessionRepo := database.NewWizardSessionRepository(db)
	leadRepo := database.NewLeadRepository(db)
	userRepo := database.NewUserRepository(db)
	otpRepo := database.NewOTPRepository(db)
	quoteRepo := database.NewQuoteRepository(db)
	orderRepo := database.NewOrderRepository(db)
	eventRepo := database.NewEventRepository(db)
	tokenRepo := database.NewTokenRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	adminRepo := database.NewAdminRepository(db)
	analyticsRepo := database.NewAnalyticsRepository(db)

	tokenService := auth.NewService(tokenRepo)

	// Queue + notification pipeline. The API runs without a broker when
	// AMQP_URL is unset; lead submission then skips the publish.
	var producer usecase.QueueProducer
	rabbitMQ := connectQueue(cfg, log)
	if rabbitMQ != nil {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Ch)

		mailSender := mail.NewEmailSender(
			cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword,
			cfg.MailFrom, cfg.MailNotifyTo,
		)
		notifyWorker := queue.NewWorker(rabbitMQ.Ch, mailSender, settingsRepo, log)
		go func() {
			if err := notifyWorker.Start(ctx, queue.QueueName); err != nil {
				log.Error("notification worker stopped", zap.Error(err))
			}
		}()
	}

	// Usecases
	wizardUC := usecase.NewWizardUseCase(sessionRepo, log)
	submitUC := usecase.NewSubmitLeadUseCase(leadRepo, userRepo, sessionRepo, tokenService, producer, log)
	otpUC := usecase.NewOTPUseCase(userRepo, otpRepo, tokenService, log)
	quoteOrderUC := usecase.NewQuoteOrderUseCase(leadRepo, quoteRepo, orderRepo, log)

	// Handlers
	wizardHandler := handlers.NewWizardHandler(wizardUC)
	leadHandler := handlers.NewLeadHandler(submitUC)
	authHandler := handlers.NewAuthHandler(otpUC, log, cfg.ExposeDevOTP)
	eventHandler := handlers.NewEventHandler(eventRepo, log)
	meHandler := handlers.NewMeHandler(userRepo, leadRepo, orderRepo)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminRepo, tokenService, cfg.AdminEmail, cfg.AdminPassword)
	adminLeadHandler := handlers.NewAdminLeadHandler(leadRepo, quoteRepo, orderRepo)
	quoteHandler := handlers.NewQuoteHandler(quoteOrderUC, quoteRepo)
	orderHandler := handlers.NewOrderHandler(quoteOrderUC, orderRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo, analyticsRepo)

	healthHandler := newHealthHandler(db, rabbitMQ)

	authenticator := middleware.NewAuthenticator(tokenService)

	sweeper := worker.NewExpirySweeper(tokenRepo, otpRepo, log)
	go sweeper.Start(ctx)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/api/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Public storefront surface
	r.Route("/api", func(r chi.Router) {
		r.Post("/wizard/start", wizardHandler.Start)
		r.Post("/wizard/{leadID}/autosave", wizardHandler.Autosave)
		r.Get("/wizard/{leadID}", wizardHandler.Restore)

		r.Post("/leads/submit", leadHandler.SubmitLead)

		r.Post("/auth/request-otp", authHandler.RequestOTP)
		r.Post("/auth/verify-otp", authHandler.VerifyOTP)

		r.Post("/events", eventHandler.LogEvent)

		r.Get("/settings/public", settingsHandler.Public)
	})

	// Customer account surface
	r.Route("/api/me", func(r chi.Router) {
		r.Use(authenticator.RequireCustomer)
		r.Get("/", meHandler.Me)
		r.Get("/leads", meHandler.MyLeads)
		r.Get("/orders", meHandler.MyOrders)
	})

	// Admin CRM surface
	r.Post("/api/admin/login", adminAuthHandler.Login)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authenticator.RequireStaff)
		r.Get("/me", adminAuthHandler.Me)

		r.Get("/leads", adminLeadHandler.List)
		r.Get("/leads/export.csv", adminLeadHandler.ExportCSV)
		r.Get("/leads/export.xlsx", adminLeadHandler.ExportXLSX)
		r.Get("/leads/{leadID}", adminLeadHandler.Detail)
		r.Patch("/leads/{leadID}/status", adminLeadHandler.UpdateStatus)
		r.Post("/leads/{leadID}/notes", adminLeadHandler.AddNote)

		r.Post("/leads/{leadID}/quotes", quoteHandler.Create)
		r.Get("/leads/{leadID}/quotes", quoteHandler.ListByLead)
		r.Patch("/quotes/{quoteID}/status", quoteHandler.UpdateStatus)

		r.Post("/orders", orderHandler.Create)
		r.Get("/orders", orderHandler.List)
		r.Get("/orders/{orderID}", orderHandler.Detail)
		r.Patch("/orders/{orderID}", orderHandler.Update)

		r.Get("/analytics/overview", analyticsHandler.Overview)
		r.Get("/analytics/funnel", analyticsHandler.Funnel)
		r.Get("/analytics/sources", analyticsHandler.Sources)
		r.Get("/analytics/campaigns", analyticsHandler.Campaigns)
		r.Get("/analytics/devices", analyticsHandler.Devices)
		r.Get("/analytics/geo", analyticsHandler.Geo)
		r.Get("/analytics/abandonment", analyticsHandler.Abandonment)

		r.Get("/settings", settingsHandler.GetSite)
		r.Patch("/settings", settingsHandler.UpdateSite)
		r.Get("/settings/tracking", settingsHandler.GetTracking)
		r.Patch("/settings/tracking", settingsHandler.UpdateTracking)
		r.Get("/settings/tracking/verify", settingsHandler.VerifyTracking)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("shutting down", zap.String("signal", sig.String()))

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}

// connectQueue dials RabbitMQ when AMQP_URL is set. With a URL configured, a
// broker outage at startup is fatal.
func connectQueue(cfg *config.Config, log *zap.Logger) *queue.RabbitMQ {
	if cfg.AMQPURL == "" {
		log.Info("AMQP_URL not set, running without lead notifications")
		return nil
	}
	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
	if err != nil {
		log.Fatal("rabbitmq connection failed", zap.Error(err))
	}
	return rabbitMQ
}

func newHealthHandler(db *sql.DB, rabbitMQ *queue.RabbitMQ) *handlers.HealthHandler {
	if rabbitMQ != nil {
		return handlers.NewHealthHandler(db, rabbitMQ.Conn)
	}
	return handlers.NewHealthHandler(db, nil)
}
