package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"billing_notifier/internal/app"
	"billing_notifier/internal/infra/config"
	idb "billing_notifier/internal/infra/database"
	"billing_notifier/internal/infra/email"
	"billing_notifier/internal/infra/logger"
	"billing_notifier/internal/infra/scheduler"
	"billing_notifier/internal/infra/whatsapp"
)

func main() {
	fmt.Println("Billing Notification Service starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.WithField("environment", cfg.Environment).Info("Configuration loaded")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize Repositories
	billingRepo := idb.NewPostgresBillingRepository(db)
	clientRepo := idb.NewPostgresClientRepository(db)
	planRepo := idb.NewPostgresPlanRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	log.Info("Repositories initialized")

	// Initialize Services
	ledger := app.NewLedgerService(notificationRepo, billingRepo, log)
	billingSvc := app.NewBillingService(billingRepo, planRepo, cfg.ReminderWindowDays, log)
	composer := app.NewMessageComposer(cfg.ReminderWindowDays, cfg.OverdueDay1Threshold, cfg.OverdueBlockThreshold)

	// Initialize Channels
	whatsappChannel := whatsapp.NewClient(whatsapp.Config{
		Token:          cfg.WhatsAppToken,
		PhoneID:        cfg.WhatsAppPhoneID,
		BaseURL:        cfg.WhatsAppBaseURL,
		MaxRetries:     cfg.WhatsAppMaxRetries,
		BackoffFactor:  cfg.WhatsAppBackoffFactor,
		RequestTimeout: cfg.WhatsAppRequestTimeout,
	}, ledger, log)
	emailChannel := email.NewChannel(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}, ledger, log)
	log.WithField("whatsapp_enabled", cfg.WhatsAppEnabled).Info("Notification channels initialized")

	routine := app.NewRoutineService(
		billingSvc, clientRepo, composer,
		whatsappChannel, emailChannel, ledger,
		cfg.WhatsAppEnabled, log,
	)

	// Initialize and start the daily trigger
	routineScheduler := scheduler.NewRoutineScheduler(routine, log, cfg.CronSpecDailyRoutine)
	routineScheduler.Start()

	log.Info("Application setup complete")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	routineScheduler.Stop()
	log.Info("Application shut down gracefully")
}
