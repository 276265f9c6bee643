package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"care_notification_service/internal/app"
	"care_notification_service/internal/infra/config"
	idb "care_notification_service/internal/infra/database"
	"care_notification_service/internal/infra/dispatch"
	"care_notification_service/internal/infra/logger"
	"care_notification_service/internal/infra/push"
	"care_notification_service/internal/infra/scheduler"
	"care_notification_service/internal/infra/sms"
)

func main() {
	fmt.Println("Care notification dispatcher starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLog := logger.Component("main")
	mainLog.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLog.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLog.Info("Database connection established successfully.")

	obligationRepo := idb.NewPostgresObligationRepository(db)
	contactRepo := idb.NewPostgresContactRepository(db)
	userRepo := idb.NewPostgresUserRepository(db)
	mainLog.Info("Repositories initialized.")

	pushClient := push.NewClient(cfg.VAPIDSubscriber, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)

	// SMS stays nil when Twilio is not configured; the gateway then reports
	// 'skipped' for the channel instead of erroring.
	var smsSender dispatch.SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioPhoneNumber != "" {
		smsSender = sms.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.DispatchTimeout)
		mainLog.Info("SMS transport initialized.")
	} else {
		mainLog.Warn("Twilio credentials not found. SMS functionality will be disabled.")
	}

	gateway := dispatch.NewGateway(pushClient, smsSender, cfg.DispatchRatePerSec, logger.Component("gateway"))

	core := &app.Core{
		Reminders: app.NewReminderService(
			obligationRepo, userRepo, gateway, logger.Component("reminder"),
			cfg.ReminderLead, cfg.DispatchTimeout,
		),
		Missed: app.NewMissedService(
			obligationRepo, userRepo, gateway, logger.Component("missed"),
			cfg.MissedGrace, cfg.DispatchTimeout,
		),
		// Called synchronously by the inbound SOS request path.
		Emergency: app.NewEmergencyService(
			userRepo, contactRepo, gateway, logger.Component("emergency"),
			cfg.FanoutWorkers, cfg.DispatchTimeout,
		),
	}
	mainLog.Info("Dispatch services initialized.")

	dispatchScheduler := scheduler.NewDispatchScheduler(
		core.Reminders,
		core.Missed,
		logger.Component("scheduler"),
		cfg.CronSpecReminderCheck,
		cfg.CronSpecMissedCheck,
	)
	dispatchScheduler.Start()

	mainLog.Info("Application setup complete. Scanners are running.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLog.Info("Shutting down application...")
	dispatchScheduler.Stop()
	mainLog.Info("Application shut down gracefully.")
}
