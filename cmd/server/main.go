package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmendes/studytrack/internal/api"
	"github.com/lmendes/studytrack/internal/cloud"
	"github.com/lmendes/studytrack/internal/config"
	"github.com/lmendes/studytrack/internal/db"
	"github.com/lmendes/studytrack/internal/jobs"
	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/notify"
	"github.com/lmendes/studytrack/internal/repository/sqlite"
	"github.com/lmendes/studytrack/internal/scheduler"
	"github.com/lmendes/studytrack/internal/services"
	"github.com/lmendes/studytrack/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyTrack Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("scheduling_policy=%s", cfg.SchedulingPolicy)
	log.Debug("notify_hour=%d", cfg.NotifyHour)
	log.Debug("due_check_interval=%s", cfg.DueCheckInterval)
	log.Debug("email_followup_delay=%s", cfg.EmailFollowupDelay)
	log.Debug("notify_worker_count=%d", cfg.NotifyWorkerCount)
	log.Debug("notify_queue_size=%d", cfg.NotifyQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	subjectRepo := sqlite.NewSubjectRepository(database.DB)
	notificationRepo := sqlite.NewNotificationRepository(database.DB)
	contactRepo := sqlite.NewContactRepository(database.DB)

	// Notification providers; nil when not configured
	var sms notify.SMSSender
	if cfg.SMSEnabled() {
		sms = notify.NewTwilioClient(cfg.TwilioSID, cfg.TwilioAuthToken, cfg.TwilioPhone)
	} else {
		log.Warn("Twilio not configured, SMS disabled")
	}
	var email notify.EmailSender
	if cfg.EmailEnabled() {
		email = notify.NewSendGridClient(cfg.SendGridAPIKey, cfg.SenderEmail)
	} else {
		log.Warn("SendGrid not configured, follow-up email disabled")
	}

	var mirror cloud.MirrorStore
	if cfg.CloudSyncEnabled() {
		mirror = cloud.NewRedisMirror(cfg.RedisAddr)
	} else {
		log.Info("no cloud store configured, running in local mode")
	}

	// Worker pool for deferred notification jobs
	notifyPool := worker.NewPool(cfg.NotifyWorkerCount, cfg.NotifyQueueSize)

	// Services
	policy := scheduler.ForName(cfg.SchedulingPolicy)
	log.Info("scheduling policy: %s", policy.Name())
	subjectService := services.NewSubjectService(subjectRepo, policy)
	notificationService := services.NewNotificationService(
		notificationRepo, contactRepo, subjectService,
		sms, email, notifyPool, cfg.EmailFollowupDelay,
	)
	cloudSyncService := services.NewCloudSyncService(mirror, subjectService, contactRepo)

	srv := api.NewServer(
		subjectService,
		notificationService,
		cloudSyncService,
		contactRepo,
		database,
		mirror,
		policy.Name(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	notifyPool.Start(ctx)

	// Recurring triggers: daily notification plus the periodic due check
	jobScheduler := jobs.NewScheduler(notificationService, cfg.NotifyHour, cfg.DueCheckInterval)
	if err := jobScheduler.Start(ctx); err != nil {
		log.Error("failed to start job scheduler: %v", err)
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background jobs")
	jobScheduler.Stop()
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping notification pool")
	notifyPool.Stop()

	log.Info("===========================================")
	log.Info("StudyTrack Server Stopped")
	log.Info("===========================================")
}
