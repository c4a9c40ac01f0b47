package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/broadcast"
	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/cancel_scheduled"
	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/health"
	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/list_scheduled"
	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/send_message"
	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/telegram_webhook"
	"github.com/m04kA/SMC-TelegramThread/internal/api/middleware"
	"github.com/m04kA/SMC-TelegramThread/internal/bot"
	"github.com/m04kA/SMC-TelegramThread/internal/config"
	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/infra/storage/chat"
	"github.com/m04kA/SMC-TelegramThread/internal/service/telegram"
	"github.com/m04kA/SMC-TelegramThread/internal/usecase/subscription"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
	"github.com/m04kA/SMC-TelegramThread/pkg/dbmetrics"
	"github.com/m04kA/SMC-TelegramThread/pkg/logger"
	"github.com/m04kA/SMC-TelegramThread/pkg/metrics"
)

func main() {
	// .env необязателен, переменные окружения имеют приоритет над config.toml
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Printf("Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	configPath := config.Path()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-TelegramThread...")
	log.Info("Configuration loaded from %s", configPath)

	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var chatRepo *chat.Repository
	if cfg.Metrics.Enabled {
		chatRepo = chat.NewRepository(dbmetrics.Wrap(db, metricsCollector))
		log.Info("Database metrics collection enabled")
	} else {
		chatRepo = chat.NewRepository(db)
	}

	// Инициализируем Telegram Bot API и поток бота
	thread, err := bot.NewWithToken(cfg.Telegram.BotToken, bot.Options{
		PollTimeout:        time.Duration(cfg.Telegram.PollTimeout) * time.Second,
		RetryDelay:         time.Duration(cfg.Telegram.RetryDelay) * time.Second,
		UpdateLimit:        cfg.Telegram.UpdateLimit,
		DropPendingUpdates: cfg.Telegram.DropPendingUpdates,
		MessagesPerSecond:  cfg.Telegram.MessagesPerSecond,
	}, nil, log, metricsCollector)
	if err != nil {
		log.Fatal("Failed to initialize Telegram Bot API: %v", err)
	}
	telegramSvc := thread.Service()
	thread.SetAlertHandler(newAlertHandler(telegramSvc, cfg.Telegram.AlertChatIDs, log))

	log.Info("Telegram Bot API initialized")

	subscriptionUC := subscription.New(chatRepo, thread, log, metricsCollector)

	webhookMode := cfg.Telegram.WebhookURL != ""
	if webhookMode {
		log.Info("Using Webhook mode")

		if err := telegramSvc.SetWebhook(cfg.Telegram.WebhookURL); err != nil {
			log.Fatal("Failed to set Telegram webhook: %v", err)
		}
		thread.Events().SetCommands(subscriptionUC.Commands(), subscriptionUC.OnUnknownCommand, subscriptionUC.OnNonCommandMessage)
		log.Info("Telegram webhook set to %s", cfg.Telegram.WebhookURL)
	} else {
		log.Info("Using Long Polling mode")

		if err := thread.Start(subscriptionUC.Commands(), subscriptionUC.OnUnknownCommand, subscriptionUC.OnNonCommandMessage); err != nil {
			log.Fatal("Failed to start Telegram thread: %v", err)
		}
	}

	scheduler := worker.NewScheduler(thread, log)
	scheduler.Start()

	// Инициализируем handlers
	healthHandler := health.NewHandler(thread, webhookMode)
	telegramWebhookHandler := telegram_webhook.NewHandler(thread, log)
	sendMessageHandler := send_message.NewHandler(thread, scheduler, log)
	broadcastHandler := broadcast.NewHandler(chatRepo, thread, log)
	listScheduledHandler := list_scheduled.NewHandler(scheduler, log)
	cancelScheduledHandler := cancel_scheduled.NewHandler(scheduler, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	r.HandleFunc("/health", healthHandler.Handle).Methods(http.MethodGet)
	r.HandleFunc("/webhook/telegram", telegramWebhookHandler.Handle).Methods(http.MethodPost)

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/messages", sendMessageHandler.Handle).Methods(http.MethodPost)
	apiRouter.HandleFunc("/broadcast", broadcastHandler.Handle).Methods(http.MethodPost)
	apiRouter.HandleFunc("/messages/scheduled", listScheduledHandler.Handle).Methods(http.MethodGet)
	apiRouter.HandleFunc("/messages/scheduled/{id}", cancelScheduledHandler.Handle).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	// Сначала останавливаем приём обновлений и отложенные отправки
	thread.Stop()
	select {
	case <-thread.Done():
	case <-shutdownCtx.Done():
		log.Warn("Telegram thread did not finish the current update before shutdown timeout")
	}
	scheduler.Stop()
	log.Info("Telegram thread and scheduler stopped")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// newAlertHandler пишет оповещения бота в лог и, если заданы чаты, дублирует их туда
// Отправка идёт напрямую через сервис, а не через Thread: ошибка отправки
// оповещения не должна порождать новое оповещение
func newAlertHandler(svc *telegram.Service, chatIDs []int64, log *logger.Logger) bot.AlertHandler {
	return func(message string) {
		log.Warn("Bot alert: %s", message)

		for _, chatID := range chatIDs {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_, err := svc.SendMessage(ctx, domain.NewOutgoingMessage(chatID, "⚠️ "+message, domain.SendOptions{
				DisableWebPagePreview: true,
			}))
			cancel()

			if err != nil {
				log.Error("Failed to deliver alert to chat %d: %v", chatID, err)
			}
		}
	}
}
