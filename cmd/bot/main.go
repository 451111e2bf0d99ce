package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mymmrac/telego"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/adapter/httpapi"
	telegramAdapter "github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/adapter/telegram"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/config"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/infra/memory"
	sqliteRepo "github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/infra/sqlite"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/usecase"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		// Единственная фатальная ошибка конфигурации — отсутствие токена.
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	recipients := cfg.Recipients()
	if len(recipients) == 0 {
		log.Warn("ADMIN_CHAT_IDS is empty, notifications will fall back to the origin chat")
	}
	if cfg.FrontendURL == "" {
		log.Warn("FRONTEND_URL is not set, /start will have no catalog button")
	}
	if cfg.ChannelID == 0 {
		log.Warn("CHANNEL_ID is not set, /publish requires /bind first")
	}

	bot, err := telego.NewBot(cfg.BotToken)
	if err != nil {
		log.Error("bot init failed", "error", err)
		os.Exit(1)
	}

	var leadRepo domain.LeadRepository
	if cfg.LeadsSQLiteDSN != "" {
		repo, err := sqliteRepo.NewLeadRepo(cfg.LeadsSQLiteDSN)
		if err != nil {
			log.Error("sqlite init failed", "dsn", cfg.LeadsSQLiteDSN, "error", err)
			os.Exit(1)
		}
		leadRepo = repo
	} else {
		log.Warn("LEADS_SQLITE_DSN is empty, using in-memory lead archive")
		leadRepo = memory.NewLeadRepo()
	}

	sender := telegramAdapter.NewSender(bot)
	notifier := usecase.NewNotifier(sender, recipients, log)
	intake := usecase.NewIntake(notifier, leadRepo, log)
	target := usecase.NewTarget(domain.Recipient{ChatID: cfg.ChannelID, ThreadID: cfg.ChannelThreadID})
	publisher := usecase.NewPublisher(sender, target, log)
	stats := usecase.NewStats(leadRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := httpapi.NewServer(intake, func(ctx context.Context) (any, error) {
		return bot.GetWebhookInfo(ctx)
	}, log)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: api.Router()}
	go func() {
		log.Info("http server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()

	handler := telegramAdapter.NewHandler(bot, intake, publisher, target, stats, cfg.AdminIDs(), cfg.FrontendURL, log)
	if err := handler.Run(ctx); err != nil {
		log.Error("bot handler stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
}
