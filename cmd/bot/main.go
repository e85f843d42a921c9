package main

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xssnick/tonutils-go/address"

	"topup-bot/internal/bot"
	"topup-bot/internal/catalog"
	"topup-bot/internal/common/config"
	"topup-bot/internal/common/logger"
	"topup-bot/internal/rates"
	"topup-bot/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Init("topup-bot", cfg.Debug)

	// A malformed wallet address does not kill the process: payments are
	// verified by an admin anyway.
	if cfg.Payments.TONWallet != "" {
		if _, err := address.ParseAddr(cfg.Payments.TONWallet); err != nil {
			logger.Warn().Err(err).Str("wallet", cfg.Payments.TONWallet).Msg("TON wallet looks invalid")
		}
	}

	st, err := store.New(cfg.Store.DataPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Store.DataPath).Msg("store init failed")
	}
	if err := st.SyncAdmins(cfg.Telegram.AdminIDs); err != nil {
		logger.Fatal().Err(err).Msg("admin sync failed")
	}
	logger.Info().Ints64("admins", st.AdminIDs()).Msg("admins synchronized")

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram connect failed")
	}
	api.Debug = cfg.Debug

	b := bot.New(api, st, rates.NewClient(cfg.Rates.BaseURL), catalog.Default(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	logger.Info().Str("bot", api.Self.UserName).Msg("bot started")
	b.Run(ctx, updates)
	logger.Info().Msg("bot stopped")
}
