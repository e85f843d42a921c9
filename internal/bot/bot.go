// Package bot implements the Telegram conversation flow and the admin
// console on top of the store, the catalog and the rate source.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"topup-bot/internal/catalog"
	"topup-bot/internal/common/config"
	"topup-bot/internal/common/logger"
	"topup-bot/internal/rates"
	"topup-bot/internal/store"
)

// API is the slice of the Telegram client the bot depends on. *tgbotapi.BotAPI
// satisfies it; tests substitute a fake transport.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      API
	store    *store.Store
	rates    *rates.Client
	catalog  *catalog.Catalog
	sessions *sessions

	tonWallet   string
	usdtWallet  string
	bankDetails string
}

func New(api API, st *store.Store, rc *rates.Client, cat *catalog.Catalog, cfg *config.Config) *Bot {
	return &Bot{
		api:         api,
		store:       st,
		rates:       rc,
		catalog:     cat,
		sessions:    newSessions(),
		tonWallet:   cfg.Payments.TONWallet,
		usdtWallet:  cfg.Payments.USDTWallet,
		bankDetails: cfg.Payments.BankDetails,
	}
}

// Run consumes updates sequentially until ctx is cancelled or the channel
// closes. Handlers run one at a time; the store relies on that.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("handler panic recovered")
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if cmd, ok := strings.CutPrefix(text, "/"); ok {
		cmd, _, _ = strings.Cut(cmd, " ")
		cmd, _, _ = strings.Cut(cmd, "@")
		switch cmd {
		case "start":
			b.handleStart(msg)
		case "myorders":
			b.handleMyOrders(msg)
		case "admin":
			b.handleAdminPanel(msg)
		}
		return
	}

	switch b.sessions.get(msg.From.ID).state {
	case stateEnterGameID:
		b.handleGameIDInput(msg)
	case stateAwaitingBroadcast:
		b.handleBroadcastText(msg)
	case stateAwaitingUserID:
		b.handleTargetUserIDInput(msg)
	case stateAwaitingUserMessage:
		b.handleDirectMessageText(msg)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil {
		return
	}
	data := cq.Data

	// Admin actions are dispatched first: their prefixes shadow the
	// user ones (admin_order_detail_ / order_detail_).
	switch {
	case data == cbAdminAllOrders:
		b.handleAdminAllOrders(cq)
	case strings.HasPrefix(data, cbAdminOrdersPagePrefix):
		b.handleAdminOrdersPage(cq)
	case strings.HasPrefix(data, cbAdminOrderDetailPrefix):
		b.handleAdminOrderDetail(cq, strings.TrimPrefix(data, cbAdminOrderDetailPrefix))
	case strings.HasPrefix(data, cbAdminStatusWorkPrefix),
		strings.HasPrefix(data, cbAdminStatusDonePrefix),
		strings.HasPrefix(data, cbAdminStatusDropPrefix):
		b.handleAdminStatusChange(cq)
	case data == cbAdminBroadcast:
		b.handleAdminBroadcastPrompt(cq)
	case data == cbAdminMessageUser:
		b.handleAdminMessageUserPrompt(cq)
	case data == cbAdminBack:
		b.handleAdminBack(cq)

	case strings.HasPrefix(data, cbGamePrefix):
		b.handleSelectGame(cq)
	case data == cbBackToGames:
		b.handleBackToGames(cq)
	case strings.HasPrefix(data, cbCurrencyPrefix):
		b.handleSelectCurrency(cq)
	case data == cbConfirmNo:
		b.handleConfirmNo(cq)
	case data == cbConfirmYes:
		b.handleConfirmYes(cq)
	case data == cbPaymentTON:
		b.handlePaymentTON(ctx, cq)
	case data == cbPaymentUSDT:
		b.handlePaymentUSDT(ctx, cq)
	case data == cbPaymentBank:
		b.handlePaymentBank(cq)
	case strings.HasPrefix(data, cbPaidPrefix):
		b.handlePaid(cq)
	case data == cbCancelOrder:
		b.handleCancelOrder(cq)
	case strings.HasPrefix(data, cbOrdersPagePrefix):
		b.handleOrdersPage(cq)
	case strings.HasPrefix(data, cbOrderDetailPrefix):
		b.handleOrderDetail(cq, strings.TrimPrefix(data, cbOrderDetailPrefix))
	case data == cbBackToStart:
		b.handleBackToStart(cq)
	case data == cbCurrentPage:
		b.answer(cq, "")
	}
}

// send delivers a plain text message, optionally with an inline keyboard.
func (b *Bot) send(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	_, err := b.api.Send(msg)
	return err
}

// edit replaces the text (and keyboard) of an existing message.
func (b *Bot) edit(cq *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID

	var c tgbotapi.Chattable
	if kb != nil {
		cfg := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, *kb)
		c = cfg
	} else {
		cfg := tgbotapi.NewEditMessageText(chatID, msgID, text)
		c = cfg
	}
	if _, err := b.api.Send(c); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("edit message failed")
	}
}

// answer closes the callback with an optional toast.
func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		logger.Error().Err(err).Msg("answer callback failed")
	}
}

// alert closes the callback with a popup alert.
func (b *Bot) alert(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(cq.ID, text)); err != nil {
		logger.Error().Err(err).Msg("answer callback failed")
	}
}
