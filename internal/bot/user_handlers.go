package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"topup-bot/internal/common/logger"
	"topup-bot/internal/model"
	"topup-bot/internal/rates"
	"topup-bot/internal/store"
)

const userOrdersPageSize = 5

const timeLayout = "02.01.2006 15:04"

const welcomeText = "🎮 Добро пожаловать в бота по продаже игровой валюты!"

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	from := msg.From
	if err := b.store.AddUser(from.ID, from.UserName, from.FirstName); err != nil {
		logger.Error().Err(err).Int64("user_id", from.ID).Msg("add user failed")
	}

	b.sessions.reset(from.ID, stateSelectGame)
	kb := gameKeyboard(b.catalog)
	if err := b.send(msg.Chat.ID, welcomeText, &kb); err != nil {
		logger.Error().Err(err).Msg("send welcome failed")
	}
}

func (b *Bot) handleSelectGame(cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != stateSelectGame {
		b.expired(cq)
		return
	}

	idx, ok := intSuffix(cq.Data, cbGamePrefix)
	if !ok {
		b.answer(cq, "")
		return
	}
	game, ok := b.catalog.Game(idx)
	if !ok {
		b.answer(cq, "")
		return
	}

	sess.gameIdx = idx
	sess.game = game.Name
	sess.state = stateSelectCurrency

	kb := currencyKeyboard(game)
	b.edit(cq, fmt.Sprintf("🎮 Игра: %s\n\nВыберите количество валюты:", game.Name), &kb)
	b.answer(cq, "")
}

func (b *Bot) handleBackToGames(cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != stateSelectCurrency {
		b.expired(cq)
		return
	}
	sess.state = stateSelectGame

	kb := gameKeyboard(b.catalog)
	b.edit(cq, "Выберите игру из списка:", &kb)
	b.answer(cq, "")
}

func (b *Bot) handleSelectCurrency(cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != stateSelectCurrency {
		b.expired(cq)
		return
	}

	idx, ok := intSuffix(cq.Data, cbCurrencyPrefix)
	if !ok {
		b.answer(cq, "")
		return
	}
	denom, ok := b.catalog.Denomination(sess.gameIdx, idx)
	if !ok {
		b.answer(cq, "")
		return
	}

	sess.currency = denom.Label
	sess.price = denom.Price
	sess.state = stateEnterGameID

	b.edit(cq, fmt.Sprintf("🎮 Игра: %s\n💎 Валюта: %s - %s₽\n\nВведите ваш игровой ID:",
		sess.game, denom.Label, formatAmount(denom.Price)), nil)
	b.answer(cq, "")
}

func (b *Bot) handleGameIDInput(msg *tgbotapi.Message) {
	sess := b.sessions.get(msg.From.ID)

	gameID := strings.TrimSpace(msg.Text)
	if gameID == "" {
		// Reprompt without moving the state.
		if err := b.send(msg.Chat.ID, "Пожалуйста, введите корректный игровой ID", nil); err != nil {
			logger.Error().Err(err).Msg("send reprompt failed")
		}
		return
	}

	sess.gameID = gameID
	sess.state = stateConfirmOrder

	kb := confirmationKeyboard()
	text := fmt.Sprintf("🔍 Проверьте данные заказа:\n\n"+
		"🎮 Игра: %s\n"+
		"💎 Валюта: %s\n"+
		"💰 Сумма: %s₽\n"+
		"🆔 Игровой ID: %s\n\n"+
		"Всё верно?",
		sess.game, sess.currency, formatAmount(sess.price), gameID)
	if err := b.send(msg.Chat.ID, text, &kb); err != nil {
		logger.Error().Err(err).Msg("send confirmation failed")
	}
}

func (b *Bot) handleConfirmNo(cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != stateConfirmOrder {
		b.expired(cq)
		return
	}
	b.sessions.reset(cq.From.ID, stateSelectGame)

	kb := gameKeyboard(b.catalog)
	b.edit(cq, "Заказ отменён. Выберите игру из списка:", &kb)
	b.answer(cq, "")
}

func (b *Bot) handleConfirmYes(cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != stateConfirmOrder {
		b.expired(cq)
		return
	}

	// The payment rail is unknown until the buyer asserts payment.
	order, err := b.store.AddOrder(cq.From.ID, sess.game, sess.currency, sess.price, sess.gameID, model.PaymentMethodNone)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", cq.From.ID).Msg("add order failed")
		b.alert(cq, "❌ Не удалось создать заказ, попробуйте позже")
		return
	}

	sess.orderID = order.ID
	sess.state = statePayment

	kb := paymentKeyboard()
	b.edit(cq, fmt.Sprintf("💰 К оплате: %s₽\n\nВыберите способ оплаты:", formatAmount(order.Amount)), &kb)
	b.answer(cq, "")
}

func (b *Bot) handlePaymentTON(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != statePayment {
		b.expired(cq)
		return
	}

	rate := b.rates.Rate(ctx, rates.AssetTON)
	quote := sess.price / rate

	kb := paidKeyboard(model.PaymentMethodTON, sess.orderID)
	b.edit(cq, fmt.Sprintf("💳 Оплата через TON\n\n"+
		"Сумма: %s₽ (~%.2f TON)\n"+
		"Курс: 1 TON = %.2f₽\n"+
		"Кошелек: %s\n\n"+
		"1. Откройте @wallet в Telegram\n"+
		"2. Переведите указанную сумму\n"+
		"3. Нажмите кнопку 'Я оплатил'\n\n"+
		"ID вашего заказа: %s",
		formatAmount(sess.price), quote, rate, b.tonWallet, sess.orderID), &kb)
	b.answer(cq, "")
}

func (b *Bot) handlePaymentUSDT(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != statePayment {
		b.expired(cq)
		return
	}

	rate := b.rates.Rate(ctx, rates.AssetUSDT)
	quote := sess.price / rate

	kb := paidKeyboard(model.PaymentMethodUSDT, sess.orderID)
	b.edit(cq, fmt.Sprintf("💳 Оплата через USDT (TRC20)\n\n"+
		"Сумма: %s₽ (~%.2f USDT)\n"+
		"Курс: 1 USDT = %.2f₽\n"+
		"Кошелек: %s\n\n"+
		"1. Переведите указанную сумму\n"+
		"2. Нажмите кнопку 'Я оплатил'\n\n"+
		"ID вашего заказа: %s",
		formatAmount(sess.price), quote, rate, b.usdtWallet, sess.orderID), &kb)
	b.answer(cq, "")
}

func (b *Bot) handlePaymentBank(cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != statePayment {
		b.expired(cq)
		return
	}

	kb := paidKeyboard(model.PaymentMethodBank, sess.orderID)
	b.edit(cq, fmt.Sprintf("🏦 Оплата по реквизитам\n\n"+
		"Сумма: %s₽\n"+
		"%s\n\n"+
		"После оплаты нажмите кнопку 'Я оплатил'\n\n"+
		"ID вашего заказа: %s",
		formatAmount(sess.price), b.bankDetails, sess.orderID), &kb)
	b.answer(cq, "")
}

// handlePaid records the asserted payment, moves the order to review and
// fans the notification out to every admin.
func (b *Bot) handlePaid(cq *tgbotapi.CallbackQuery) {
	method, orderID, ok := parsePaidCallback(cq.Data)
	if !ok {
		b.alert(cq, "❌ Ошибка в данных заказа")
		return
	}

	order, found := b.store.Order(orderID)
	if !found {
		b.alert(cq, "❌ Заказ не найден")
		return
	}
	if !order.Status.CanTransitionTo(model.OrderStatusAwaitingReview) {
		b.alert(cq, "❌ Заказ уже обработан")
		return
	}

	status := model.OrderStatusAwaitingReview
	err := b.store.UpdateOrder(orderID, store.OrderUpdate{Status: &status, PaymentMethod: &method})
	switch {
	case errors.Is(err, store.ErrOrderNotFound):
		b.alert(cq, "❌ Заказ не найден")
		return
	case err != nil:
		logger.Error().Err(err).Str("order_id", orderID).Msg("update order failed")
		b.alert(cq, "❌ Ошибка обновления заказа")
		return
	}

	order, _ = b.store.Order(orderID)
	b.notifyAdminsPaid(order)

	b.edit(cq, "✅ Спасибо за оплату! Ваш заказ принят в обработку.\n"+
		"Вы можете проверить статус заказа командой /myorders", nil)
	b.answer(cq, "")
	b.sessions.clear(cq.From.ID)
}

func (b *Bot) handleCancelOrder(cq *tgbotapi.CallbackQuery) {
	sess := b.sessions.get(cq.From.ID)
	if sess.state != statePayment {
		b.expired(cq)
		return
	}

	if sess.orderID != "" {
		order, found := b.store.Order(sess.orderID)
		if found && order.Status.CanTransitionTo(model.OrderStatusCancelled) {
			if err := b.store.UpdateOrderStatus(sess.orderID, model.OrderStatusCancelled); err != nil {
				logger.Error().Err(err).Str("order_id", sess.orderID).Msg("cancel order failed")
			}
		}
	}

	b.sessions.reset(cq.From.ID, stateSelectGame)
	kb := gameKeyboard(b.catalog)
	b.edit(cq, "Заказ отменён. Выберите игру из списка:", &kb)
	b.answer(cq, "")
}

func (b *Bot) handleMyOrders(msg *tgbotapi.Message) {
	page := b.store.UserOrdersPage(msg.From.ID, 1, userOrdersPageSize)
	if page.Total == 0 {
		if err := b.send(msg.Chat.ID, "У вас пока нет заказов.", nil); err != nil {
			logger.Error().Err(err).Msg("send orders failed")
		}
		return
	}

	kb := orderListKeyboard(page.Orders, page.Page, page.Pages, false)
	if err := b.send(msg.Chat.ID, userOrdersText(page), &kb); err != nil {
		logger.Error().Err(err).Msg("send orders failed")
	}
}

func (b *Bot) handleOrdersPage(cq *tgbotapi.CallbackQuery) {
	n, ok := intSuffix(cq.Data, cbOrdersPagePrefix)
	if !ok {
		b.answer(cq, "")
		return
	}

	page := b.store.UserOrdersPage(cq.From.ID, n, userOrdersPageSize)
	if len(page.Orders) == 0 {
		b.alert(cq, "📭 Нет заказов на этой странице")
		return
	}

	kb := orderListKeyboard(page.Orders, page.Page, page.Pages, false)
	b.edit(cq, userOrdersText(page), &kb)
	b.answer(cq, "")
}

func (b *Bot) handleOrderDetail(cq *tgbotapi.CallbackQuery, orderID string) {
	order, found := b.store.Order(orderID)
	if !found || order.UserID != cq.From.ID {
		// Someone else's order looks the same as a missing one.
		b.alert(cq, "Заказ не найден")
		return
	}

	text := fmt.Sprintf("📋 Детали заказа #%s\n\n"+
		"🎮 Игра: %s\n"+
		"💎 Валюта: %s\n"+
		"💰 Сумма: %s₽\n"+
		"💳 Метод оплаты: %s\n"+
		"🆔 Игровой ID: %s\n"+
		"📅 Создан: %s\n"+
		"🔄 Обновлен: %s\n"+
		"%s Статус: %s\n",
		order.ID, order.Game, order.Currency, formatAmount(order.Amount),
		order.PaymentMethod.Label(), order.GameID,
		order.CreatedAt.Format(timeLayout), order.UpdatedAt.Format(timeLayout),
		order.Status.Emoji(), order.Status.Label())

	kb := orderDetailBackKeyboard()
	b.edit(cq, text, &kb)
	b.answer(cq, "")
}

func (b *Bot) handleBackToStart(cq *tgbotapi.CallbackQuery) {
	b.sessions.reset(cq.From.ID, stateSelectGame)
	kb := gameKeyboard(b.catalog)
	b.edit(cq, welcomeText, &kb)
	b.answer(cq, "")
}

// expired closes a callback whose session no longer matches the pressed
// button (restart, finished flow, stale message).
func (b *Bot) expired(cq *tgbotapi.CallbackQuery) {
	b.alert(cq, "Сессия устарела. Отправьте /start, чтобы начать заново.")
}

func userOrdersText(page store.Page) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Ваши заказы (страница %d из %d):\n\n", page.Page, page.Pages)
	for _, o := range page.Orders {
		fmt.Fprintf(&sb, "🆔 ID заказа: %s\n"+
			"🎮 Игра: %s\n"+
			"💎 Валюта: %s - %s₽\n"+
			"📅 Дата: %s\n"+
			"%s Статус: %s\n\n",
			o.ID, o.Game, o.Currency, formatAmount(o.Amount),
			o.CreatedAt.Format(timeLayout), o.Status.Emoji(), o.Status.Label())
	}
	return sb.String()
}
