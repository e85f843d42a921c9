package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"topup-bot/internal/common/logger"
	"topup-bot/internal/model"
)

const adminOrdersPageSize = 10

const adminPanelText = "👨‍💻 Панель администратора"

func (b *Bot) handleAdminPanel(msg *tgbotapi.Message) {
	// Non-admins are ignored entirely.
	if !b.store.IsAdmin(msg.From.ID) {
		logger.Warn().Int64("user_id", msg.From.ID).Msg("non-admin tried /admin")
		return
	}

	kb := adminKeyboard()
	if err := b.send(msg.Chat.ID, adminPanelText, &kb); err != nil {
		logger.Error().Err(err).Msg("send admin panel failed")
	}
}

// requireAdmin re-checks privileges on every admin callback.
func (b *Bot) requireAdmin(cq *tgbotapi.CallbackQuery) bool {
	if b.store.IsAdmin(cq.From.ID) {
		return true
	}
	b.alert(cq, "⛔ Доступ запрещен")
	return false
}

func (b *Bot) handleAdminAllOrders(cq *tgbotapi.CallbackQuery) {
	if !b.requireAdmin(cq) {
		return
	}
	b.showAdminOrdersPage(cq, 1)
}

func (b *Bot) handleAdminOrdersPage(cq *tgbotapi.CallbackQuery) {
	if !b.requireAdmin(cq) {
		return
	}
	n, ok := intSuffix(cq.Data, cbAdminOrdersPagePrefix)
	if !ok {
		b.answer(cq, "")
		return
	}
	b.showAdminOrdersPage(cq, n)
}

func (b *Bot) showAdminOrdersPage(cq *tgbotapi.CallbackQuery, n int) {
	page := b.store.AllOrdersPage(n, adminOrdersPageSize)
	if len(page.Orders) == 0 {
		b.alert(cq, "📭 Нет заказов на этой странице")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Все заказы (страница %d из %d):\n\n", page.Page, page.Pages)
	for _, o := range page.Orders {
		buyer, _ := b.store.User(o.UserID)
		fmt.Fprintf(&sb, "🆔 Заказ: %s\n"+
			"👤 Пользователь: @%s (ID: %d)\n"+
			"🎮 Игра: %s\n"+
			"💎 Валюта: %s - %s₽\n"+
			"💳 Метод: %s\n"+
			"📅 Дата: %s\n"+
			"%s Статус: %s\n\n",
			o.ID, buyer.DisplayName(), o.UserID, o.Game, o.Currency,
			formatAmount(o.Amount), o.PaymentMethod.Label(),
			o.CreatedAt.Format(timeLayout), o.Status.Emoji(), o.Status.Label())
	}

	kb := orderListKeyboard(page.Orders, page.Page, page.Pages, true)
	b.edit(cq, sb.String(), &kb)
	b.answer(cq, "")
}

func (b *Bot) handleAdminOrderDetail(cq *tgbotapi.CallbackQuery, orderID string) {
	if !b.requireAdmin(cq) {
		return
	}
	b.showAdminOrderDetail(cq, orderID)
}

func (b *Bot) showAdminOrderDetail(cq *tgbotapi.CallbackQuery, orderID string) {
	order, found := b.store.Order(orderID)
	if !found {
		b.alert(cq, "Заказ не найден")
		return
	}
	buyer, _ := b.store.User(order.UserID)

	text := fmt.Sprintf("📋 Детали заказа #%s\n\n"+
		"👤 Пользователь: @%s (ID: %d)\n"+
		"🎮 Игра: %s\n"+
		"💎 Валюта: %s\n"+
		"💰 Сумма: %s₽\n"+
		"🆔 Игровой ID: %s\n"+
		"💳 Метод оплаты: %s\n"+
		"📅 Создан: %s\n"+
		"🔄 Обновлен: %s\n"+
		"%s Статус: %s\n",
		order.ID, buyer.DisplayName(), order.UserID, order.Game, order.Currency,
		formatAmount(order.Amount), order.GameID, order.PaymentMethod.Label(),
		order.CreatedAt.Format(timeLayout), order.UpdatedAt.Format(timeLayout),
		order.Status.Emoji(), order.Status.Label())

	kb := adminOrderDetailKeyboard(order.ID)
	b.edit(cq, text, &kb)
}

// handleAdminStatusChange commits the transition first; the user notification
// is best-effort and never rolls the change back.
func (b *Bot) handleAdminStatusChange(cq *tgbotapi.CallbackQuery) {
	if !b.requireAdmin(cq) {
		return
	}

	var orderID string
	var newStatus model.OrderStatus
	switch {
	case strings.HasPrefix(cq.Data, cbAdminStatusWorkPrefix):
		orderID = strings.TrimPrefix(cq.Data, cbAdminStatusWorkPrefix)
		newStatus = model.OrderStatusInProgress
	case strings.HasPrefix(cq.Data, cbAdminStatusDonePrefix):
		orderID = strings.TrimPrefix(cq.Data, cbAdminStatusDonePrefix)
		newStatus = model.OrderStatusCompleted
	case strings.HasPrefix(cq.Data, cbAdminStatusDropPrefix):
		orderID = strings.TrimPrefix(cq.Data, cbAdminStatusDropPrefix)
		newStatus = model.OrderStatusCancelled
	default:
		b.alert(cq, "Неизвестная команда")
		return
	}

	order, found := b.store.Order(orderID)
	if !found {
		b.alert(cq, "❌ Заказ не найден")
		return
	}
	if !order.Status.CanTransitionTo(newStatus) {
		b.alert(cq, fmt.Sprintf("❌ Переход '%s' → '%s' невозможен", order.Status.Label(), newStatus.Label()))
		return
	}

	if err := b.store.UpdateOrderStatus(orderID, newStatus); err != nil {
		logger.Error().Err(err).Str("order_id", orderID).Msg("status change failed")
		b.alert(cq, "❌ Ошибка изменения статуса")
		return
	}

	order, _ = b.store.Order(orderID)
	if err := b.notifyUserStatus(order); err != nil {
		logger.Error().Err(err).Int64("user_id", order.UserID).Msg("user notification failed")
		b.alert(cq, "✅ Статус изменен, но не удалось уведомить пользователя")
	} else {
		b.answer(cq, fmt.Sprintf("✅ Статус изменен на '%s'", newStatus.Label()))
	}

	b.showAdminOrderDetail(cq, orderID)
}

func (b *Bot) handleAdminBroadcastPrompt(cq *tgbotapi.CallbackQuery) {
	if !b.requireAdmin(cq) {
		return
	}
	b.sessions.reset(cq.From.ID, stateAwaitingBroadcast)

	kb := cancelToAdminKeyboard()
	b.edit(cq, "📢 Введите сообщение для рассылки всем пользователям:", &kb)
	b.answer(cq, "")
}

func (b *Bot) handleBroadcastText(msg *tgbotapi.Message) {
	if !b.store.IsAdmin(msg.From.ID) {
		return
	}

	success, failed := b.broadcast(msg.Text)
	b.sessions.clear(msg.From.ID)

	report := fmt.Sprintf("📢 Рассылка завершена:\nУспешно: %d\nНе удалось: %d", success, failed)
	if err := b.send(msg.Chat.ID, report, nil); err != nil {
		logger.Error().Err(err).Msg("send broadcast report failed")
	}
}

func (b *Bot) handleAdminMessageUserPrompt(cq *tgbotapi.CallbackQuery) {
	if !b.requireAdmin(cq) {
		return
	}
	b.sessions.reset(cq.From.ID, stateAwaitingUserID)

	kb := cancelToAdminKeyboard()
	b.edit(cq, "✉️ Введите ID пользователя, которому хотите написать:", &kb)
	b.answer(cq, "")
}

func (b *Bot) handleTargetUserIDInput(msg *tgbotapi.Message) {
	if !b.store.IsAdmin(msg.From.ID) {
		return
	}
	sess := b.sessions.get(msg.From.ID)

	userID, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil {
		// Reprompt, the state does not change.
		if err := b.send(msg.Chat.ID, "Некорректный ID пользователя. Введите число.", nil); err != nil {
			logger.Error().Err(err).Msg("send reprompt failed")
		}
		return
	}

	sess.targetUserID = userID
	sess.state = stateAwaitingUserMessage

	kb := cancelToAdminKeyboard()
	if err := b.send(msg.Chat.ID, "Введите сообщение для этого пользователя:", &kb); err != nil {
		logger.Error().Err(err).Msg("send prompt failed")
	}
}

func (b *Bot) handleDirectMessageText(msg *tgbotapi.Message) {
	if !b.store.IsAdmin(msg.From.ID) {
		return
	}
	sess := b.sessions.get(msg.From.ID)
	target := sess.targetUserID
	b.sessions.clear(msg.From.ID)

	if target == 0 {
		if err := b.send(msg.Chat.ID, "Ошибка: пользователь не указан", nil); err != nil {
			logger.Error().Err(err).Msg("send error notice failed")
		}
		return
	}

	err := b.send(target, fmt.Sprintf("✉️ Сообщение от администратора:\n\n%s", msg.Text), nil)
	report := "✅ Сообщение отправлено"
	if err != nil {
		logger.Error().Err(err).Int64("user_id", target).Msg("direct message failed")
		report = fmt.Sprintf("❌ Не удалось отправить сообщение: %v", err)
	}
	if err := b.send(msg.Chat.ID, report, nil); err != nil {
		logger.Error().Err(err).Msg("send report failed")
	}
}

func (b *Bot) handleAdminBack(cq *tgbotapi.CallbackQuery) {
	if !b.requireAdmin(cq) {
		return
	}
	b.sessions.clear(cq.From.ID)

	kb := adminKeyboard()
	b.edit(cq, adminPanelText, &kb)
	b.answer(cq, "")
}
