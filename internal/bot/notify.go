package bot

import (
	"fmt"
	"strings"

	"topup-bot/internal/common/logger"
	"topup-bot/internal/model"
)

// notifyAdminsPaid fans a paid-order notification out to every current admin
// with inline transition controls. Deliveries are independent best-effort
// attempts; a failed send is logged and counted, nothing is rolled back.
func (b *Bot) notifyAdminsPaid(order model.Order) {
	buyer, _ := b.store.User(order.UserID)

	var sb strings.Builder
	sb.WriteString("🛒 Новый оплаченный заказ!\n\n")
	fmt.Fprintf(&sb, "🆔 ID заказа: %s\n", order.ID)
	fmt.Fprintf(&sb, "💳 Метод оплаты: %s\n", order.PaymentMethod.Label())
	fmt.Fprintf(&sb, "🎮 Игра: %s\n", order.Game)
	fmt.Fprintf(&sb, "💎 Валюта: %s\n", order.Currency)
	fmt.Fprintf(&sb, "💰 Сумма: %s₽\n", formatAmount(order.Amount))
	fmt.Fprintf(&sb, "🆔 Игровой ID: %s\n", order.GameID)
	fmt.Fprintf(&sb, "👤 Покупатель: @%s\n", buyer.DisplayName())
	fmt.Fprintf(&sb, "📅 Время заказа: %s", order.CreatedAt.Format(timeLayout))
	text := sb.String()

	kb := adminNotificationKeyboard(order.ID)
	failed := 0
	admins := b.store.AdminIDs()
	for _, adminID := range admins {
		if err := b.send(adminID, text, &kb); err != nil {
			logger.Error().Err(err).Int64("admin_id", adminID).Str("order_id", order.ID).
				Msg("admin notification failed")
			failed++
		}
	}
	logger.Info().Str("order_id", order.ID).Int("admins", len(admins)).Int("failed", failed).
		Msg("paid order notification sent")
}

// notifyUserStatus tells the order owner about a status change.
func (b *Bot) notifyUserStatus(order model.Order) error {
	text := fmt.Sprintf("🔄 Статус вашего заказа #%s изменен на '%s'\n\n"+
		"🎮 Игра: %s\n"+
		"💎 Валюта: %s\n"+
		"💰 Сумма: %s₽\n\n"+
		"Если у вас есть вопросы, обратитесь к администратору.",
		order.ID, order.Status.Label(), order.Game, order.Currency, formatAmount(order.Amount))
	return b.send(order.UserID, text, nil)
}

// broadcast sequentially fans one message out to every known user and counts
// per-recipient outcomes.
func (b *Bot) broadcast(text string) (success, failed int) {
	body := fmt.Sprintf("📢 Сообщение от администратора:\n\n%s", text)
	for _, userID := range b.store.UserIDs() {
		if err := b.send(userID, body, nil); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("broadcast delivery failed")
			failed++
			continue
		}
		success++
	}
	logger.Info().Int("success", success).Int("failed", failed).Msg("broadcast finished")
	return success, failed
}
