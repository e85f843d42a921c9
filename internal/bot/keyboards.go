package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"topup-bot/internal/catalog"
	"topup-bot/internal/model"
)

// formatAmount renders a RUB amount without trailing zeros (15.9, 69).
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

// gameKeyboard lays out the game grid two buttons per row.
func gameKeyboard(c *catalog.Catalog) tgbotapi.InlineKeyboardMarkup {
	games := c.Games()
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(games); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			btn(games[i].Name, fmt.Sprintf("%s%d", cbGamePrefix, i)),
		}
		if i+1 < len(games) {
			row = append(row, btn(games[i+1].Name, fmt.Sprintf("%s%d", cbGamePrefix, i+1)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// currencyKeyboard lays out denominations two per row, buttons carry
// positional indices.
func currencyKeyboard(g catalog.Game) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(g.Denominations); i += 2 {
		d := g.Denominations[i]
		row := []tgbotapi.InlineKeyboardButton{
			btn(fmt.Sprintf("%s - %s₽", d.Label, formatAmount(d.Price)), fmt.Sprintf("%s%d", cbCurrencyPrefix, i)),
		}
		if i+1 < len(g.Denominations) {
			d = g.Denominations[i+1]
			row = append(row, btn(fmt.Sprintf("%s - %s₽", d.Label, formatAmount(d.Price)), fmt.Sprintf("%s%d", cbCurrencyPrefix, i+1)))
		}
		rows = append(rows, row)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{btn("⬅️ Назад", cbBackToGames)})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("✅ Подтвердить", cbConfirmYes),
			btn("❌ Отменить", cbConfirmNo),
		),
	)
}

func paymentKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("💳 Оплата USDT", cbPaymentUSDT)),
		tgbotapi.NewInlineKeyboardRow(btn("💳 Оплата TON", cbPaymentTON)),
		tgbotapi.NewInlineKeyboardRow(btn("🏦 Банковские реквизиты", cbPaymentBank)),
		tgbotapi.NewInlineKeyboardRow(btn("❌ Отменить заказ", cbCancelOrder)),
	)
}

// paidKeyboard offers the payment assertion for one rail.
func paidKeyboard(method model.PaymentMethod, orderID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("✅ Я оплатил", paidCallback(method, orderID))),
		tgbotapi.NewInlineKeyboardRow(btn("❌ Отменить", cbCancelOrder)),
	)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("📊 Все заказы", cbAdminAllOrders)),
		tgbotapi.NewInlineKeyboardRow(btn("📩 Рассылка", cbAdminBroadcast)),
		tgbotapi.NewInlineKeyboardRow(btn("✉️ Написать пользователю", cbAdminMessageUser)),
	)
}

// adminQuickActions are the inline transition controls attached to
// paid-order notifications and the admin detail view.
func adminQuickActions(orderID string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		btn("🔄 В работе", cbAdminStatusWorkPrefix+orderID),
		btn("✅ Выполнен", cbAdminStatusDonePrefix+orderID),
	)
}

func adminNotificationKeyboard(orderID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(adminQuickActions(orderID))
}

func adminOrderDetailKeyboard(orderID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		adminQuickActions(orderID),
		tgbotapi.NewInlineKeyboardRow(btn("❌ Отменить заказ", cbAdminStatusDropPrefix+orderID)),
		tgbotapi.NewInlineKeyboardRow(btn("🔙 К списку заказов", cbAdminOrdersPagePrefix+"1")),
	)
}

func orderDetailBackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("🔙 К списку заказов", cbOrdersPagePrefix+"1")),
	)
}

func cancelToAdminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("🔙 Отменить", cbAdminBack)),
	)
}

// orderListKeyboard builds one order button per row plus page navigation.
func orderListKeyboard(orders []model.Order, page, pages int, admin bool) tgbotapi.InlineKeyboardMarkup {
	detailPrefix, pagePrefix := cbOrderDetailPrefix, cbOrdersPagePrefix
	if admin {
		detailPrefix, pagePrefix = cbAdminOrderDetailPrefix, cbAdminOrdersPagePrefix
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range orders {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			btn(fmt.Sprintf("Заказ #%s - %s", o.ID, o.Status.Label()), detailPrefix+o.ID),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 1 {
		nav = append(nav, btn("⬅️ Назад", fmt.Sprintf("%s%d", pagePrefix, page-1)))
	}
	nav = append(nav, btn(fmt.Sprintf("%d/%d", page, pages), cbCurrentPage))
	if page < pages {
		nav = append(nav, btn("Вперёд ➡️", fmt.Sprintf("%s%d", pagePrefix, page+1)))
	}
	rows = append(rows, nav)

	if admin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn("🔙 В админ-панель", cbAdminBack)))
	} else {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn("🔙 На главную", cbBackToStart)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
