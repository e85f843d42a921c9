package bot

import (
	"fmt"
	"strconv"
	"strings"

	"topup-bot/internal/model"
)

// Callback data identifiers. Telegram caps callback data at 64 bytes, so
// games and denominations travel as positional catalog indices.
const (
	cbGamePrefix     = "game_"
	cbCurrencyPrefix = "currency_"
	cbBackToGames    = "back_to_games"
	cbBackToStart    = "back_to_start"
	cbConfirmYes     = "confirm_yes"
	cbConfirmNo      = "confirm_no"
	cbPaymentTON     = "payment_ton"
	cbPaymentUSDT    = "payment_usdt"
	cbPaymentBank    = "payment_bank"
	cbPaidPrefix     = "paid_"
	cbCancelOrder    = "cancel_order"

	cbOrdersPagePrefix  = "orders_page_"
	cbOrderDetailPrefix = "order_detail_"
	cbCurrentPage       = "current_page"

	cbAdminAllOrders         = "admin_all_orders"
	cbAdminOrdersPagePrefix  = "admin_orders_page_"
	cbAdminOrderDetailPrefix = "admin_order_detail_"
	cbAdminStatusWorkPrefix  = "admin_status_work_"
	cbAdminStatusDonePrefix  = "admin_status_done_"
	cbAdminStatusDropPrefix  = "admin_status_drop_"
	cbAdminBroadcast         = "admin_broadcast"
	cbAdminMessageUser       = "admin_message_user"
	cbAdminBack              = "admin_back"
)

// paidCallback encodes the "I paid" action for one rail and order.
func paidCallback(method model.PaymentMethod, orderID string) string {
	return fmt.Sprintf("%s%s_%s", cbPaidPrefix, method, orderID)
}

// parsePaidCallback decodes paid_<rail>_<orderID>.
func parsePaidCallback(data string) (model.PaymentMethod, string, bool) {
	rest, ok := strings.CutPrefix(data, cbPaidPrefix)
	if !ok {
		return model.PaymentMethodNone, "", false
	}
	rail, orderID, ok := strings.Cut(rest, "_")
	if !ok || orderID == "" {
		return model.PaymentMethodNone, "", false
	}
	switch model.PaymentMethod(rail) {
	case model.PaymentMethodTON, model.PaymentMethodUSDT, model.PaymentMethodBank:
		return model.PaymentMethod(rail), orderID, true
	}
	return model.PaymentMethodNone, "", false
}

// intSuffix parses the integer tail of prefixed callback data.
func intSuffix(data, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
