package bot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"topup-bot/internal/catalog"
	"topup-bot/internal/common/config"
	"topup-bot/internal/model"
	"topup-bot/internal/rates"
	"topup-bot/internal/store"
)

// fakeAPI records outbound traffic instead of talking to Telegram.
type fakeAPI struct {
	sent      []tgbotapi.MessageConfig
	edits     []tgbotapi.EditMessageTextConfig
	callbacks []tgbotapi.CallbackConfig
	failFor   map[int64]bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		if f.failFor[v.ChatID] {
			return tgbotapi.Message{}, errors.New("bot was blocked by the user")
		}
		f.sent = append(f.sent, v)
	case tgbotapi.EditMessageTextConfig:
		f.edits = append(f.edits, v)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if v, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, v)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) sentTo(chatID int64) []string {
	var texts []string
	for _, m := range f.sent {
		if m.ChatID == chatID {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

func (f *fakeAPI) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()
	require.NotEmpty(t, f.edits)
	return f.edits[len(f.edits)-1]
}

func (f *fakeAPI) lastCallback(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	require.NotEmpty(t, f.callbacks)
	return f.callbacks[len(f.callbacks)-1]
}

const (
	buyerID  = int64(100)
	adminA   = int64(900)
	adminB   = int64(901)
	outsider = int64(555)
)

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	require.NoError(t, st.SyncAdmins([]int64{adminA, adminB}))

	cfg := &config.Config{}
	cfg.Payments.TONWallet = "UQTestWallet"
	cfg.Payments.USDTWallet = "TTestWallet"
	cfg.Payments.BankDetails = "Карта: 0000 0000"

	api := &fakeAPI{failFor: make(map[int64]bool)}
	// Unreachable address: quotes fail instantly onto the fallback rate.
	b := New(api, st, rates.NewClient("http://127.0.0.1:0"), catalog.Default(), cfg)
	return b, api, st
}

func message(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, UserName: "buyer", FirstName: "Buyer"},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
	}}
}

func press(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID, UserName: "buyer"},
		Message: &tgbotapi.Message{MessageID: 2, Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}}
}

// drive runs updates through the same sequential path as Run.
func drive(b *Bot, updates ...tgbotapi.Update) {
	ctx := context.Background()
	for _, u := range updates {
		b.handleUpdate(ctx, u)
	}
}

// placeOrder walks the buyer through game 0 / denomination 0 up to the
// payment menu and returns the created order.
func placeOrder(t *testing.T, b *Bot, st *store.Store) model.Order {
	t.Helper()
	drive(b,
		message(buyerID, "/start"),
		press(buyerID, "game_0"),
		press(buyerID, "currency_0"),
		message(buyerID, "12345"),
		press(buyerID, "confirm_yes"),
	)
	orders := st.UserOrders(buyerID)
	require.Len(t, orders, 1)
	return orders[0]
}

func TestOrderCreationScenario(t *testing.T) {
	b, api, st := newTestBot(t)

	order := placeOrder(t, b, st)
	require.Equal(t, "Mobile Legends: Bang Bang", order.Game)
	require.Equal(t, "8 алмазов", order.Currency)
	require.Equal(t, 15.9, order.Amount)
	require.Equal(t, "12345", order.GameID)
	require.Equal(t, model.OrderStatusAwaitingPayment, order.Status)
	require.Equal(t, model.PaymentMethodNone, order.PaymentMethod)

	// The user was registered on /start.
	u, ok := st.User(buyerID)
	require.True(t, ok)
	require.Equal(t, "buyer", u.Username)

	edit := api.lastEdit(t)
	require.Contains(t, edit.Text, "Выберите способ оплаты")
}

func TestEmptyGameIDReprompts(t *testing.T) {
	b, api, st := newTestBot(t)

	drive(b,
		message(buyerID, "/start"),
		press(buyerID, "game_1"),
		press(buyerID, "currency_0"),
		message(buyerID, "   "),
	)
	require.Empty(t, st.UserOrders(buyerID))
	texts := api.sentTo(buyerID)
	require.Contains(t, texts[len(texts)-1], "корректный игровой ID")

	// After valid input the flow continues from the same step.
	drive(b, message(buyerID, "77777"), press(buyerID, "confirm_yes"))
	orders := st.UserOrders(buyerID)
	require.Len(t, orders, 1)
	require.Equal(t, "Free Fire", orders[0].Game)
	require.Equal(t, "77777", orders[0].GameID)
}

func TestConfirmNoDiscardsSession(t *testing.T) {
	b, api, st := newTestBot(t)

	drive(b,
		message(buyerID, "/start"),
		press(buyerID, "game_0"),
		press(buyerID, "currency_0"),
		message(buyerID, "12345"),
		press(buyerID, "confirm_no"),
	)
	require.Empty(t, st.UserOrders(buyerID))

	// Old selections are gone: the denomination button from the previous run is dead.
	drive(b, press(buyerID, "currency_0"))
	require.Contains(t, api.lastCallback(t).Text, "Сессия устарела")
	require.Empty(t, st.UserOrders(buyerID))
}

func TestBankRailPaymentAssertion(t *testing.T) {
	b, api, st := newTestBot(t)
	order := placeOrder(t, b, st)

	drive(b, press(buyerID, "payment_bank"))
	edit := api.lastEdit(t)
	require.Contains(t, edit.Text, "Карта: 0000 0000")
	require.Contains(t, edit.Text, "ID вашего заказа: "+order.ID)

	drive(b, press(buyerID, fmt.Sprintf("paid_bank_%s", order.ID)))

	got, ok := st.Order(order.ID)
	require.True(t, ok)
	require.Equal(t, model.OrderStatusAwaitingReview, got.Status)
	require.Equal(t, model.PaymentMethodBank, got.PaymentMethod)
	require.False(t, got.UpdatedAt.Before(got.CreatedAt))

	// Every admin gets the notification with quick transition buttons.
	for _, adminID := range []int64{adminA, adminB} {
		texts := api.sentTo(adminID)
		require.Len(t, texts, 1)
		require.Contains(t, texts[0], "Новый оплаченный заказ")
		require.Contains(t, texts[0], "Банк")
	}

	edit = api.lastEdit(t)
	require.Contains(t, edit.Text, "Спасибо за оплату")
}

func TestTONRailUsesFallbackQuote(t *testing.T) {
	b, api, st := newTestBot(t)
	order := placeOrder(t, b, st)

	// The price service is unreachable, so the 235 RUB fallback applies.
	drive(b, press(buyerID, "payment_ton"))
	edit := api.lastEdit(t)
	require.Contains(t, edit.Text, "1 TON = 235.00₽")
	require.Contains(t, edit.Text, "UQTestWallet")
	require.Contains(t, edit.Text, fmt.Sprintf("~%.2f TON", order.Amount/235.0))
}

func TestAdminStatusProgression(t *testing.T) {
	b, api, st := newTestBot(t)
	order := placeOrder(t, b, st)
	drive(b, press(buyerID, fmt.Sprintf("paid_ton_%s", order.ID)))

	drive(b, press(adminA, "admin_status_work_"+order.ID))
	got, _ := st.Order(order.ID)
	require.Equal(t, model.OrderStatusInProgress, got.Status)

	// The order owner was notified.
	texts := api.sentTo(buyerID)
	require.Contains(t, texts[len(texts)-1], "в работе")

	drive(b, press(adminA, "admin_status_done_"+order.ID))
	got, _ = st.Order(order.ID)
	require.Equal(t, model.OrderStatusCompleted, got.Status)

	// A completed order is terminal: no transitions lead back out.
	drive(b, press(adminA, "admin_status_work_"+order.ID))
	got, _ = st.Order(order.ID)
	require.Equal(t, model.OrderStatusCompleted, got.Status)
	require.Contains(t, api.lastCallback(t).Text, "невозможен")
}

func TestNotifyFailureDoesNotRollBack(t *testing.T) {
	b, api, st := newTestBot(t)
	order := placeOrder(t, b, st)
	drive(b, press(buyerID, fmt.Sprintf("paid_usdt_%s", order.ID)))

	// The buyer blocked the bot: the notification fails, the transition stays.
	api.failFor[buyerID] = true
	drive(b, press(adminA, "admin_status_work_"+order.ID))

	got, _ := st.Order(order.ID)
	require.Equal(t, model.OrderStatusInProgress, got.Status)
	require.Contains(t, api.lastCallback(t).Text, "не удалось уведомить")
}

func TestUserCancellation(t *testing.T) {
	b, _, st := newTestBot(t)
	order := placeOrder(t, b, st)

	drive(b, press(buyerID, "cancel_order"))
	got, _ := st.Order(order.ID)
	require.Equal(t, model.OrderStatusCancelled, got.Status)

	// A cancelled order cannot move in any direction.
	drive(b, press(adminA, "admin_status_work_"+order.ID))
	got, _ = st.Order(order.ID)
	require.Equal(t, model.OrderStatusCancelled, got.Status)
}

func TestPaidOnUnknownOrder(t *testing.T) {
	b, api, _ := newTestBot(t)

	drive(b, message(buyerID, "/start"), press(buyerID, "paid_ton_999"))
	require.Contains(t, api.lastCallback(t).Text, "не найден")
}

func TestAdminPanelIgnoredForOutsiders(t *testing.T) {
	b, api, _ := newTestBot(t)

	drive(b, message(outsider, "/admin"))
	require.Empty(t, api.sentTo(outsider))

	drive(b, press(outsider, "admin_all_orders"))
	cb := api.lastCallback(t)
	require.True(t, cb.ShowAlert)
	require.Contains(t, cb.Text, "Доступ запрещен")
}

func TestBroadcastCountsOutcomes(t *testing.T) {
	b, api, _ := newTestBot(t)

	drive(b,
		message(buyerID, "/start"),
		message(int64(101), "/start"),
	)
	api.failFor[101] = true

	drive(b,
		press(adminA, "admin_broadcast"),
		message(adminA, "Скидки на алмазы!"),
	)

	texts := api.sentTo(adminA)
	require.Contains(t, texts[len(texts)-1], "Успешно: 1")
	require.Contains(t, texts[len(texts)-1], "Не удалось: 1")

	buyerTexts := api.sentTo(buyerID)
	require.Contains(t, buyerTexts[len(buyerTexts)-1], "Скидки на алмазы!")
}

func TestDirectMessageValidation(t *testing.T) {
	b, api, _ := newTestBot(t)
	drive(b, message(buyerID, "/start"))

	drive(b,
		press(adminA, "admin_message_user"),
		message(adminA, "not-a-number"),
	)
	texts := api.sentTo(adminA)
	require.Contains(t, texts[len(texts)-1], "Некорректный ID")

	// Entering a number afterwards continues from the same step.
	drive(b,
		message(adminA, "100"),
		message(adminA, "Ваш заказ готов"),
	)
	buyerTexts := api.sentTo(buyerID)
	require.Contains(t, buyerTexts[len(buyerTexts)-1], "Ваш заказ готов")
	adminTexts := api.sentTo(adminA)
	require.Contains(t, adminTexts[len(adminTexts)-1], "Сообщение отправлено")
}

func TestMyOrdersPagination(t *testing.T) {
	b, api, st := newTestBot(t)
	drive(b, message(buyerID, "/start"))

	for i := 0; i < 7; i++ {
		_, err := st.AddOrder(buyerID, "Standoff 2", "100", 135, "acc", model.PaymentMethodNone)
		require.NoError(t, err)
	}

	drive(b, message(buyerID, "/myorders"))
	texts := api.sentTo(buyerID)
	require.Contains(t, texts[len(texts)-1], "страница 1 из 2")

	drive(b, press(buyerID, "orders_page_2"))
	require.Contains(t, api.lastEdit(t).Text, "страница 2 из 2")

	// A page past the end is a warning, not an error.
	drive(b, press(buyerID, "orders_page_9"))
	require.Contains(t, api.lastCallback(t).Text, "Нет заказов")
}

func TestMyOrdersEmpty(t *testing.T) {
	b, api, _ := newTestBot(t)

	drive(b, message(buyerID, "/myorders"))
	texts := api.sentTo(buyerID)
	require.Contains(t, texts[len(texts)-1], "нет заказов")
}

func TestStaleButtonAfterCompletion(t *testing.T) {
	b, api, st := newTestBot(t)
	order := placeOrder(t, b, st)
	drive(b, press(buyerID, fmt.Sprintf("paid_bank_%s", order.ID)))

	// The session is finished: old payment buttons no longer work.
	drive(b, press(buyerID, "payment_ton"))
	require.Contains(t, api.lastCallback(t).Text, "Сессия устарела")
}

func TestRepeatedPaidAssertionRejected(t *testing.T) {
	b, api, st := newTestBot(t)
	order := placeOrder(t, b, st)

	drive(b, press(buyerID, fmt.Sprintf("paid_bank_%s", order.ID)))
	drive(b, press(buyerID, fmt.Sprintf("paid_ton_%s", order.ID)))

	got, _ := st.Order(order.ID)
	require.Equal(t, model.PaymentMethodBank, got.PaymentMethod)
	require.Equal(t, model.OrderStatusAwaitingReview, got.Status)
	require.Contains(t, api.lastCallback(t).Text, "уже обработан")
}
